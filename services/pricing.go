package services

import (
	"math"

	"github.com/bilal-alaabadi/arkan-b/models"
)

// Protocol constants of the Thawani gateway: amounts are sent in baisa
// (1/1000 OMR) and the minimum chargeable amount is 100 baisa.
const (
	minorUnitFactor = 1000
	minMinorUnits   = 100
)

// DepositAmount is the fixed upfront charge (OMR) in deposit mode.
const DepositAmount = 10.0

const (
	shippingFeeGulfUAE   = 4.0
	shippingFeeGulfOther = 5.0
	shippingFeeOffice    = 1.0
	shippingFeeHome      = 2.0

	pairDiscountPerPair = 1.0

	// minUnitPrice keeps a heavily discounted unit price positive when sent
	// to the gateway.
	minUnitPrice = 0.1
)

// Shipping selector values accepted at checkout.
const (
	CountryGulf          = "gulf"
	GulfCountryUAE       = "UAE"
	ShippingMethodOffice = "office"
	ShippingMethodHome   = "home"
)

// ShippingSelection is the shipping-fee selector context: destination
// country, the gulf sub-country when Country is the gulf region, and the
// home/office delivery method for domestic orders.
type ShippingSelection struct {
	Country     string
	GulfCountry string
	Method      string
}

// Quote is a priced cart. Subtotal is after the pair discount and floored at
// zero; AmountToCharge is what is actually requested from the gateway (the
// grand total, or the fixed deposit in deposit mode).
type Quote struct {
	Subtotal        float64
	PairDiscount    float64
	ShippingFee     float64
	GrandTotal      float64
	AmountToCharge  float64
	RemainingAmount float64
	LineItems       []models.LineItem
}

// Pricer turns carts into priced orders. It is pure: no I/O.
type Pricer struct {
	pairCategories map[string]bool
}

// NewPricer creates a Pricer; pairCategories are the product categories
// eligible for the per-pair discount.
func NewPricer(pairCategories []string) *Pricer {
	set := make(map[string]bool, len(pairCategories))
	for _, c := range pairCategories {
		set[c] = true
	}
	return &Pricer{pairCategories: set}
}

// ToMinorUnits converts an OMR amount to baisa, enforcing the gateway's
// minimum chargeable amount as a floor.
func ToMinorUnits(amount float64) int64 {
	v := int64(math.Round(amount * minorUnitFactor))
	if v < minMinorUnits {
		return minMinorUnits
	}
	return v
}

// ShippingFee resolves the deterministic shipping-fee table.
func (p *Pricer) ShippingFee(sel ShippingSelection) float64 {
	if sel.Country == CountryGulf {
		if sel.GulfCountry == GulfCountryUAE {
			return shippingFeeGulfUAE
		}
		return shippingFeeGulfOther
	}
	if sel.Method == ShippingMethodOffice {
		return shippingFeeOffice
	}
	return shippingFeeHome
}

// pairDiscount is the order-level discount contributed by one line item: one
// currency unit per complete pair of a discount-eligible category.
func (p *Pricer) pairDiscount(item models.CartItem) float64 {
	if !p.pairCategories[item.Category] {
		return 0
	}
	pairs := item.Quantity / 2
	return float64(pairs) * pairDiscountPerPair
}

// Price turns a cart into a Quote, including the gateway line items for the
// requested charge.
func (p *Pricer) Price(items []models.CartItem, sel ShippingSelection, depositMode bool) Quote {
	shippingFee := p.ShippingFee(sel)

	var itemsSubtotal, totalDiscount float64
	for _, it := range items {
		itemsSubtotal += it.Price * float64(it.Quantity)
		totalDiscount += p.pairDiscount(it)
	}
	subtotal := math.Max(0, itemsSubtotal-totalDiscount)
	grandTotal := subtotal + shippingFee

	q := Quote{
		Subtotal:     subtotal,
		PairDiscount: totalDiscount,
		ShippingFee:  shippingFee,
		GrandTotal:   grandTotal,
	}

	if depositMode {
		q.AmountToCharge = DepositAmount
		q.RemainingAmount = math.Max(0, grandTotal-DepositAmount)
		q.LineItems = []models.LineItem{
			{Name: "Deposit payment", Quantity: 1, UnitAmount: ToMinorUnits(DepositAmount)},
		}
		return q
	}

	lineItems := make([]models.LineItem, 0, len(items)+1)
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		name := it.Name
		if name == "" {
			name = "Product"
		}
		unit := math.Max(minUnitPrice, it.Price-p.pairDiscount(it)/float64(qty))
		lineItems = append(lineItems, models.LineItem{
			Name:       name,
			Quantity:   qty,
			UnitAmount: ToMinorUnits(unit),
		})
	}
	lineItems = append(lineItems, models.LineItem{
		Name:       "Shipping fee",
		Quantity:   1,
		UnitAmount: ToMinorUnits(shippingFee),
	})

	q.AmountToCharge = grandTotal
	q.LineItems = lineItems
	return q
}
