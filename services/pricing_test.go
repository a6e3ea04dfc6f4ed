package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilal-alaabadi/arkan-b/models"
	"github.com/bilal-alaabadi/arkan-b/services"
)

var testPairCategories = []string{"shayla-french", "shayla-plain"}

func newTestPricer() *services.Pricer {
	return services.NewPricer(testPairCategories)
}

func TestShippingFeeTable(t *testing.T) {
	pricer := newTestPricer()

	tests := []struct {
		name string
		sel  services.ShippingSelection
		want float64
	}{
		{"gulf UAE", services.ShippingSelection{Country: services.CountryGulf, GulfCountry: services.GulfCountryUAE}, 4},
		{"gulf other", services.ShippingSelection{Country: services.CountryGulf, GulfCountry: "KSA"}, 5},
		{"domestic office", services.ShippingSelection{Country: "oman", Method: services.ShippingMethodOffice}, 1},
		{"domestic home", services.ShippingSelection{Country: "oman", Method: services.ShippingMethodHome}, 2},
		{"domestic unspecified method", services.ShippingSelection{Country: "oman"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricer.ShippingFee(tt.sel))
		})
	}
}

func TestPairDiscountFiveUnits(t *testing.T) {
	pricer := newTestPricer()

	quote := pricer.Price([]models.CartItem{
		{ProductID: "p1", Name: "Shayla", Price: 10, Quantity: 5, Category: "shayla-french"},
	}, services.ShippingSelection{Method: services.ShippingMethodHome}, false)

	// 5 units form 2 complete pairs.
	assert.Equal(t, 2.0, quote.PairDiscount)
	assert.Equal(t, 48.0, quote.Subtotal)
}

func TestPairDiscountIneligibleCategory(t *testing.T) {
	pricer := newTestPricer()

	quote := pricer.Price([]models.CartItem{
		{ProductID: "p1", Name: "Henna", Price: 10, Quantity: 4, Category: "henna-powder"},
	}, services.ShippingSelection{}, false)

	assert.Equal(t, 0.0, quote.PairDiscount)
	assert.Equal(t, 40.0, quote.Subtotal)
}

func TestGrandTotalIdentity(t *testing.T) {
	pricer := newTestPricer()

	quote := pricer.Price([]models.CartItem{
		{ProductID: "p1", Price: 7.5, Quantity: 3, Category: "shayla-plain"},
		{ProductID: "p2", Price: 12, Quantity: 1, Category: "henna-powder"},
	}, services.ShippingSelection{Country: services.CountryGulf, GulfCountry: "Qatar"}, false)

	assert.Equal(t, quote.Subtotal+quote.ShippingFee, quote.GrandTotal)
	assert.GreaterOrEqual(t, quote.Subtotal, 0.0)
}

func TestSubtotalFlooredAtZero(t *testing.T) {
	pricer := newTestPricer()

	// Discount (2) equals the items subtotal (2); the floor keeps it at zero.
	quote := pricer.Price([]models.CartItem{
		{ProductID: "p1", Price: 0.5, Quantity: 4, Category: "shayla-french"},
	}, services.ShippingSelection{Method: services.ShippingMethodOffice}, false)

	assert.Equal(t, 0.0, quote.Subtotal)
	assert.Equal(t, 1.0, quote.GrandTotal)
}

func TestDepositModeChargesFixedAmount(t *testing.T) {
	pricer := newTestPricer()

	carts := [][]models.CartItem{
		{{ProductID: "p1", Price: 5, Quantity: 1}},
		{{ProductID: "p1", Price: 100, Quantity: 10}, {ProductID: "p2", Price: 30, Quantity: 2}},
	}

	for _, cart := range carts {
		quote := pricer.Price(cart, services.ShippingSelection{Method: services.ShippingMethodHome}, true)
		assert.Equal(t, services.DepositAmount, quote.AmountToCharge)
		assert.Len(t, quote.LineItems, 1)
		assert.Equal(t, int64(10000), quote.LineItems[0].UnitAmount)
		assert.Equal(t, quote.RemainingAmount, maxFloat(0, quote.GrandTotal-services.DepositAmount))
	}
}

func TestToMinorUnits(t *testing.T) {
	// Below the gateway minimum: floored to 100 baisa, not 50.
	assert.Equal(t, int64(100), services.ToMinorUnits(0.05))
	assert.Equal(t, int64(1234), services.ToMinorUnits(1.234))
	assert.Equal(t, int64(9500), services.ToMinorUnits(9.5))
	assert.Equal(t, int64(2000), services.ToMinorUnits(2))
}

func TestUnitPriceFloorInLineItems(t *testing.T) {
	pricer := newTestPricer()

	// Per-unit discount (0.5) exceeds the unit price; the 0.1 floor applies.
	quote := pricer.Price([]models.CartItem{
		{ProductID: "p1", Name: "Shayla", Price: 0.1, Quantity: 2, Category: "shayla-plain"},
	}, services.ShippingSelection{Method: services.ShippingMethodHome}, false)

	assert.Equal(t, int64(100), quote.LineItems[0].UnitAmount)
}

func TestEndToEndScenario(t *testing.T) {
	pricer := newTestPricer()

	quote := pricer.Price([]models.CartItem{
		{ProductID: "p1", Name: "Shayla", Price: 10, Quantity: 2, Category: "shayla-french"},
	}, services.ShippingSelection{Country: "oman", Method: services.ShippingMethodHome}, false)

	assert.Equal(t, 1.0, quote.PairDiscount)
	assert.Equal(t, 19.0, quote.Subtotal)
	assert.Equal(t, 2.0, quote.ShippingFee)
	assert.Equal(t, 21.0, quote.GrandTotal)
	assert.Equal(t, 21.0, quote.AmountToCharge)

	if assert.Len(t, quote.LineItems, 2) {
		assert.Equal(t, int64(9500), quote.LineItems[0].UnitAmount)
		assert.Equal(t, 2, quote.LineItems[0].Quantity)
		assert.Equal(t, int64(2000), quote.LineItems[1].UnitAmount)
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
