package models

import "strings"

// GiftMessage is an optional gift note attached to an order or to a single
// line item. A value is either fully absent (nil) or fully populated, with
// missing fields defaulted to "".
type GiftMessage struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Phone string `json:"phone" bson:"phone"`
	Note  string `json:"note" bson:"note"`
}

// HasValues reports whether any of the four fields carries a non-blank value.
func (g *GiftMessage) HasValues() bool {
	if g == nil {
		return false
	}
	return strings.TrimSpace(g.From) != "" ||
		strings.TrimSpace(g.To) != "" ||
		strings.TrimSpace(g.Phone) != "" ||
		strings.TrimSpace(g.Note) != ""
}

// NormalizeGiftMessage collapses an all-blank gift message to nil and returns
// a fully populated copy otherwise.
func NormalizeGiftMessage(g *GiftMessage) *GiftMessage {
	if !g.HasValues() {
		return nil
	}
	return &GiftMessage{
		From:  g.From,
		To:    g.To,
		Phone: g.Phone,
		Note:  g.Note,
	}
}
