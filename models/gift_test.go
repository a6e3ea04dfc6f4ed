package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilal-alaabadi/arkan-b/models"
)

func TestNormalizeGiftMessage_AllEmpty(t *testing.T) {
	assert.Nil(t, models.NormalizeGiftMessage(nil))
	assert.Nil(t, models.NormalizeGiftMessage(&models.GiftMessage{}))
	assert.Nil(t, models.NormalizeGiftMessage(&models.GiftMessage{From: "  ", To: "\t", Phone: " ", Note: ""}))
}

func TestNormalizeGiftMessage_AnyFieldSet(t *testing.T) {
	got := models.NormalizeGiftMessage(&models.GiftMessage{To: "Aisha"})
	if assert.NotNil(t, got) {
		assert.Equal(t, "", got.From)
		assert.Equal(t, "Aisha", got.To)
		assert.Equal(t, "", got.Phone)
		assert.Equal(t, "", got.Note)
	}
}

func TestGiftMessageHasValues(t *testing.T) {
	var nilGift *models.GiftMessage
	assert.False(t, nilGift.HasValues())
	assert.False(t, (&models.GiftMessage{From: "   "}).HasValues())
	assert.True(t, (&models.GiftMessage{Note: "congrats"}).HasValues())
}
