package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog record. Stock never goes below zero: decrements are
// applied with a conditional update at the repository.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    string             `json:"category" bson:"category"`
	Size        string             `json:"size,omitempty" bson:"size,omitempty"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Image       []string           `json:"image" bson:"image"`
	OldPrice    float64            `json:"old_price,omitempty" bson:"old_price,omitempty"`
	Stock       int                `json:"stock" bson:"stock"`
	Rating      float64            `json:"rating" bson:"rating"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
