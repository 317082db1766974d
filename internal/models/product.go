package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPhotoSize is the largest product photo accepted, in bytes.
const MaxPhotoSize = 1000000

type Photo struct {
	Data        []byte `bson:"data"`
	ContentType string `bson:"contentType"`
}

// Product is a catalog item. CategoryID is what gets persisted; Category is
// filled in by handlers when a response needs the populated reference.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	CategoryID  primitive.ObjectID `bson:"category" json:"-"`
	Category    *Category          `bson:"-" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Photo       *Photo             `bson:"photo,omitempty" json:"-"`
	Shipping    bool               `bson:"shipping" json:"shipping"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductQuery narrows a product listing. Zero values mean "no constraint";
// results are always newest first.
type ProductQuery struct {
	CategoryIDs []primitive.ObjectID
	MinPrice    *float64
	MaxPrice    *float64
	Keyword     string
	ExcludeID   primitive.ObjectID
	Skip        int64
	Limit       int64
}
