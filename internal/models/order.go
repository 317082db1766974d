package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusNotProcess = "Not Process"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

var OrderStatuses = []string{
	StatusNotProcess,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Payment is the gateway result recorded on an order.
type Payment struct {
	TransactionID string  `bson:"transactionId" json:"transactionId"`
	Status        string  `bson:"status" json:"status"`
	Amount        float64 `bson:"amount" json:"amount"`
	Success       bool    `bson:"success" json:"success"`
}

type Order struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	ProductIDs []primitive.ObjectID `bson:"products" json:"-"`
	Products   []Product            `bson:"-" json:"products"`
	Payment    Payment              `bson:"payment" json:"payment"`
	BuyerID    primitive.ObjectID   `bson:"buyer" json:"-"`
	Buyer      *Buyer               `bson:"-" json:"buyer"`
	Status     string               `bson:"status" json:"status"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Buyer is the populated view of an order's buyer.
type Buyer struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}
