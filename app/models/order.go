package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCanceled  OrderStatus = "canceled"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// transitions lists the statuses reachable from each status.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusShipped, StatusCanceled},
	StatusShipped: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool { return len(transitions[s]) == 0 }

// OrderItem is a line item snapshot; Price is the unit price at order time.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity"  json:"quantity"`
	Size      Size               `bson:"size"      json:"size"`
	Price     float64            `bson:"price"     json:"price"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"         json:"_id"`
	UserID          primitive.ObjectID `bson:"userId"                json:"userId"`
	Items           []OrderItem        `bson:"products"              json:"products"`
	Status          OrderStatus        `bson:"status"                json:"status"`
	Phone           string             `bson:"phone"                 json:"phone"`
	ShippingAddress string             `bson:"shippingAddress"       json:"shippingAddress"`
	ShippedAt       *time.Time         `bson:"shippedAt,omitempty"   json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	Notes           string             `bson:"notes,omitempty"       json:"notes,omitempty"`
	TotalAmount     float64            `bson:"totalAmount"           json:"totalAmount"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod"         json:"paymentMethod"`
	ShippingCost    float64            `bson:"shippingCost"          json:"shippingCost"`
	CreatedAt       time.Time          `bson:"createdAt"             json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"             json:"updatedAt"`
	Version         int64              `bson:"version"               json:"-"`
}
