package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderShipped   OrderStatus = "shipped"
)

// OrderStatuses lists the statuses an order can be moved to.
var OrderStatuses = []OrderStatus{OrderPending, OrderCompleted, OrderShipped}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	Identity
	UserID    string      `json:"userId" schema:"-"`
	Products  []OrderItem `json:"products" schema:"-"`
	Total     float64     `json:"total" schema:"-"`
	Status    OrderStatus `json:"status" schema:"status" validate:"oneof=pending completed shipped"`
	CreatedAt time.Time   `json:"createdAt" schema:"-"`

	// Resolved after each fetch for display only.
	UserName     string   `json:"-" schema:"-"`
	ProductNames []string `json:"-" schema:"-"`
}

// StatusUpdate is the body sent when an order changes status.
type StatusUpdate struct {
	Status OrderStatus `json:"status"`
}
