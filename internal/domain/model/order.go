//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus tracks an order through its service lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusValidated OrderStatus = "validated"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the order status is supported.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusValidated, OrderStatusServed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus normalizes a status string and reports whether it is supported.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Order represents a table order. ArticleCount and TotalPrice are derived
// from the order's lines at write time and stored denormalized for listing.
type Order struct {
	ID           string      `json:"id"            db:"id"`
	OrderNumber  string      `json:"order_number"  db:"order_number"`
	TableNumber  string      `json:"table_number"  db:"table_number"`
	ArticleCount int         `json:"article_count" db:"article_count"`
	TotalPrice   float64     `json:"total_price"   db:"total_price"`
	Status       OrderStatus `json:"status"        db:"status"`
	CreatedAt    time.Time   `json:"created_at"    db:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// OrderItem is one line of an order, denormalized with the article fields the
// kitchen display needs.
type OrderItem struct {
	ID       string  `json:"id"       db:"id"`
	Name     string  `json:"name"     db:"name"`
	Quantity int     `json:"quantity" db:"quantity"`
	Price    float64 `json:"price"    db:"price"`
	Image    string  `json:"image"    db:"image"`
	Category string  `json:"category" db:"category"`
}

// OrderDetails is an order together with its lines.
type OrderDetails struct {
	Order
	Items []OrderItem `json:"items"`
}

// OrderLineInput selects an article and quantity when creating or updating an order.
type OrderLineInput struct {
	ArticleID string `json:"article_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest represents parameters to create an Order.
type CreateOrderRequest struct {
	TableNumber string           `json:"table_number"`
	Items       []OrderLineInput `json:"items"`
}

// Validate validates CreateOrderRequest.
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.TableNumber) == "" {
		return errors.New("table_number is required")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, it := range r.Items {
		if strings.TrimSpace(it.ArticleID) == "" {
			return errors.New("item article_id is required")
		}
		if it.Quantity <= 0 {
			return errors.New("item quantity must be > 0")
		}
	}
	return nil
}

// UpdateOrderRequest represents parameters to update an Order.
// Items, when present, replace the order's lines entirely.
type UpdateOrderRequest struct {
	Status      *OrderStatus     `json:"status,omitempty"`
	TableNumber *string          `json:"table_number,omitempty"`
	Items       []OrderLineInput `json:"items,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateOrderRequest.
func (r *UpdateOrderRequest) HasUpdates() bool {
	return r.Status != nil || r.TableNumber != nil || len(r.Items) > 0
}

// Validate validates UpdateOrderRequest.
func (r *UpdateOrderRequest) Validate() error {
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	if r.TableNumber != nil && strings.TrimSpace(*r.TableNumber) == "" {
		return errors.New("table_number cannot be empty")
	}
	for _, it := range r.Items {
		if strings.TrimSpace(it.ArticleID) == "" {
			return errors.New("item article_id is required")
		}
		if it.Quantity <= 0 {
			return errors.New("item quantity must be > 0")
		}
	}
	return nil
}

// OrdersListOptions controls paging and filtering for listing orders.
// Notes:
// - Q matches order_number and table_number via ILIKE substring.
// - Status and TableNumber match exactly; DateFrom/DateTo bound created_at.
type OrdersListOptions struct {
	Limit       int
	Offset      int
	Q           *string
	Status      *OrderStatus
	TableNumber *string
	DateFrom    *time.Time
	DateTo      *time.Time
	Sort        string // allowed: "created_at", "order_number", "total_price"
	Dir         string // allowed: "asc", "desc"
}
