package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus(" Pending ")
	require.True(t, ok)
	assert.Equal(t, OrderStatusPending, status)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	valid := CreateOrderRequest{
		TableNumber: "12",
		Items:       []OrderLineInput{{ArticleID: "a1", Quantity: 2}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  CreateOrderRequest
	}{
		{name: "missing table", req: CreateOrderRequest{Items: valid.Items}},
		{name: "no items", req: CreateOrderRequest{TableNumber: "12"}},
		{name: "blank article id", req: CreateOrderRequest{
			TableNumber: "12",
			Items:       []OrderLineInput{{ArticleID: " ", Quantity: 1}},
		}},
		{name: "zero quantity", req: CreateOrderRequest{
			TableNumber: "12",
			Items:       []OrderLineInput{{ArticleID: "a1", Quantity: 0}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestUpdateOrderRequest_Validate(t *testing.T) {
	var empty UpdateOrderRequest
	assert.False(t, empty.HasUpdates())
	assert.NoError(t, empty.Validate())

	bad := OrderStatus("shipped")
	assert.Error(t, (&UpdateOrderRequest{Status: &bad}).Validate())

	blank := "  "
	assert.Error(t, (&UpdateOrderRequest{TableNumber: &blank}).Validate())

	served := OrderStatusServed
	req := UpdateOrderRequest{Status: &served}
	assert.True(t, req.HasUpdates())
	assert.NoError(t, req.Validate())
}
