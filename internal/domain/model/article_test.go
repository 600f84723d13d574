package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArticleRequest_Validate(t *testing.T) {
	valid := CreateArticleRequest{Name: "Salade niçoise", Price: 11.5, Category: "entrées"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  CreateArticleRequest
	}{
		{name: "blank name", req: CreateArticleRequest{Name: " ", Price: 5, Category: "plats"}},
		{name: "name too long", req: CreateArticleRequest{
			Name: strings.Repeat("x", 256), Price: 5, Category: "plats",
		}},
		{name: "negative price", req: CreateArticleRequest{Name: "Café", Price: -1, Category: "boissons"}},
		{name: "missing category", req: CreateArticleRequest{Name: "Café", Price: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestUpdateArticleRequest_Validate(t *testing.T) {
	var empty UpdateArticleRequest
	assert.False(t, empty.HasUpdates())
	assert.NoError(t, empty.Validate())

	neg := -0.5
	assert.Error(t, (&UpdateArticleRequest{Price: &neg}).Validate())

	blank := ""
	assert.Error(t, (&UpdateArticleRequest{Name: &blank}).Validate())

	inStock := false
	req := UpdateArticleRequest{InStock: &inStock}
	assert.True(t, req.HasUpdates())
	assert.NoError(t, req.Validate())
}
