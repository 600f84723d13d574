//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxArticleNameLen = 255

// Article represents a menu item.
type Article struct {
	ID          string     `json:"id"          db:"id"`
	Name        string     `json:"name"        db:"name"`
	Price       float64    `json:"price"       db:"price"`
	Image       string     `json:"image"       db:"image"`
	Category    string     `json:"category"    db:"category"`
	Description *string    `json:"description,omitempty" db:"description"`
	InStock     bool       `json:"in_stock"    db:"in_stock"`
	CreatedAt   time.Time  `json:"created_at"  db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// CreateArticleRequest represents parameters to create an Article.
type CreateArticleRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// Validate validates CreateArticleRequest.
func (r *CreateArticleRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxArticleNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	return nil
}

// UpdateArticleRequest represents parameters to update an Article.
type UpdateArticleRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateArticleRequest.
func (r *UpdateArticleRequest) HasUpdates() bool {
	return r.Name != nil || r.Price != nil || r.Category != nil ||
		r.Description != nil || r.Image != nil || r.InStock != nil
}

// Validate validates UpdateArticleRequest.
func (r *UpdateArticleRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxArticleNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.Price != nil && *r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		return errors.New("category cannot be empty")
	}
	return nil
}

// ArticlesListOptions controls paging and filtering for listing articles.
// Q matches name via ILIKE substring; Category matches exactly.
type ArticlesListOptions struct {
	Limit    int
	Offset   int
	Q        *string
	Category *string
	PriceMin *float64
	PriceMax *float64
	InStock  *bool
	Sort     string // allowed: "created_at", "name", "price"
	Dir      string // allowed: "asc", "desc"
}
