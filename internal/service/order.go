package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bistronome/resto-ui-api/internal/core"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// ErrUnknownArticle is returned when an order references an article that does
// not exist.
var ErrUnknownArticle = errors.New("order references unknown article")

// ErrArticleOutOfStock is returned when an order references an article that
// is not in stock.
var ErrArticleOutOfStock = errors.New("article is out of stock")

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Orders   core.OrderRepository
	Articles core.ArticleRepository
}

// OrderService orchestrates order CRUD. Line prices are resolved from the
// article catalog at write time, so totals are always computed server-side.
type OrderService struct {
	orders   core.OrderRepository
	articles core.ArticleRepository
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) *OrderService {
	return &OrderService{orders: opts.Orders, articles: opts.Articles}
}

// Create validates the request, prices its lines against the catalog, and
// persists the order.
func (s *OrderService) Create(ctx context.Context, req *model.CreateOrderRequest) (*model.OrderDetails, error) {
	if req == nil {
		return nil, errors.New("create order request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lines, err := s.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	return s.orders.Create(ctx, req, lines)
}

// GetByID retrieves an order with its lines.
func (s *OrderService) GetByID(ctx context.Context, id string) (*model.OrderDetails, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns a page of orders plus the total row count for pagination.
func (s *OrderService) List(ctx context.Context, opts model.OrdersListOptions) ([]*model.Order, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.orders.List(ctx, opts)
}

// Update applies the request. When items are present they replace the order's
// lines entirely and the stored totals are recomputed.
func (s *OrderService) Update(ctx context.Context, id string, req model.UpdateOrderRequest) (*model.OrderDetails, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.HasUpdates() {
		return s.orders.GetByID(ctx, id)
	}

	var lines []model.OrderItem
	if len(req.Items) > 0 {
		var err error
		lines, err = s.priceLines(ctx, req.Items)
		if err != nil {
			return nil, err
		}
	}
	return s.orders.Update(ctx, id, req, lines)
}

// Delete removes an order. Returns false when the order does not exist.
func (s *OrderService) Delete(ctx context.Context, id string) (bool, error) {
	return s.orders.Delete(ctx, id)
}

// priceLines resolves article references into denormalized order lines.
func (s *OrderService) priceLines(ctx context.Context, items []model.OrderLineInput) ([]model.OrderItem, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ArticleID)
	}
	articles, err := s.articles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve order articles: %w", err)
	}
	byID := make(map[string]*model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	lines := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		article, ok := byID[it.ArticleID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownArticle, it.ArticleID)
		}
		if !article.InStock {
			return nil, fmt.Errorf("%w: %s", ErrArticleOutOfStock, article.Name)
		}
		lines = append(lines, model.OrderItem{
			Name:     article.Name,
			Quantity: it.Quantity,
			Price:    article.Price,
			Image:    article.Image,
			Category: article.Category,
		})
	}
	return lines, nil
}
