// Package core defines the repository interfaces consumed by the service layer.
package core

import (
	"context"

	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// OrderRepository defines data operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, req *model.CreateOrderRequest, lines []model.OrderItem) (*model.OrderDetails, error)
	GetByID(ctx context.Context, id string) (*model.OrderDetails, error)
	List(ctx context.Context, opts model.OrdersListOptions) ([]*model.Order, int, error)
	Update(ctx context.Context, id string, req model.UpdateOrderRequest, lines []model.OrderItem) (*model.OrderDetails, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ArticleRepository defines data operations for menu articles.
type ArticleRepository interface {
	Create(ctx context.Context, req *model.CreateArticleRequest) (*model.Article, error)
	GetByID(ctx context.Context, id string) (*model.Article, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Article, error)
	List(ctx context.Context, opts model.ArticlesListOptions) ([]*model.Article, int, error)
	Update(ctx context.Context, id string, req model.UpdateArticleRequest) (*model.Article, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserRepository defines data operations for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, int, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest, passwordHash *string) (*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}
