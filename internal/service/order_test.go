package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistronome/resto-ui-api/internal/domain/model"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// fakeOrderRepo records the lines handed to it and echoes a minimal result.
type fakeOrderRepo struct {
	createdLines []model.OrderItem
	updatedLines []model.OrderItem
	listOpts     model.OrdersListOptions
}

func (f *fakeOrderRepo) Create(_ context.Context, req *model.CreateOrderRequest, lines []model.OrderItem) (*model.OrderDetails, error) {
	f.createdLines = lines
	total := 0.0
	count := 0
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
		count += l.Quantity
	}
	return &model.OrderDetails{
		Order: model.Order{
			ID:           "o1",
			TableNumber:  req.TableNumber,
			ArticleCount: count,
			TotalPrice:   total,
			Status:       model.OrderStatusPending,
		},
		Items: lines,
	}, nil
}

func (f *fakeOrderRepo) GetByID(context.Context, string) (*model.OrderDetails, error) {
	return &model.OrderDetails{Order: model.Order{ID: "o1"}}, nil
}

func (f *fakeOrderRepo) List(_ context.Context, opts model.OrdersListOptions) ([]*model.Order, int, error) {
	f.listOpts = opts
	return nil, 0, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, id string, _ model.UpdateOrderRequest, lines []model.OrderItem) (*model.OrderDetails, error) {
	f.updatedLines = lines
	return &model.OrderDetails{Order: model.Order{ID: id}, Items: lines}, nil
}

func (f *fakeOrderRepo) Delete(context.Context, string) (bool, error) { return true, nil }

// fakeArticleCatalog serves GetByIDs from a fixed article set.
type fakeArticleCatalog struct {
	articles map[string]*model.Article
}

func (f *fakeArticleCatalog) GetByIDs(_ context.Context, ids []string) ([]*model.Article, error) {
	out := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := f.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticleCatalog) Create(context.Context, *model.CreateArticleRequest) (*model.Article, error) {
	return nil, nil
}
func (f *fakeArticleCatalog) GetByID(context.Context, string) (*model.Article, error) {
	return nil, nil
}
func (f *fakeArticleCatalog) List(context.Context, model.ArticlesListOptions) ([]*model.Article, int, error) {
	return nil, 0, nil
}
func (f *fakeArticleCatalog) Update(context.Context, string, model.UpdateArticleRequest) (*model.Article, error) {
	return nil, nil
}
func (f *fakeArticleCatalog) Delete(context.Context, string) (bool, error) { return false, nil }

func newOrderFixture() (*service.OrderService, *fakeOrderRepo) {
	repo := &fakeOrderRepo{}
	catalog := &fakeArticleCatalog{articles: map[string]*model.Article{
		"a1": {ID: "a1", Name: "Poulet braisé", Price: 12.5, Category: "plats", InStock: true},
		"a2": {ID: "a2", Name: "Jus de bissap", Price: 3.0, Category: "boissons", InStock: true},
		"a3": {ID: "a3", Name: "Tarte du jour", Price: 6.0, Category: "desserts", InStock: false},
	}}
	return service.NewOrderService(service.OrderServiceOptions{Orders: repo, Articles: catalog}), repo
}

func TestOrderService_CreatePricesLines(t *testing.T) {
	svc, repo := newOrderFixture()

	details, err := svc.Create(context.Background(), &model.CreateOrderRequest{
		TableNumber: "7",
		Items: []model.OrderLineInput{
			{ArticleID: "a1", Quantity: 2},
			{ArticleID: "a2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.createdLines, 2)
	assert.Equal(t, "Poulet braisé", repo.createdLines[0].Name)
	assert.Equal(t, 12.5, repo.createdLines[0].Price)
	assert.Equal(t, 2, repo.createdLines[0].Quantity)
	assert.Equal(t, "boissons", repo.createdLines[1].Category)

	assert.Equal(t, 3, details.ArticleCount)
	assert.InDelta(t, 28.0, details.TotalPrice, 1e-9)
}

func TestOrderService_CreateRejectsUnknownArticle(t *testing.T) {
	svc, _ := newOrderFixture()

	_, err := svc.Create(context.Background(), &model.CreateOrderRequest{
		TableNumber: "7",
		Items:       []model.OrderLineInput{{ArticleID: "nope", Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrUnknownArticle)
}

func TestOrderService_CreateRejectsOutOfStock(t *testing.T) {
	svc, _ := newOrderFixture()

	_, err := svc.Create(context.Background(), &model.CreateOrderRequest{
		TableNumber: "7",
		Items:       []model.OrderLineInput{{ArticleID: "a3", Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrArticleOutOfStock)
	assert.Contains(t, err.Error(), "Tarte du jour")
}

func TestOrderService_CreateValidates(t *testing.T) {
	svc, _ := newOrderFixture()

	_, err := svc.Create(context.Background(), nil)
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), &model.CreateOrderRequest{TableNumber: "7"})
	assert.Error(t, err)
}

func TestOrderService_ListDefaults(t *testing.T) {
	svc, repo := newOrderFixture()

	_, _, err := svc.List(context.Background(), model.OrdersListOptions{Limit: 0, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.listOpts.Limit)
	assert.Equal(t, 0, repo.listOpts.Offset)
}

func TestOrderService_UpdateReplacesLines(t *testing.T) {
	svc, repo := newOrderFixture()

	_, err := svc.Update(context.Background(), "o1", model.UpdateOrderRequest{
		Items: []model.OrderLineInput{{ArticleID: "a2", Quantity: 4}},
	})
	require.NoError(t, err)
	require.Len(t, repo.updatedLines, 1)
	assert.Equal(t, "Jus de bissap", repo.updatedLines[0].Name)
	assert.Equal(t, 4, repo.updatedLines[0].Quantity)
}

func TestOrderService_UpdateWithoutChangesReads(t *testing.T) {
	svc, repo := newOrderFixture()

	details, err := svc.Update(context.Background(), "o1", model.UpdateOrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, "o1", details.ID)
	assert.Nil(t, repo.updatedLines)
}
