package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bistronome/resto-ui-api/internal/data/database"
	"github.com/bistronome/resto-ui-api/internal/data/pgxutil"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// ArticleRepo provides database operations for menu articles.
type ArticleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewArticleRepo creates a new ArticleRepo with real time provider.
func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewArticleRepoWithTimeProvider creates a new ArticleRepo with a custom time provider (useful for tests).
func NewArticleRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ArticleRepo {
	return &ArticleRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	articleGetByIDQuery = `
		SELECT id, name, price, image, category, description, in_stock, created_at, updated_at
		FROM articles
		WHERE id = $1`

	articleInsertQuery = `
		INSERT INTO articles (id, name, price, image, category, description, in_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		RETURNING id, name, price, image, category, description, in_stock, created_at, updated_at`
)

// Create inserts a new article. New articles start in stock.
func (r *ArticleRepo) Create(ctx context.Context, req *model.CreateArticleRequest) (*model.Article, error) {
	if req == nil {
		return nil, errors.New("create article request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Article
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, articleInsertQuery,
			uuid.NewString(),
			strings.TrimSpace(req.Name),
			req.Price,
			strings.TrimSpace(req.Image),
			strings.TrimSpace(req.Category),
			req.Description,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an article by ID.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*model.Article, error) {
	var out model.Article
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, articleGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}
	return &out, nil
}

// GetByIDs retrieves the articles matching the given IDs. Missing IDs are
// simply absent from the result; callers decide whether that is an error.
func (r *ArticleRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("articles",
		database.WithColumns(articleColumns()...),
		database.WithCondition(database.WhereCond("id", database.In, ids)),
	))

	var rowsOut []model.Article
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Article])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to get articles by IDs: %w", err)
	}

	res := make([]*model.Article, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// List retrieves articles with filters, sorting, and pagination, plus the
// total row count under the same filters.
func (r *ArticleRepo) List(ctx context.Context, opts model.ArticlesListOptions) ([]*model.Article, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := max(opts.Offset, 0)

	conditions := buildArticleConditions(opts)
	sortCol, sortDir := validateArticleSort(opts.Sort, opts.Dir)

	listQuery, listArgs := database.BuildListQuery(database.NewListQueryOptions("articles",
		database.WithColumns(articleColumns()...),
		database.WithConditions(conditions...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))
	countQuery, countArgs := database.BuildListQuery(database.NewListQueryOptions("articles",
		database.WithConditions(conditions...),
		database.WithCountOnly(),
	))

	var rowsOut []model.Article
	var total int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, listQuery, listArgs...)
		if err != nil {
			return err
		}
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Article])
		rows.Close()
		if err != nil {
			return err
		}
		return conn.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}

	res := make([]*model.Article, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates fields of an article.
func (r *ArticleRepo) Update(ctx context.Context, id string, req model.UpdateArticleRequest) (*model.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Article
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, articleGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
			return e
		}
		args = append(args, id)
		query := "UPDATE articles SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING id, name, price, image, category, description, in_stock, created_at, updated_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating an article.
func (r *ArticleRepo) buildUpdateClause(req model.UpdateArticleRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Price != nil {
		setParts = append(setParts, fmt.Sprintf("price = $%d", nextIdx()))
		args = append(args, *req.Price)
	}
	if req.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Category))
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			setParts = append(setParts, "description = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
			args = append(args, *req.Description)
		}
	}
	if req.Image != nil {
		setParts = append(setParts, fmt.Sprintf("image = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Image))
	}
	if req.InStock != nil {
		setParts = append(setParts, fmt.Sprintf("in_stock = $%d", nextIdx()))
		args = append(args, *req.InStock)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes an article by ID. Existing order lines keep their
// denormalized copy of the article fields.
func (r *ArticleRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete article: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

// articleColumns returns the standard column list for article queries.
func articleColumns() []string {
	return []string{
		"id",
		"name",
		"price",
		"image",
		"category",
		"description",
		"in_stock",
		"created_at",
		"updated_at",
	}
}

// buildArticleConditions translates list options into query conditions.
func buildArticleConditions(opts model.ArticlesListOptions) []database.Condition {
	conditions := make([]database.Condition, 0, 5)

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		conditions = append(conditions, database.WhereCond(
			"name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%",
		))
	}
	if opts.Category != nil && strings.TrimSpace(*opts.Category) != "" {
		conditions = append(conditions, database.WhereCond(
			"category", database.Equal, strings.TrimSpace(*opts.Category),
		))
	}
	if opts.PriceMin != nil {
		conditions = append(conditions, database.WhereCond(
			"price", database.GreaterThanOrEqual, *opts.PriceMin,
		))
	}
	if opts.PriceMax != nil {
		conditions = append(conditions, database.WhereCond(
			"price", database.LessThanOrEqual, *opts.PriceMax,
		))
	}
	if opts.InStock != nil {
		conditions = append(conditions, database.WhereCond("in_stock", database.Equal, *opts.InStock))
	}
	return conditions
}

// validateArticleSort validates and returns safe sort column and direction.
func validateArticleSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"created_at": "created_at",
			"name":       "name",
			"price":      "price",
		}
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}

func (r *ArticleRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrArticleNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrArticleNameExists
	}
	return err
}
