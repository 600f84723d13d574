package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bistronome/resto-ui-api/internal/data/database"
	"github.com/bistronome/resto-ui-api/internal/data/pgxutil"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// OrderRepo provides database operations for orders and their lines.
type OrderRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOrderRepo creates a new OrderRepo with real time provider.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewOrderRepoWithTimeProvider creates a new OrderRepo with a custom time provider (useful for tests).
func NewOrderRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	orderGetByIDQuery = `
		SELECT id, order_number, table_number, article_count, total_price, status, created_at, updated_at
		FROM orders
		WHERE id = $1`

	orderItemsQuery = `
		SELECT id, name, quantity, price, image, category
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC`

	orderInsertQuery = `
		INSERT INTO orders (id, order_number, table_number, article_count, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, order_number, table_number, article_count, total_price, status, created_at, updated_at`

	orderItemInsertQuery = `
		INSERT INTO order_items (id, order_id, position, name, quantity, price, image, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// Create inserts a new order with its lines in a single transaction. Stored
// totals are derived from the lines, never taken from the request.
func (r *OrderRepo) Create(
	ctx context.Context,
	req *model.CreateOrderRequest,
	lines []model.OrderItem,
) (*model.OrderDetails, error) {
	if req == nil {
		return nil, errors.New("create order request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New("order lines are required")
	}

	createdAt := r.timeProvider.Now().UTC()
	orderID := uuid.NewString()
	count, total := summarizeLines(lines)

	var out model.OrderDetails
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: nil,
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, orderInsertQuery,
				orderID,
				newOrderNumber(createdAt),
				strings.TrimSpace(req.TableNumber),
				count,
				total,
				model.OrderStatusPending,
				createdAt,
			)
			if err != nil {
				return err
			}
			out.Order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
			rows.Close()
			if err != nil {
				return err
			}
			out.Items, err = insertOrderItems(ctx, tx, orderID, lines)
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an order with its lines.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.OrderDetails, error) {
	var out model.OrderDetails
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, orderGetByIDQuery, id)
		if err != nil {
			return err
		}
		out.Order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		rows.Close()
		if err != nil {
			return err
		}

		itemRows, err := conn.Query(ctx, orderItemsQuery, id)
		if err != nil {
			return err
		}
		defer itemRows.Close()
		out.Items, err = pgx.CollectRows(itemRows, pgx.RowToStructByName[model.OrderItem])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return &out, nil
}

// List retrieves orders with filters, sorting, and pagination, plus the total
// row count under the same filters.
func (r *OrderRepo) List(ctx context.Context, opts model.OrdersListOptions) ([]*model.Order, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := max(opts.Offset, 0)

	conditions := buildOrderConditions(opts)
	sortCol, sortDir := validateOrderSort(opts.Sort, opts.Dir)

	listQuery, listArgs := database.BuildListQuery(database.NewListQueryOptions("orders",
		database.WithColumns(orderColumns()...),
		database.WithConditions(conditions...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))
	countQuery, countArgs := database.BuildListQuery(database.NewListQueryOptions("orders",
		database.WithConditions(conditions...),
		database.WithCountOnly(),
	))

	var rowsOut []model.Order
	var total int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, listQuery, listArgs...)
		if err != nil {
			return err
		}
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
		rows.Close()
		if err != nil {
			return err
		}
		return conn.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	res := make([]*model.Order, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates fields of an order. When lines are present they replace the
// order's lines and the stored totals are recomputed, all in one transaction.
func (r *OrderRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateOrderRequest,
	lines []model.OrderItem,
) (*model.OrderDetails, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.OrderDetails
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: nil,
		Fn: func(tx pgx.Tx) error {
			setClause, args := r.buildUpdateClause(req, lines)
			if setClause == "" {
				rows, err := tx.Query(ctx, orderGetByIDQuery, id)
				if err != nil {
					return err
				}
				out.Order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
				rows.Close()
				if err != nil {
					return err
				}
			} else {
				args = append(args, id)
				query := "UPDATE orders SET " + setClause + " WHERE id = $" + strconv.Itoa(
					len(args),
				) + " RETURNING id, order_number, table_number, article_count, total_price, status, created_at, updated_at"
				rows, err := tx.Query(ctx, query, args...)
				if err != nil {
					return err
				}
				out.Order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
				rows.Close()
				if err != nil {
					return err
				}
			}

			if len(lines) > 0 {
				if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
					return err
				}
				var err error
				out.Items, err = insertOrderItems(ctx, tx, id, lines)
				return err
			}

			itemRows, err := tx.Query(ctx, orderItemsQuery, id)
			if err != nil {
				return err
			}
			defer itemRows.Close()
			out.Items, err = pgx.CollectRows(itemRows, pgx.RowToStructByName[model.OrderItem])
			return err
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating an order.
func (r *OrderRepo) buildUpdateClause(
	req model.UpdateOrderRequest,
	lines []model.OrderItem,
) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.TableNumber != nil {
		setParts = append(setParts, fmt.Sprintf("table_number = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.TableNumber))
	}
	if len(lines) > 0 {
		count, total := summarizeLines(lines)
		setParts = append(setParts, fmt.Sprintf("article_count = $%d", nextIdx()))
		args = append(args, count)
		setParts = append(setParts, fmt.Sprintf("total_price = $%d", nextIdx()))
		args = append(args, total)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes an order by ID. Lines go with it via ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

// orderColumns returns the standard column list for order queries.
func orderColumns() []string {
	return []string{
		"id",
		"order_number",
		"table_number",
		"article_count",
		"total_price",
		"status",
		"created_at",
		"updated_at",
	}
}

// buildOrderConditions translates list options into query conditions.
func buildOrderConditions(opts model.OrdersListOptions) []database.Condition {
	conditions := make([]database.Condition, 0, 5)

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		conditions = append(conditions, database.WhereRawCond(
			"(order_number ILIKE $1 OR table_number ILIKE $1)", q,
		))
	}
	if opts.Status != nil {
		conditions = append(conditions, database.WhereCond("status", database.Equal, *opts.Status))
	}
	if opts.TableNumber != nil && strings.TrimSpace(*opts.TableNumber) != "" {
		conditions = append(conditions, database.WhereCond(
			"table_number", database.Equal, strings.TrimSpace(*opts.TableNumber),
		))
	}
	if opts.DateFrom != nil {
		conditions = append(conditions, database.WhereCond(
			"created_at", database.GreaterThanOrEqual, opts.DateFrom.UTC(),
		))
	}
	if opts.DateTo != nil {
		conditions = append(conditions, database.WhereCond(
			"created_at", database.LessThanOrEqual, opts.DateTo.UTC(),
		))
	}
	return conditions
}

// validateOrderSort validates and returns safe sort column and direction.
func validateOrderSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"created_at":   "created_at",
			"order_number": "order_number",
			"total_price":  "total_price",
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

// insertOrderItems inserts the lines for an order and returns them with their
// generated IDs, in position order.
func insertOrderItems(
	ctx context.Context,
	tx pgx.Tx,
	orderID string,
	lines []model.OrderItem,
) ([]model.OrderItem, error) {
	out := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		line.ID = uuid.NewString()
		if _, err := tx.Exec(ctx, orderItemInsertQuery,
			line.ID,
			orderID,
			i,
			line.Name,
			line.Quantity,
			line.Price,
			line.Image,
			line.Category,
		); err != nil {
			return nil, err
		}
		out[i] = line
	}
	return out, nil
}

// summarizeLines derives the stored article count and total price from lines.
func summarizeLines(lines []model.OrderItem) (int, float64) {
	count := 0
	total := 0.0
	for _, line := range lines {
		count += line.Quantity
		total += float64(line.Quantity) * line.Price
	}
	return count, total
}

// newOrderNumber generates a human-readable order number, unique enough for a
// single restaurant. Format: CMD-20060102-8HEXCHAR.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "CMD-" + now.Format("20060102") + "-" + suffix
}
