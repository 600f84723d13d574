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

// UserRepo provides database operations for staff accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	userGetByIDQuery = `
		SELECT id, nom, prenoms, email, telephone, age, role, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	userGetByEmailQuery = `
		SELECT id, nom, prenoms, email, telephone, age, role, password_hash, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)`

	userInsertQuery = `
		INSERT INTO users (id, nom, prenoms, email, telephone, age, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, nom, prenoms, email, telephone, age, role, password_hash, created_at, updated_at`
)

// Create inserts a new staff account. The password hash is computed upstream;
// this layer never sees plaintext.
func (r *UserRepo) Create(
	ctx context.Context,
	req *model.CreateUserRequest,
	passwordHash string,
) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userInsertQuery,
			uuid.NewString(),
			strings.TrimSpace(req.Nom),
			strings.TrimSpace(req.Prenoms),
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.Telephone,
			req.Age,
			req.Role,
			passwordHash,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a staff account by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByEmail retrieves a staff account by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByEmailQuery, "failed to get user by email", strings.TrimSpace(email))
}

// List retrieves staff accounts with filters, sorting, and pagination, plus
// the total row count under the same filters.
func (r *UserRepo) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := max(opts.Offset, 0)

	conditions := buildUserConditions(opts)
	sortCol, sortDir := validateUserSort(opts.Sort, opts.Dir)

	listQuery, listArgs := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithColumns(userColumns()...),
		database.WithConditions(conditions...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))
	countQuery, countArgs := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithConditions(conditions...),
		database.WithCountOnly(),
	))

	var rowsOut []model.User
	var total int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, listQuery, listArgs...)
		if err != nil {
			return err
		}
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		rows.Close()
		if err != nil {
			return err
		}
		return conn.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates fields of a staff account. A non-nil passwordHash rotates
// the stored credential.
func (r *UserRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateUserRequest,
	passwordHash *string,
) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req, passwordHash)
		if setClause == "" {
			rows, err := conn.Query(ctx, userGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
			return e
		}
		args = append(args, id)
		query := "UPDATE users SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING id, nom, prenoms, email, telephone, age, role, password_hash, created_at, updated_at"
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a staff account.
func (r *UserRepo) buildUpdateClause(req model.UpdateUserRequest, passwordHash *string) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Nom != nil {
		setParts = append(setParts, fmt.Sprintf("nom = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Nom))
	}
	if req.Prenoms != nil {
		setParts = append(setParts, fmt.Sprintf("prenoms = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Prenoms))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Telephone != nil {
		if strings.TrimSpace(*req.Telephone) == "" {
			setParts = append(setParts, "telephone = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("telephone = $%d", nextIdx()))
			args = append(args, strings.TrimSpace(*req.Telephone))
		}
	}
	if req.Age != nil {
		setParts = append(setParts, fmt.Sprintf("age = $%d", nextIdx()))
		args = append(args, *req.Age)
	}
	if req.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", nextIdx()))
		args = append(args, *req.Role)
	}
	if passwordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, *passwordHash)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a staff account by ID.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

// userColumns returns the standard column list for user queries.
func userColumns() []string {
	return []string{
		"id",
		"nom",
		"prenoms",
		"email",
		"telephone",
		"age",
		"role",
		"password_hash",
		"created_at",
		"updated_at",
	}
}

// buildUserConditions translates list options into query conditions.
func buildUserConditions(opts model.UsersListOptions) []database.Condition {
	conditions := make([]database.Condition, 0, 2)

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		conditions = append(conditions, database.WhereRawCond(
			"(nom ILIKE $1 OR prenoms ILIKE $1 OR email ILIKE $1)", q,
		))
	}
	if opts.Role != nil {
		conditions = append(conditions, database.WhereCond("role", database.Equal, *opts.Role))
	}
	return conditions
}

// validateUserSort validates and returns safe sort column and direction.
func validateUserSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"created_at": "created_at",
			"nom":        "nom",
			"email":      "email",
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

// getByQuery is a helper function to execute a query and return a single user.
func (r *UserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

func (r *UserRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailExists
	}
	return err
}
