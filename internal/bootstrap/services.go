package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bistronome/resto-ui-api/config"
	"github.com/bistronome/resto-ui-api/internal/adapters/directory"
	"github.com/bistronome/resto-ui-api/internal/adapters/notify"
	redisadapter "github.com/bistronome/resto-ui-api/internal/adapters/redis"
	"github.com/bistronome/resto-ui-api/internal/adapters/scheduler"
	"github.com/bistronome/resto-ui-api/internal/data"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
	"github.com/bistronome/resto-ui-api/internal/ports"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// notificationRingCapacity bounds how many toasts a session feed retains.
const notificationRingCapacity = 32

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Registry *service.SessionRegistry
	Orders   *service.OrderService
	Articles *service.ArticleService
	Users    *service.UserService
	Stats    *service.StatsService
}

// ServiceDeps holds the dependencies required to build services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices constructs the service layer from shared infrastructure.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := time.LoadLocation(deps.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", deps.Config.Timezone, err)
	}

	orderRepo := data.NewOrderRepo(deps.DB)
	articleRepo := data.NewArticleRepo(deps.DB)
	userRepo := data.NewUserRepo(deps.DB)
	statsRepo := data.NewStatsRepo(deps.DB, loc)

	dir, err := buildDirectory(deps.Config, userRepo)
	if err != nil {
		return nil, err
	}

	registry := service.NewSessionRegistry(service.SessionRegistryOptions{
		Directory: dir,
		States: func(handle string) ports.StateStore {
			return redisadapter.NewStateStoreWithPrefix(deps.RedisClient, "session:"+handle+":")
		},
		Notifiers: func(handle string) ports.NotificationFeed {
			return notify.NewRing(notificationRingCapacity, logger.With("session", handle))
		},
		Scheduler: scheduler.New(),
		Clock:     ports.SystemClock{},
		Idle: service.IdleConfig{
			Timeout:          deps.Config.Session.IdleTimeout,
			WarningLead:      deps.Config.Session.WarningLead,
			BookkeepInterval: deps.Config.Session.BookkeepInterval,
		},
		Logger: logger,
	})

	return &ServiceContainer{
		Registry: registry,
		Orders: service.NewOrderService(service.OrderServiceOptions{
			Orders:   orderRepo,
			Articles: articleRepo,
		}),
		Articles: service.NewArticleService(service.ArticleServiceOptions{Articles: articleRepo}),
		Users: service.NewUserService(service.UserServiceOptions{
			Users: userRepo,
			Hash:  directory.HashPassword,
		}),
		Stats: service.NewStatsService(service.StatsServiceOptions{Stats: statsRepo}),
	}, nil
}

// buildDirectory selects the credential directory for the configured mode.
//
//nolint:ireturn // the directory port is the whole point of this seam.
func buildDirectory(cfg *config.AppConfig, users *data.UserRepo) (ports.Directory, error) {
	switch cfg.Auth.DirectoryMode {
	case config.DirectoryModeStatic:
		latency, err := time.ParseDuration(cfg.Auth.StaticDirectory.Latency)
		if err != nil {
			return nil, fmt.Errorf("parse static directory latency: %w", err)
		}
		return directory.NewStatic(directory.StaticConfig{Latency: latency}), nil
	case config.DirectoryModePostgres:
		return directory.NewPostgres(users), nil
	default:
		return nil, fmt.Errorf("unknown directory mode: %q", cfg.Auth.DirectoryMode)
	}
}

// SeedStaff creates the default staff accounts when the users table is empty.
// Only runs in postgres directory mode; the static directory carries its own
// seeds.
func SeedStaff(ctx context.Context, deps *ServiceDeps) error {
	if deps.Config.Auth.DirectoryMode != config.DirectoryModePostgres {
		return nil
	}

	userRepo := data.NewUserRepo(deps.DB)
	for _, seed := range directory.DefaultSeedAccounts() {
		existing, err := userRepo.GetByEmail(ctx, seed.Principal.Email)
		if err != nil && !errors.Is(err, data.ErrUserNotFound) {
			return fmt.Errorf("check seed account %s: %w", seed.Principal.Email, err)
		}
		if existing != nil {
			continue
		}

		hash, err := directory.HashPassword(seed.Password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		req := seedCreateRequest(seed)
		if _, err := userRepo.Create(ctx, req, hash); err != nil {
			return fmt.Errorf("create seed account %s: %w", seed.Principal.Email, err)
		}
		if deps.Logger != nil {
			deps.Logger.InfoContext(ctx, "seeded staff account", "email", seed.Principal.Email)
		}
	}
	return nil
}

func seedCreateRequest(seed directory.SeedAccount) *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Nom:       seed.Principal.Nom,
		Prenoms:   seed.Principal.Prenoms,
		Email:     seed.Principal.Email,
		Telephone: seed.Principal.Telephone,
		Age:       seed.Principal.Age,
		Role:      seed.Principal.Role,
		Password:  seed.Password,
	}
}
