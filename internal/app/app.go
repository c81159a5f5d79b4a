package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aidar/claims-engine/internal/config"
	"github.com/aidar/claims-engine/internal/handler"
	"github.com/aidar/claims-engine/internal/lock"
	"github.com/aidar/claims-engine/internal/mail"
	"github.com/aidar/claims-engine/internal/middleware"
	"github.com/aidar/claims-engine/internal/repository"
	"github.com/aidar/claims-engine/internal/repository/memory"
	"github.com/aidar/claims-engine/internal/repository/postgres"
	"github.com/aidar/claims-engine/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config     *config.Config
	db         *pgxpool.Pool
	redis      *redis.Client
	dispatcher *mail.Dispatcher
	server     *http.Server
	logger     *slog.Logger
}

// repositories содержит выбранную реализацию хранилища
type repositories struct {
	claims        repository.ClaimRepository
	notifications repository.NotificationRepository
	team          repository.TeamRepository
	stats         repository.StatsRepository
	tx            repository.Transactor
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	repos, err := a.setupStorage(ctx)
	if err != nil {
		return err
	}

	locker, err := a.setupLocker(ctx)
	if err != nil {
		return err
	}

	sender, err := a.setupMailSender(ctx)
	if err != nil {
		return err
	}
	a.dispatcher = mail.NewDispatcher(sender, a.config.Mail.Timeout, a.logger)

	// Настраиваем HTTP сервер и роутинг
	a.setupServer(repos, locker)

	a.logger.Info("Application initialized successfully",
		"storage", a.config.Storage.Driver,
		"lock", a.config.Lock.Driver,
		"mail", a.config.Mail.Driver,
	)
	return nil
}

// setupStorage выбирает PostgreSQL или in-memory хранилище
func (a *App) setupStorage(ctx context.Context) (repositories, error) {
	if a.config.Storage.Driver == config.StorageMemory {
		store := memory.NewStore()
		a.logger.Warn("Using in-memory storage, data is lost on restart")
		return repositories{
			claims:        store.Claims(),
			notifications: store.Notifications(),
			team:          store.Team(),
			stats:         store.Stats(),
			tx:            store.Transactor(),
		}, nil
	}

	if err := a.connectDB(ctx); err != nil {
		return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repositories{
		claims:        postgres.NewClaimRepository(a.db),
		notifications: postgres.NewNotificationRepository(a.db),
		team:          postgres.NewTeamRepository(a.db),
		stats:         postgres.NewStatsRepository(a.db),
		tx:            postgres.NewTransactor(a.db),
	}, nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// setupLocker выбирает блокировку claim'ов: в процессе или через Redis
func (a *App) setupLocker(ctx context.Context) (lock.Locker, error) {
	cfg := a.config.Lock
	if cfg.Driver == config.LockLocal {
		return lock.NewLocal(cfg.WaitTimeout), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.redis = client
	a.logger.Info("Connected to redis", "addr", cfg.RedisAddr)
	return lock.NewRedis(client, lock.RedisOptions{
		TTL:  cfg.TTL,
		Wait: cfg.WaitTimeout,
	}, a.logger), nil
}

// setupMailSender выбирает способ доставки писем claimant'у
func (a *App) setupMailSender(ctx context.Context) (mail.Sender, error) {
	cfg := a.config.Mail
	if cfg.Driver == config.MailLog {
		return mail.NewLogSender(a.logger), nil
	}

	sender, err := mail.NewSESSender(ctx, cfg.AWSRegion, cfg.From)
	if err != nil {
		return nil, fmt.Errorf("failed to create SES sender: %w", err)
	}
	return sender, nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer(repos repositories, locker lock.Locker) {
	deps := service.Deps{
		Claims:        repos.claims,
		Notifications: repos.notifications,
		Team:          repos.team,
		Tx:            repos.tx,
		Locker:        locker,
	}

	// Инициализируем слой сервисов (бизнес-логика)
	claimService := service.NewClaimService(deps)
	assignmentService := service.NewAssignmentService(deps)
	decisionService := service.NewDecisionService(deps, a.dispatcher, a.logger)
	projector := service.NewProgressProjector(repos.claims)
	teamService := service.NewTeamService(repos.team)
	statsService := service.NewStatsService(repos.stats)
	authService := service.NewAuthService(
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)

	// Инициализируем HTTP обработчики
	claimHandler := handler.NewClaimHandler(claimService, assignmentService, projector)
	notificationHandler := handler.NewNotificationHandler(decisionService)
	trackHandler := handler.NewTrackHandler(projector)
	teamHandler := handler.NewTeamHandler(teamService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	// Публичные эндпоинты claimant'а (форма подачи и отслеживание)
	r.Post("/claims", claimHandler.Create)
	r.Get("/track/{claimID}", trackHandler.Track)

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		// Эндпоинты claim'ов
		r.Get("/claims", claimHandler.List)
		r.Route("/claims/{claimID}", func(r chi.Router) {
			r.Get("/", claimHandler.Get)
			r.Post("/assign", claimHandler.Assign)
			r.Post("/reject", claimHandler.Reject)
			r.Post("/status", claimHandler.UpdateStatus)
			r.Get("/notifications", claimHandler.Notifications)
			r.Get("/timeline", claimHandler.Timeline)
		})

		// Inbox адъюстера и решения по назначениям
		r.Get("/notifications", notificationHandler.Inbox)
		r.Post("/notifications/{notificationID}/decision", notificationHandler.Decide)

		// Эндпоинты ростера
		r.Get("/team", teamHandler.GetTeam)
		r.Post("/team/members", teamHandler.AddMember)

		// Эндпоинты статистики
		r.Get("/stats", statsHandler.GetStats)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Handler возвращает корневой HTTP обработчик (используется в тестах)
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Дожидаемся писем, запущенных после последних решений
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(ctx); err != nil {
			a.logger.Warn("Pending mail dropped on shutdown", "error", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
