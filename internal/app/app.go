package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"budget-app-go/internal/config"
	"budget-app-go/internal/db"
	"budget-app-go/internal/domain/budget"
	"budget-app-go/internal/domain/feedback"
	"budget-app-go/internal/domain/payments"
	"budget-app-go/internal/domain/ratelimit"
	"budget-app-go/internal/domain/session"
	"budget-app-go/internal/integrations/mailer"
	"budget-app-go/internal/integrations/queue"
	stripeintegration "budget-app-go/internal/integrations/stripe"
	"budget-app-go/internal/integrations/supabase"
	"budget-app-go/internal/repository/inmemory"
	budgetrepo "budget-app-go/internal/repository/postgres/budget"
	profilesrepo "budget-app-go/internal/repository/postgres/profiles"
	ratelimitsrepo "budget-app-go/internal/repository/postgres/ratelimits"
	"budget-app-go/internal/transport/httpserver"
	"budget-app-go/internal/transport/httpserver/handler"
	budgethandler "budget-app-go/internal/transport/httpserver/handler/budget"
	commonhandler "budget-app-go/internal/transport/httpserver/handler/common"
	feedbackhandler "budget-app-go/internal/transport/httpserver/handler/feedback"
	paymentshandler "budget-app-go/internal/transport/httpserver/handler/payments"
	authmw "budget-app-go/internal/transport/httpserver/middleware"
	"budget-app-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	handler    http.Handler
	db         *gorm.DB
	queue      *queue.Client
	log        logger.Logger
}

// Option adjusts the loaded config before the service is built.
type Option func(*config.Config)

// WithoutStateCache reads the user's state from the store on every request.
// Used where several instances serve the same users side by side.
func WithoutStateCache() Option {
	return func(cfg *config.Config) {
		cfg.StateCacheTTL = 0
	}
}

func New(log logger.Logger, opts ...Option) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(context.Background(), cfg, log)
}

// NewWithConfig builds the whole service from an already loaded config.
func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(cfg.DB, dbConn, log); err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	application := &App{cfg: cfg, db: dbConn, log: log}

	profiles := profilesrepo.NewPostgres(dbConn)
	var stateCache budget.Cache
	if cfg.StateCacheTTL > 0 {
		stateCache = inmemory.NewStateCache()
	} else {
		log.Info("app: state cache disabled")
	}
	registry := budget.NewRegistry(budget.RegistryDeps{
		Gateway: budgetrepo.NewPostgres(dbConn),
		Premium: session.NewPremiumChecker(profiles),
		Limits: budget.Limits{
			Months:           cfg.Limits.Months,
			ExpensesPerMonth: cfg.Limits.ExpensesPerMonth,
			Subscriptions:    cfg.Limits.Subscriptions,
		},
		Cache:  stateCache,
		TTL:    cfg.StateCacheTTL,
		Logger: log.With("component", "budget"),
	})

	authProvider, verifier, err := newAuth(ctx, cfg, log)
	if err != nil {
		application.Close()
		return nil, err
	}
	sessions := session.NewManager(authProvider, profiles, registry, log.With("component", "session"))

	limiter := ratelimit.NewService(ratelimitsrepo.NewPostgres(dbConn), map[string]int{
		ratelimit.FunctionCheckout: cfg.RateLimits.Checkout,
		ratelimit.FunctionDonation: cfg.RateLimits.Donation,
		ratelimit.FunctionVerify:   cfg.RateLimits.Verify,
		ratelimit.FunctionFeedback: cfg.RateLimits.Feedback,
	}, cfg.RateLimits.Window, log)

	var paymentProvider payments.Provider
	if cfg.Stripe.SecretKey != "" {
		paymentProvider = stripeintegration.NewProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	} else {
		log.Warn("app: stripe not configured, payment endpoints disabled")
	}
	paymentService := payments.NewService(paymentProvider, sessions, payments.Config{
		Origin:   cfg.Stripe.AppOrigin,
		Currency: cfg.Stripe.Currency,
	}, log.With("component", "payments"))

	var publisher feedback.Publisher
	if cfg.Feedback.AMQPURL != "" {
		client, err := queue.NewClient(cfg.Feedback.AMQPURL, cfg.Feedback.ExchangeName, cfg.Feedback.QueueName, log)
		if err != nil {
			log.Warn("app: feedback queue unavailable, mailing inline", "err", err)
		} else {
			application.queue = client
			publisher = client
		}
	}
	feedbackService := feedback.NewService(newSender(cfg, log), publisher, feedback.Config{
		From:   cfg.Feedback.From,
		To:     cfg.Feedback.To,
		Locale: cfg.Feedback.Locale,
	}, log.With("component", "feedback"))

	handlers := handler.New(
		commonhandler.New(sessions, cfg.Stripe.AppOrigin+"/reset-password", log),
		budgethandler.New(registry, log),
		paymentshandler.New(paymentService, limiter, log),
		feedbackhandler.New(feedbackService, limiter, log),
	)
	auth := authmw.NewAuth(cfg.Supabase, verifier, sessions, log)

	log.Info("app: initializing router")
	application.handler = httpserver.NewRouter(cfg, handlers, auth, log)
	application.httpServer = httpserver.New(cfg, application.handler, log)

	return application, nil
}

// newAuth picks the auth backend. Skip-auth mode runs the local provider;
// otherwise tokens are checked locally when a JWT secret or JWKS URL is
// configured and by GoTrue itself when not.
func newAuth(ctx context.Context, cfg config.Config, log logger.Logger) (session.AuthProvider, authmw.TokenVerifier, error) {
	if cfg.Supabase.SkipAuth {
		var seed []supabase.LocalUser
		if cfg.Supabase.MockUserPass != "" {
			seed = append(seed, supabase.LocalUser{
				ID:       cfg.Supabase.MockUserID,
				Email:    cfg.Supabase.MockUserEmail,
				Password: cfg.Supabase.MockUserPass,
			})
		}
		local, err := supabase.NewLocalProvider(cfg.Supabase.JWTSecret, log, seed...)
		if err != nil {
			return nil, nil, fmt.Errorf("local auth: %w", err)
		}
		log.Warn("app: auth skipped, using local provider", "mock_user_id", cfg.Supabase.MockUserID)
		return local, local, nil
	}

	client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.PublishableKey, cfg.Supabase.AuthTimeout)
	switch {
	case cfg.Supabase.JWTSecret != "":
		verifier, err := supabase.NewHMACVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.JWTAudience)
		if err != nil {
			return nil, nil, err
		}
		return client, verifier, nil
	case cfg.Supabase.JWKSURL != "":
		verifier, err := supabase.NewJWKSVerifier(ctx, cfg.Supabase.JWKSURL, cfg.Supabase.JWTAudience)
		if err != nil {
			return nil, nil, err
		}
		return client, verifier, nil
	}
	return client, client, nil
}

func newSender(cfg config.Config, log logger.Logger) feedback.Sender {
	if cfg.Feedback.ResendAPIKey == "" {
		return nil
	}
	return mailer.NewResend(cfg.Feedback.ResendAPIKey, log)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// ShutdownTimeout bounds graceful HTTP shutdown.
func (a *App) ShutdownTimeout() time.Duration {
	if a.cfg.HTTP.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return a.cfg.HTTP.ShutdownTimeout
}

// Handler is the routed API without a listener, for Lambda and tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Close() error {
	var errs []error
	if a.queue != nil {
		errs = append(errs, a.queue.Close())
	}
	if a.db != nil {
		errs = append(errs, closeDB(a.db))
	}
	return errors.Join(errs...)
}

func closeDB(dbConn *gorm.DB) error {
	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
