package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"budget-app-go/pkg/logger"
)

type Config struct {
	HTTPPort      string
	HTTP          HTTPConfig
	Env           string
	CORSOrigins   []string
	StateCacheTTL time.Duration
	DB            DBConfig
	Supabase      SupabaseConfig
	Limits        LimitsConfig
	Stripe        StripeConfig
	Feedback      FeedbackConfig
	RateLimits    RateLimitsConfig
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type DBConfig struct {
	Driver          string
	SQLitePath      string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	JWTSecret      string
	JWKSURL        string
	JWTAudience    string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserPass   string
}

type LimitsConfig struct {
	Months           int
	ExpensesPerMonth int
	Subscriptions    int
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	AppOrigin     string
}

type FeedbackConfig struct {
	AMQPURL      string
	ExchangeName string
	QueueName    string
	ResendAPIKey string
	From         string
	To           []string
	Locale       string
}

type RateLimitsConfig struct {
	Window   time.Duration
	Checkout int
	Donation int
	Verify   int
	Feedback int
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", 35*time.Second),
			IdleTimeout:       getEnvDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:   getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Env:           getEnv("ENV", "development"),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "capacitor://localhost"}),
		StateCacheTTL: getEnvDuration("STATE_CACHE_TTL", 30*time.Minute),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			SQLitePath:      getEnv("SQLITE_PATH", "budget.db"),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "budget_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", getEnv("VITE_SUPABASE_PUBLISHABLE_KEY", "")),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			JWKSURL:        getEnv("SUPABASE_JWKS_URL", ""),
			JWTAudience:    getEnv("SUPABASE_JWT_AUDIENCE", "authenticated"),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", "dev@budget.local"),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
			MockUserPass:   getEnv("AUTH_MOCK_USER_PASSWORD", ""),
		},
		Limits: LimitsConfig{
			Months:           getEnvInt("FREE_MONTH_LIMIT", 2),
			ExpensesPerMonth: getEnvInt("FREE_EXPENSE_LIMIT", 8),
			Subscriptions:    getEnvInt("FREE_SUBSCRIPTION_LIMIT", 5),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("DONATION_CURRENCY", "chf"),
			AppOrigin:     getEnv("APP_ORIGIN", "http://localhost:5173"),
		},
		Feedback: FeedbackConfig{
			AMQPURL:      getEnv("FEEDBACK_AMQP_URL", ""),
			ExchangeName: getEnv("FEEDBACK_AMQP_EXCHANGE", "budget.feedback"),
			QueueName:    getEnv("FEEDBACK_AMQP_QUEUE", "feedback.email"),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("FEEDBACK_FROM", "Budget App <onboarding@resend.dev>"),
			To:           getEnvList("FEEDBACK_TO", nil),
			Locale:       getEnv("FEEDBACK_LOCALE", "de"),
		},
		RateLimits: RateLimitsConfig{
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),
			Checkout: getEnvInt("RATE_LIMIT_CHECKOUT", 20),
			Donation: getEnvInt("RATE_LIMIT_DONATION", 20),
			Verify:   getEnvInt("RATE_LIMIT_VERIFY", 20),
			Feedback: getEnvInt("RATE_LIMIT_FEEDBACK", 10),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// URL is the DSN in URL form, as golang-migrate expects it.
func (c DBConfig) URL() string {
	if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}
