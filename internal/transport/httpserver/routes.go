package httpserver

import (
	"net/http"
	"time"

	"budget-app-go/internal/config"
	"budget-app-go/internal/transport/httpserver/handler"
	authmw "budget-app-go/internal/transport/httpserver/middleware"
	"budget-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

var defaultCORSOrigins = []string{"http://localhost:5173"}

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth, log logger.Logger) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(authmw.NewCORS(origins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/auth/login", handlers.Common.Login)
		r.Post("/auth/register", handlers.Common.Register)
		r.Post("/auth/password-reset", handlers.Common.PasswordReset)
		r.Post("/payments/webhook", handlers.Payments.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/auth/logout", handlers.Common.Logout)
			r.Get("/auth/me", handlers.Common.AuthMe)
			r.Patch("/profile", handlers.Common.UpdateProfile)

			r.Get("/state", handlers.Budget.GetState)
			r.Put("/settings/language", handlers.Budget.SetLanguage)
			r.Put("/budget", handlers.Budget.SetBudget)

			r.Post("/months", handlers.Budget.CreateMonth)
			r.Put("/months/active", handlers.Budget.SetActiveMonth)
			r.Patch("/months/{id}", handlers.Budget.RenameMonth)
			r.Delete("/months/{id}", handlers.Budget.DeleteMonth)
			r.Post("/months/{id}/duplicate", handlers.Budget.DuplicateMonth)
			r.Post("/months/{id}/pin", handlers.Budget.PinMonth)

			r.Post("/expenses", handlers.Budget.CreateExpense)
			r.Patch("/expenses/{id}", handlers.Budget.UpdateExpense)
			r.Delete("/expenses/{id}", handlers.Budget.DeleteExpense)
			r.Post("/expenses/{id}/duplicate", handlers.Budget.DuplicateExpense)
			r.Post("/expenses/{id}/pin", handlers.Budget.PinExpense)
			r.Post("/expenses/{id}/move", handlers.Budget.MoveExpense)

			r.Post("/subscriptions", handlers.Budget.CreateSubscription)
			r.Patch("/subscriptions/{id}", handlers.Budget.UpdateSubscription)
			r.Delete("/subscriptions/{id}", handlers.Budget.DeleteSubscription)
			r.Post("/subscriptions/{id}/duplicate", handlers.Budget.DuplicateSubscription)
			r.Post("/subscriptions/{id}/pin", handlers.Budget.PinSubscription)

			r.Post("/payments/checkout", handlers.Payments.Checkout)
			r.Post("/payments/verify", handlers.Payments.Verify)
			r.Post("/payments/donation", handlers.Payments.Donate)

			r.Post("/feedback", handlers.Feedback.Submit)
		})
	})

	return r
}

// requestLogger logs one line per request through the service logger.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				w.Header().Set(chimw.RequestIDHeader, reqID)
				reqLog = log.With("request_id", reqID)
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), reqLog)))
			reqLog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
