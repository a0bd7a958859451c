package feedback

import (
	"context"
	"errors"
	"net/http"

	feedbackdomain "budget-app-go/internal/domain/feedback"
	"budget-app-go/internal/domain/ratelimit"
	commonhandler "budget-app-go/internal/transport/httpserver/handler/common"
	"budget-app-go/internal/transport/httpserver/middleware"
	"budget-app-go/pkg/logger"
)

type Limiter interface {
	Allow(ctx context.Context, userID, function string) error
}

type Submitter interface {
	Submit(ctx context.Context, message feedbackdomain.Message) error
}

type Handlers struct {
	Feedback Submitter
	Limiter  Limiter
	log      logger.Logger
}

func New(feedback Submitter, limiter Limiter, log logger.Logger) *Handlers {
	return &Handlers{
		Feedback: feedback,
		Limiter:  limiter,
		log:      log,
	}
}

type submitRequest struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
}

func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}

	if h.Limiter != nil {
		if err := h.Limiter.Allow(r.Context(), user.ID, ratelimit.FunctionFeedback); err != nil {
			if errors.Is(err, ratelimit.ErrRateLimited) {
				h.log.BusinessError("feedback.submit: rate limited", err, "user_id", user.ID)
				commonhandler.WriteRateLimited(w)
				return
			}
			h.log.InternalError("feedback.submit: rate limit failed", err, "user_id", user.ID)
			commonhandler.WriteInternalError(w)
			return
		}
	}

	var req submitRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}

	message := feedbackdomain.Message{
		Type:      feedbackdomain.Type(req.Type),
		Message:   req.Message,
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
		UserID:    user.ID,
	}
	if message.UserEmail == "" {
		message.UserEmail = user.Email
	}
	if message.UserName == "" {
		message.UserName = user.Name
	}

	if err := h.Feedback.Submit(r.Context(), message); err != nil {
		switch {
		case errors.Is(err, feedbackdomain.ErrInvalidFeedback):
			h.log.BusinessError("feedback.submit: validation failed", err, "user_id", user.ID)
			commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, feedbackdomain.ErrNotConfigured):
			h.log.Error("feedback.submit: delivery not configured", "user_id", user.ID)
			commonhandler.WriteError(w, http.StatusServiceUnavailable, "feedback_not_configured", "feedback not configured")
		default:
			h.log.InternalError("feedback.submit: failed", err, "user_id", user.ID)
			commonhandler.WriteInternalError(w)
		}
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
