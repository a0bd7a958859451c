package feedback

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"budget-app-go/internal/i18n"
	"budget-app-go/pkg/logger"
)

const MaxMessageLength = 5000

type Config struct {
	From   string
	To     []string
	Locale string
}

type Service struct {
	sender    Sender
	publisher Publisher
	from      string
	to        []string
	locale    string
	log       logger.Logger
	now       func() time.Time
}

// NewService wires delivery. publisher may be nil, then Submit mails
// inline.
func NewService(sender Sender, publisher Publisher, cfg Config, log logger.Logger) *Service {
	locale := cfg.Locale
	if normalized, ok := i18n.Normalize(locale); ok {
		locale = normalized
	} else {
		locale = i18n.Default
	}
	return &Service{
		sender:    sender,
		publisher: publisher,
		from:      cfg.From,
		to:        cfg.To,
		locale:    locale,
		log:       log,
		now:       time.Now,
	}
}

func Validate(message Message) (Message, error) {
	message.Message = strings.TrimSpace(message.Message)
	message.UserEmail = strings.TrimSpace(message.UserEmail)
	message.UserName = strings.TrimSpace(message.UserName)

	switch message.Type {
	case TypeSupport, TypeBug, TypeSuggestion:
	default:
		return message, ErrInvalidType
	}
	if message.Message == "" {
		return message, ErrMessageRequired
	}
	if utf8.RuneCountInString(message.Message) > MaxMessageLength {
		return message, ErrMessageTooLong
	}
	address, err := mail.ParseAddress(message.UserEmail)
	if err != nil || address.Address != message.UserEmail {
		return message, ErrInvalidEmail
	}
	return message, nil
}

// Submit validates the message and queues it, or mails it directly when no
// queue is configured.
func (s *Service) Submit(ctx context.Context, message Message) error {
	message, err := Validate(message)
	if err != nil {
		return err
	}
	if message.SubmittedAt.IsZero() {
		message.SubmittedAt = s.now().UTC()
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, message); err != nil {
			return fmt.Errorf("publish feedback: %w", err)
		}
		s.log.Info("feedback: queued", "type", message.Type, "user_id", message.UserID)
		return nil
	}
	return s.Deliver(ctx, message)
}

// Deliver renders and sends one message. The worker calls it for queued
// messages.
func (s *Service) Deliver(ctx context.Context, message Message) error {
	if s.sender == nil || len(s.to) == 0 {
		return ErrNotConfigured
	}

	subject, html, err := Render(message, s.locale)
	if err != nil {
		return err
	}

	email := Email{
		From:    s.from,
		To:      append([]string{}, s.to...),
		Subject: subject,
		HTML:    html,
	}
	if err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send feedback email: %w", err)
	}
	s.log.Info("feedback: email sent", "type", message.Type, "user_id", message.UserID)
	return nil
}
