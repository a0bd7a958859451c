package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"budget-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []Email
	err  error
}

func (s *fakeSender) Send(ctx context.Context, email Email) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, email)
	return nil
}

type fakePublisher struct {
	published []Message
}

func (p *fakePublisher) Publish(ctx context.Context, message Message) error {
	p.published = append(p.published, message)
	return nil
}

var testConfig = Config{From: "Budget App <onboarding@resend.dev>", To: []string{"owner@example.com"}}

func validMessage() Message {
	return Message{Type: TypeBug, Message: "Button <b>broken</b>", UserEmail: "anna@example.com", UserName: "Anna"}
}

func TestSubmitMailsInlineWithoutQueue(t *testing.T) {
	sender := &fakeSender{}
	service := NewService(sender, nil, testConfig, logger.NewNop())

	require.NoError(t, service.Submit(context.Background(), validMessage()))
	require.Len(t, sender.sent, 1)

	email := sender.sent[0]
	assert.Equal(t, "🐛 Bug Meldung - Budget App", email.Subject)
	assert.Equal(t, []string{"owner@example.com"}, email.To)
	assert.Contains(t, email.HTML, "Button &lt;b&gt;broken&lt;/b&gt;")
	assert.NotContains(t, email.HTML, "<b>broken</b>")
	assert.Contains(t, email.HTML, "Anna")
}

func TestSubmitQueuesWhenPublisherConfigured(t *testing.T) {
	sender := &fakeSender{}
	publisher := &fakePublisher{}
	service := NewService(sender, publisher, testConfig, logger.NewNop())
	service.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, service.Submit(context.Background(), validMessage()))
	assert.Empty(t, sender.sent)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, 2026, publisher.published[0].SubmittedAt.Year())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Message)
		wantErr error
	}{
		{"unknown type", func(m *Message) { m.Type = "praise" }, ErrInvalidType},
		{"empty message", func(m *Message) { m.Message = "  " }, ErrMessageRequired},
		{"too long", func(m *Message) { m.Message = strings.Repeat("ä", MaxMessageLength+1) }, ErrMessageTooLong},
		{"bad email", func(m *Message) { m.UserEmail = "anna" }, ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			message := validMessage()
			tc.mutate(&message)
			_, err := Validate(message)
			require.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrInvalidFeedback)
		})
	}

	message := validMessage()
	message.Message = strings.Repeat("x", MaxMessageLength)
	_, err := Validate(message)
	assert.NoError(t, err)
}

func TestRenderUnknownSenderAndLocale(t *testing.T) {
	message := validMessage()
	message.Type = TypeSuggestion
	message.UserName = ""

	subject, html, err := Render(message, "en")
	require.NoError(t, err)
	assert.Equal(t, "💡 Suggestion - Budget App", subject)
	assert.Contains(t, html, "Unknown")
}

func TestDeliverErrors(t *testing.T) {
	service := NewService(nil, nil, testConfig, logger.NewNop())
	assert.ErrorIs(t, service.Deliver(context.Background(), validMessage()), ErrNotConfigured)

	cause := errors.New("resend down")
	service = NewService(&fakeSender{err: cause}, nil, testConfig, logger.NewNop())
	assert.ErrorIs(t, service.Deliver(context.Background(), validMessage()), cause)
}
