package feedback

import (
	"bytes"
	"fmt"
	"html/template"

	"budget-app-go/internal/i18n"
)

const subjectSuffix = " - Budget App"

var emailTemplate = template.Must(template.New("feedback").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; border-bottom: 2px solid #10B981; padding-bottom: 10px;">{{.Heading}}</h1>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 10px; margin: 20px 0;">
    <p style="margin: 0 0 10px 0;"><strong>{{.TypeLabel}}:</strong> {{.Type}}</p>
    <p style="margin: 0 0 10px 0;"><strong>{{.FromLabel}}:</strong> {{.From}}</p>
    <p style="margin: 0;"><strong>{{.EmailLabel}}:</strong> {{.Email}}</p>
  </div>
  <div style="background: #fff; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
    <h3 style="color: #333; margin-top: 0;">{{.MessageLabel}}:</h3>
    <p style="white-space: pre-wrap; color: #555;">{{.Message}}</p>
  </div>
  <p style="color: #888; font-size: 12px; margin-top: 20px;">{{.Footer}}</p>
</div>
`))

type emailView struct {
	Heading      string
	TypeLabel    string
	Type         string
	FromLabel    string
	From         string
	EmailLabel   string
	Email        string
	MessageLabel string
	Message      string
	Footer       string
}

var (
	subjectKeys = map[Type]string{
		TypeSupport:    i18n.KeyFeedbackSubjectSupport,
		TypeBug:        i18n.KeyFeedbackSubjectBug,
		TypeSuggestion: i18n.KeyFeedbackSubjectSuggestion,
	}
	labelKeys = map[Type]string{
		TypeSupport:    i18n.KeyFeedbackLabelSupport,
		TypeBug:        i18n.KeyFeedbackLabelBug,
		TypeSuggestion: i18n.KeyFeedbackLabelSuggestion,
	}
)

// Render builds the subject and HTML body. All user supplied text is
// escaped by html/template.
func Render(message Message, locale string) (string, string, error) {
	subjectKey, ok := subjectKeys[message.Type]
	if !ok {
		return "", "", ErrInvalidType
	}
	heading := i18n.T(locale, subjectKey)

	from := message.UserName
	if from == "" {
		from = i18n.T(locale, i18n.KeyFeedbackUnknownSender)
	}

	view := emailView{
		Heading:      heading,
		TypeLabel:    i18n.T(locale, i18n.KeyFeedbackType),
		Type:         i18n.T(locale, labelKeys[message.Type]),
		FromLabel:    i18n.T(locale, i18n.KeyFeedbackFrom),
		From:         from,
		EmailLabel:   i18n.T(locale, i18n.KeyFeedbackEmail),
		Email:        message.UserEmail,
		MessageLabel: i18n.T(locale, i18n.KeyFeedbackMessage),
		Message:      message.Message,
		Footer:       i18n.T(locale, i18n.KeyFeedbackFooter),
	}

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, view); err != nil {
		return "", "", fmt.Errorf("render feedback email: %w", err)
	}
	return heading + subjectSuffix, body.String(), nil
}
