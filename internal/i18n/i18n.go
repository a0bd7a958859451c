// Package i18n holds the user-facing strings the backend itself produces,
// keyed by (locale, key) and loaded once.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const Default = "de"

const (
	KeyMonthCopySuffix            = "month.copy_suffix"
	KeyFeedbackSubjectSupport     = "feedback.subject.support"
	KeyFeedbackSubjectBug         = "feedback.subject.bug"
	KeyFeedbackSubjectSuggestion  = "feedback.subject.suggestion"
	KeyFeedbackLabelSupport       = "feedback.label.support"
	KeyFeedbackLabelBug           = "feedback.label.bug"
	KeyFeedbackLabelSuggestion    = "feedback.label.suggestion"
	KeyFeedbackType               = "feedback.type"
	KeyFeedbackFrom               = "feedback.from"
	KeyFeedbackEmail              = "feedback.email"
	KeyFeedbackMessage            = "feedback.message"
	KeyFeedbackUnknownSender      = "feedback.unknown_sender"
	KeyFeedbackFooter             = "feedback.footer"
	KeyDonationProductName        = "donation.product_name"
	KeyDonationProductDescription = "donation.product_description"
)

var supported = []language.Tag{
	language.German,
	language.English,
	language.French,
	language.Italian,
}

var matcher = language.NewMatcher(supported)

var table = map[string]map[string]string{
	"de": {
		KeyMonthCopySuffix:            " (Kopie)",
		KeyFeedbackSubjectSupport:     "🆘 Support Anfrage",
		KeyFeedbackSubjectBug:         "🐛 Bug Meldung",
		KeyFeedbackSubjectSuggestion:  "💡 Verbesserungsvorschlag",
		KeyFeedbackLabelSupport:       "Support Anfrage",
		KeyFeedbackLabelBug:           "Bug Meldung",
		KeyFeedbackLabelSuggestion:    "Verbesserungsvorschlag",
		KeyFeedbackType:               "Typ",
		KeyFeedbackFrom:               "Von",
		KeyFeedbackEmail:              "E-Mail",
		KeyFeedbackMessage:            "Nachricht",
		KeyFeedbackUnknownSender:      "Unbekannt",
		KeyFeedbackFooter:             "Gesendet von der Budget App",
		KeyDonationProductName:        "Donation - Budget App",
		KeyDonationProductDescription: "Vielen Dank für deine Unterstützung! ❤️",
	},
	"en": {
		KeyMonthCopySuffix:            " (Copy)",
		KeyFeedbackSubjectSupport:     "🆘 Support request",
		KeyFeedbackSubjectBug:         "🐛 Bug report",
		KeyFeedbackSubjectSuggestion:  "💡 Suggestion",
		KeyFeedbackLabelSupport:       "Support request",
		KeyFeedbackLabelBug:           "Bug report",
		KeyFeedbackLabelSuggestion:    "Suggestion",
		KeyFeedbackType:               "Type",
		KeyFeedbackFrom:               "From",
		KeyFeedbackEmail:              "Email",
		KeyFeedbackMessage:            "Message",
		KeyFeedbackUnknownSender:      "Unknown",
		KeyFeedbackFooter:             "Sent from the Budget App",
		KeyDonationProductName:        "Donation - Budget App",
		KeyDonationProductDescription: "Thank you for your support! ❤️",
	},
	"fr": {
		KeyMonthCopySuffix:           " (Copie)",
		KeyFeedbackSubjectSupport:    "🆘 Demande d'assistance",
		KeyFeedbackSubjectBug:        "🐛 Signalement de bug",
		KeyFeedbackSubjectSuggestion: "💡 Suggestion",
		KeyFeedbackUnknownSender:     "Inconnu",
	},
	"it": {
		KeyMonthCopySuffix:           " (Copia)",
		KeyFeedbackSubjectSupport:    "🆘 Richiesta di supporto",
		KeyFeedbackSubjectBug:        "🐛 Segnalazione bug",
		KeyFeedbackSubjectSuggestion: "💡 Suggerimento",
		KeyFeedbackUnknownSender:     "Sconosciuto",
	},
}

// Normalize maps a user supplied language ("DE", "en-US", "fr_CH") onto one
// of the supported locales. The second value is false when nothing matches.
func Normalize(value string) (string, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), "_", "-")
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	base, _ := supported[index].Base()
	return base.String(), true
}

// Match picks the best supported locale for an Accept-Language header,
// falling back to Default.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	base, _ := supported[index].Base()
	return base.String()
}

// T returns the string for key in locale. Missing entries fall back to the
// default locale, then to the key itself.
func T(locale, key string) string {
	if values, ok := table[locale]; ok {
		if value, ok := values[key]; ok {
			return value
		}
	}
	if value, ok := table[Default][key]; ok {
		return value
	}
	return key
}

func Supported() []string {
	result := make([]string, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		result = append(result, base.String())
	}
	return result
}
