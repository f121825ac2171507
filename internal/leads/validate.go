package leads

import (
	"strings"
	"unicode/utf8"
)

const (
	minNameLen    = 2
	minMessageLen = 10
	maxMessageLen = 4000
)

// ValidateSubmission checks the raw form values in a fixed order and returns
// the cleaned-up fields. The honeypot runs first so automated form fillers
// are rejected before any real validation work; the remaining checks
// short-circuit on the first failure. All string fields are trimmed before
// they are checked or stored, and length bounds count characters, not bytes.
func ValidateSubmission(raw SubmitFields) (Fields, error) {
	if strings.TrimSpace(raw.Website) != "" {
		return Fields{}, ErrBotDetected
	}

	name := strings.TrimSpace(raw.Name)
	if utf8.RuneCountInString(name) < minNameLen {
		return Fields{}, ErrInvalidLeadData
	}

	email := strings.TrimSpace(raw.Email)
	if !validEmail(email) {
		return Fields{}, ErrInvalidLeadData
	}

	message := strings.TrimSpace(raw.Message)
	messageLen := utf8.RuneCountInString(message)
	if messageLen < minMessageLen {
		return Fields{}, ErrInvalidLeadData
	}
	if messageLen > maxMessageLen {
		return Fields{}, ErrMessageTooLong
	}

	if !raw.ConsentToContact {
		return Fields{}, ErrInvalidLeadData
	}

	return Fields{
		Name:             name,
		Email:            email,
		Phone:            optional(raw.Phone),
		Company:          optional(raw.Company),
		Budget:           optional(raw.Budget),
		ServiceInterest:  optional(raw.ServiceInterest),
		Message:          message,
		ConsentToContact: true,
	}, nil
}

// validEmail accepts anything shaped like local@domain.tld: an @ with text
// on both sides, a dot somewhere after it, no whitespace.
func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return true
}

// optional trims s and returns nil for empty values so blank form inputs
// are stored as null rather than "".
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
