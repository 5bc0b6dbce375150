package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

const (
	PasswordMinLength = 8
	// PasswordMaxBytes is the most bcrypt will hash.
	PasswordMaxBytes  = 72
	PasswordSymbols   = `!@#$%^&*(),.?":{}|<>`
)

const (
	StrengthWeak       = "weak"
	StrengthMedium     = "medium"
	StrengthStrong     = "strong"
	StrengthVeryStrong = "very-strong"
)

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	angleQuotePattern   = regexp.MustCompile("[<>\"'`]")
	jsProtocolPattern   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// SanitizeText strips markup-significant characters, javascript: markers and
// inline event handler attributes from free text. It complements output
// encoding, it does not replace it.
func SanitizeText(s string) string {
	s = angleQuotePattern.ReplaceAllString(s, "")
	s = jsProtocolPattern.ReplaceAllString(s, "")
	s = eventHandlerPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type PasswordReport struct {
	Valid    bool
	Failures []string
	Score    int
	Strength string
}

// CheckPassword lists every unmet password rule. Strength is scored on its
// own and never affects Valid.
func CheckPassword(password string) PasswordReport {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}
	length := utf8.RuneCountInString(password)

	var failures []string
	if length < PasswordMinLength {
		failures = append(failures, "Password must be at least 8 characters long")
	}
	if len(password) > PasswordMaxBytes {
		failures = append(failures, "Password cannot exceed 72 bytes")
	}
	if !hasUpper {
		failures = append(failures, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		failures = append(failures, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		failures = append(failures, "Password must contain at least one number")
	}
	if !hasSymbol {
		failures = append(failures, "Password must contain at least one special character ("+PasswordSymbols+")")
	}

	score := 0
	for _, ok := range []bool{length >= 8, length >= 12, hasLower, hasUpper, hasDigit, hasSymbol} {
		if ok {
			score++
		}
	}

	return PasswordReport{
		Valid:    len(failures) == 0,
		Failures: failures,
		Score:    score,
		Strength: strengthLabel(score),
	}
}

func strengthLabel(score int) string {
	switch {
	case score <= 2:
		return StrengthWeak
	case score <= 4:
		return StrengthMedium
	case score == 5:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

// ValidatePassword returns a ValidationError carrying every unmet rule.
func ValidatePassword(field, password string) error {
	report := CheckPassword(password)
	if report.Valid {
		return nil
	}
	return domain.NewValidationError(field, "Password does not meet requirements", report.Failures...)
}

// ValidateRegistration normalises a registration payload: names are
// sanitised, the email lower-cased, and the password checked for strength.
func ValidateRegistration(in ports.RegisterInput) (ports.RegisterInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = SanitizeText(in.FirstName)
	in.LastName = SanitizeText(in.LastName)

	if err := Struct(in); err != nil {
		return in, err
	}
	if !ValidEmail(in.Email) {
		return in, domain.NewValidationError("email", "Please provide a valid email address")
	}
	if err := ValidatePassword("password", in.Password); err != nil {
		return in, err
	}
	return in, nil
}

// ValidateIDs rejects the whole list when any id is malformed.
func ValidateIDs(ids []string) error {
	if len(ids) == 0 {
		return domain.NewValidationError("ids", "ids must be a non-empty array")
	}

	var invalid []string
	for _, id := range ids {
		if !domain.ValidID(id) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return domain.NewValidationError("ids", "Invalid note id format", invalid...)
	}
	return nil
}

// ValidateBulk checks a bulk payload; withTag additionally requires a
// usable tag, which is returned normalised.
func ValidateBulk(in ports.BulkInput, withTag bool) (ports.BulkInput, error) {
	if err := ValidateIDs(in.IDs); err != nil {
		return in, err
	}
	if err := Struct(in); err != nil {
		return in, err
	}

	if withTag {
		tag, err := NormalizeTag(in.Tag)
		if err != nil {
			return in, err
		}
		if tag == "" {
			return in, domain.NewValidationError("tag", "tag is required")
		}
		in.Tag = tag
	}
	return in, nil
}
