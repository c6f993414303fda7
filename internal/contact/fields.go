// Package contact implements the contact form: per-field rules, the
// inline error state shown next to each field, and the Idle/Submitting
// lifecycle that hands a valid form to a Submitter.
package contact

import (
	"strconv"
	"strings"
)

// Field names one input of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
	FieldPrivacy Field = "privacy"
)

// RequiredFields lists the fields marked required, in form order.
var RequiredFields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage, FieldPrivacy}

// ParseField maps a form input name to a Field. Unknown names are still
// returned so callers can validate them (they always pass).
func ParseField(name string) Field {
	return Field(strings.TrimSpace(strings.ToLower(name)))
}

// Subjects offered by the subject select.
var Subjects = []string{
	"Job Opportunity",
	"Security Consulting",
	"Collaboration",
	"General Inquiry",
}

// isChecked reports whether a raw checkbox value means "checked".
// Browsers post "on" for a checked box without an explicit value.
func isChecked(raw string) bool {
	raw = trim(raw)
	if strings.EqualFold(raw, "on") || strings.EqualFold(raw, "yes") {
		return true
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}

// formSpaceClass is the whitespace a browser matches with \s and strips
// with trim(), as a regexp character class body.
const formSpaceClass = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

func isFormSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

func trim(s string) string { return strings.TrimFunc(s, isFormSpace) }
