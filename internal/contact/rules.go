package contact

import (
	"errors"
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// Messages shown next to a failing field.
const (
	MsgNameRequired    = "Full name is required"
	MsgNameTooShort    = "Name must be at least 2 characters"
	MsgEmailRequired   = "Email address is required"
	MsgEmailInvalid    = "Please enter a valid email address"
	MsgSubjectRequired = "Please select a subject"
	MsgMessageRequired = "Message is required"
	MsgMessageTooShort = "Message must be at least 10 characters"
	MsgPrivacyRequired = "You must agree to the privacy policy"
)

// emailPattern is local@domain.tld: no whitespace, a single @, and a dot
// somewhere after the @ segment. Whitespace is the browser's set, see
// isFormSpace.
var emailPattern = regexp.MustCompile(`^[^` + formSpaceClass + `@]+@[^` + formSpaceClass + `@]+\.[^` + formSpaceClass + `@]+$`)

// rule is a validator tag chain plus the message for each tag in it.
// Tags run in order and the first failing tag decides the message.
type rule struct {
	tags     string
	messages map[string]string
}

var rules = map[Field]rule{
	FieldName: {
		tags: "trimmed_required,trimmed_min=2",
		messages: map[string]string{
			"trimmed_required": MsgNameRequired,
			"trimmed_min":      MsgNameTooShort,
		},
	},
	FieldEmail: {
		tags: "trimmed_required,loose_email",
		messages: map[string]string{
			"trimmed_required": MsgEmailRequired,
			"loose_email":      MsgEmailInvalid,
		},
	},
	FieldSubject: {
		tags: "trimmed_required",
		messages: map[string]string{
			"trimmed_required": MsgSubjectRequired,
		},
	},
	FieldMessage: {
		tags: "trimmed_required,trimmed_min=10",
		messages: map[string]string{
			"trimmed_required": MsgMessageRequired,
			"trimmed_min":      MsgMessageTooShort,
		},
	},
	FieldPrivacy: {
		tags: "checked",
		messages: map[string]string{
			"checked": MsgPrivacyRequired,
		},
	},
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("trimmed_required", trimmedRequired)
	_ = v.RegisterValidation("trimmed_min", trimmedMin)
	_ = v.RegisterValidation("loose_email", looseEmail)
	_ = v.RegisterValidation("checked", checkedBox)
	return v
}

func trimmedRequired(fl validator.FieldLevel) bool {
	return trim(fl.Field().String()) != ""
}

func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return formLength(trim(fl.Field().String())) >= n
}

// formLength counts UTF-16 code units, the length a browser reports for
// an input value.
func formLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func looseEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(trim(fl.Field().String()))
}

func checkedBox(fl validator.FieldLevel) bool {
	return isChecked(fl.Field().String())
}

// Result is the outcome of checking one field.
type Result struct {
	Field   Field
	Valid   bool
	Message string
}

// Validate checks value against the rule for field. Fields without a
// rule always pass.
func Validate(field Field, value string) Result {
	r, ok := rules[field]
	if !ok {
		return Result{Field: field, Valid: true}
	}

	err := validate.Var(value, r.tags)
	if err == nil {
		return Result{Field: field, Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return Result{Field: field, Valid: false, Message: r.messages[fieldErrs[0].Tag()]}
	}
	return Result{Field: field, Valid: false, Message: err.Error()}
}
