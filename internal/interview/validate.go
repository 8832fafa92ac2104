package interview

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-()+]{7,20}$`)
)

// ValidationResult reports whether an answer is acceptable for a step. For
// invalid answers it carries the human-readable field type and the fixed
// error message used as fallback phrasing.
type ValidationResult struct {
	Valid     bool
	FieldType string
	Error     string
}

// Validate checks the well-formedness of an answer for the given step. Only
// the email and phone steps are checked; every other step accepts any text.
func Validate(step, input string) ValidationResult {
	switch step {
	case StepEmail:
		if !emailPattern.MatchString(input) {
			return ValidationResult{
				FieldType: "email address",
				Error:     "That doesn't appear to be a valid email address. Please provide a valid email in the format example@domain.com.",
			}
		}
	case StepPhone:
		if !phonePattern.MatchString(input) {
			return ValidationResult{
				FieldType: "phone number",
				Error:     "That doesn't appear to be a valid phone number. Please provide a valid phone number.",
			}
		}
	}

	return ValidationResult{Valid: true}
}
