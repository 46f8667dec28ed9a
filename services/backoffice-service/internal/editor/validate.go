package editor

import "strings"

const (
	MessageRequired     = "Fields with * are required!"
	MessageInvalidEmail = "Invalid email address!"
)

// ValidationError lists the flagged fields and the single inline message.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks required fields first, then the binding's own rules.
func Validate(fields []Field, values Values, check func(Values) *ValidationError) *ValidationError {
	var missing []string
	for _, f := range fields {
		if f.Required && strings.TrimSpace(values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: MessageRequired}
	}
	if check != nil {
		return check(values)
	}
	return nil
}
