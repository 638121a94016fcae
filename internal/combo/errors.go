package combo

import "fmt"

// SchemaError is returned when a required column or key field is missing.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// ValidationError represents malformed input: a bad factor string, a
// non-numeric metric cell, a missing case in strict mode or duplicate rows
// under the reject policy.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Invalidf builds a ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// SelectionError is returned when a requested group has no records.
type SelectionError struct {
	Group string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("no records found for group %q", e.Group)
}
