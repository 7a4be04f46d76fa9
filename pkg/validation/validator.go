package validation

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (fe FieldError) String() string {
	return fe.Field + " - " + fe.Message
}

// Errors keeps field errors in the order the checks ran.
type Errors []FieldError

func (e Errors) HasErrors() bool { return len(e) > 0 }

// Error renders with ConcatRenderer.
func (e Errors) Error() string {
	return ConcatRenderer.Render(e)
}

// Predicate reports whether a value satisfies a constraint.
type Predicate func() bool

// Rule binds a predicate to the field and message reported when it fails.
type Rule struct {
	Field   string
	Message string
	Check   Predicate
}

// Run evaluates every rule and collects all failures. It never stops early.
func Run(rules ...Rule) Errors {
	var errs Errors
	for _, r := range rules {
		if r.Check == nil || r.Check() {
			continue
		}
		errs = append(errs, FieldError{Field: r.Field, Message: r.Message})
	}
	return errs
}

// Present fails for nil pointers.
func Present[T any](p *T) Predicate {
	return func() bool { return p != nil }
}

// NotBlank fails for empty or whitespace-only strings.
func NotBlank(s string) Predicate {
	return func() bool { return strings.TrimSpace(s) != "" }
}

// Email fails when s is not a syntactically valid address.
func Email(s string) Predicate {
	return func() bool { return validate.Var(s, "email") == nil }
}

// DateSet fails for the zero civil.Date.
func DateSet(d civil.Date) Predicate {
	return func() bool { return !d.IsZero() }
}

// Past fails unless d is strictly before today. An unset date passes;
// pair it with DateSet to require one.
func Past(d civil.Date, today civil.Date) Predicate {
	return func() bool { return d.IsZero() || d.Before(today) }
}

// When only evaluates p if cond holds; otherwise it passes.
func When(cond bool, p Predicate) Predicate {
	return func() bool { return !cond || p() }
}

// Renderer turns field errors into a single message for API error bodies.
type Renderer interface {
	Render(Errors) string
}

type RendererFunc func(Errors) string

func (f RendererFunc) Render(e Errors) string { return f(e) }

// ConcatRenderer writes "field - message" entries back to back with no
// separator. Existing clients parse this exact format.
var ConcatRenderer RendererFunc = func(e Errors) string {
	var sb strings.Builder
	for _, fe := range e {
		sb.WriteString(fe.String())
	}
	return sb.String()
}

// ListRenderer joins entries with "; ".
var ListRenderer RendererFunc = func(e Errors) string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.String())
	}
	return strings.Join(parts, "; ")
}

// RendererFor maps a config value to a renderer, defaulting to ConcatRenderer.
func RendererFor(format string) Renderer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "list":
		return ListRenderer
	default:
		return ConcatRenderer
	}
}

// DescribeBindError converts JSON decoding failures into a short client-facing message.
func DescribeBindError(err error) string {
	if err == nil {
		return ""
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &se):
		return "invalid json"
	case errors.As(err, &ute):
		if ute.Field != "" {
			return ute.Field + " - has invalid type"
		}
		return "invalid json"
	case strings.Contains(err.Error(), "civil.ParseDate"), strings.Contains(err.Error(), "parsing time"):
		return "dates must be formatted as YYYY-MM-DD"
	}
	return "invalid payload"
}
