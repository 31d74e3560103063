package errors

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic. Only errors make a Report fail.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalText renders the severity as its lower-case name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "error" or "warning".
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic is one finding of a validation pass.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Location string   `json:"location,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s %s [%s]: %s", d.Severity, d.Code, d.Location, d.Message)
}

// Report accumulates diagnostics in the order they are found.
// The zero value is ready to use.
type Report struct {
	items []Diagnostic
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends d to the report.
func (r *Report) Add(d Diagnostic) {
	r.items = append(r.items, d)
}

// Errorf records an error diagnostic.
func (r *Report) Errorf(code Code, location, format string, args ...any) {
	r.Add(Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf records a warning diagnostic.
func (r *Report) Warnf(code Code, location, format string, args ...any) {
	r.Add(Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	})
}

// AddError records err as an error diagnostic, keeping its code when it
// carries one.
func (r *Report) AddError(location string, err error) {
	if err == nil {
		return
	}
	if ds := DiagnosticsOf(err); ds != nil {
		for _, d := range ds {
			if d.Location == "" {
				d.Location = location
			}
			r.Add(d)
		}
		return
	}
	r.Errorf(ErrCodeInternal, location, "%v", err)
}

// Merge appends every diagnostic of other. A nil other is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.items = append(r.items, other.items...)
}

// Diagnostics returns a copy of all diagnostics.
func (r *Report) Diagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	return append([]Diagnostic(nil), r.items...)
}

// Errors returns only the error diagnostics.
func (r *Report) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

// Warnings returns only the warning diagnostics.
func (r *Report) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(s Severity) []Diagnostic {
	if r == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range r.items {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error diagnostic was recorded.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, d := range r.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Has reports whether a diagnostic with the given code was recorded.
func (r *Report) Has(code Code) bool {
	return len(r.Find(code)) > 0
}

// Find returns every diagnostic with the given code.
func (r *Report) Find(code Code) []Diagnostic {
	if r == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range r.items {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of diagnostics.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Err returns nil when the report holds no errors. Otherwise it returns a
// VALIDATION_FAILED *Error whose Diagnostics field lists every finding,
// warnings included.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, d := range errs {
		lines[i] = d.String()
	}
	msg := fmt.Sprintf("%d error(s):\n  %s", len(errs), strings.Join(lines, "\n  "))
	if len(errs) == 1 {
		msg = errs[0].String()
	}
	return &Error{
		Code:        ErrCodeValidation,
		Message:     msg,
		Diagnostics: r.Diagnostics(),
	}
}
