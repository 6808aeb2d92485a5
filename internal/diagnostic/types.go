package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"assetplan/internal/common"
)

// Severity orders diagnostics from informational to fatal.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return common.UnknownStr
	}

	return severityNames[s]
}

// Diagnostic is one finding about a declaration.
type Diagnostic struct {
	Severity Severity
	// Code is a stable snake_case identifier, e.g. "malformed_matcher".
	Code    string
	Message string
	// Scope locates the declaration, e.g. "rules[2].use[0]".
	Scope string
	// Subject is the stage, plugin or value the declaration names.
	Subject     string
	Suggestions []string
}

// Diagnostics collects findings by severity, each group in the order reported.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) group(s Severity) *[]Diagnostic {
	switch s {
	case SeverityError:
		return &d.Errors
	case SeverityWarning:
		return &d.Warnings
	default:
		return &d.Infos
	}
}

// Add records a diagnostic and returns it for further decoration.
// The pointer is valid until the next Add on the same severity.
func (d *Diagnostics) Add(s Severity, code, message, scope, subject string) *Diagnostic {
	g := d.group(s)
	*g = append(*g, Diagnostic{Severity: s, Code: code, Message: message, Scope: scope, Subject: subject})

	return &(*g)[len(*g)-1]
}

func (d *Diagnostics) AddError(code, message, scope, subject string) *Diagnostic {
	return d.Add(SeverityError, code, message, scope, subject)
}

func (d *Diagnostics) AddWarning(code, message, scope, subject string) *Diagnostic {
	return d.Add(SeverityWarning, code, message, scope, subject)
}

func (d *Diagnostics) AddInfo(code, message, scope, subject string) *Diagnostic {
	return d.Add(SeverityInfo, code, message, scope, subject)
}

// WithSuggestions attaches alternatives to a diagnostic.
func (d *Diagnostic) WithSuggestions(suggestions ...string) *Diagnostic {
	if len(suggestions) > 0 {
		d.Suggestions = append(d.Suggestions, suggestions...)
	}

	return d
}

// Merge appends other's diagnostics after d's, severity by severity.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid reports whether no errors were recorded.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors, then warnings, then infos when withInfos is set.
func (d *Diagnostics) All(withInfos bool) []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	if withInfos {
		out = append(out, d.Infos...)
	}

	return out
}

// ByCode returns the diagnostics of any severity carrying code.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	return common.Filter(d.All(true), func(x Diagnostic) bool { return x.Code == code })
}

// Err joins the error diagnostics into one error, or returns nil.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	return errors.New(strings.Join(common.Map(d.Errors, Diagnostic.String), "; "))
}

// String renders "[scope] subject: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	var b strings.Builder

	switch {
	case d.Scope != "" && d.Subject != "":
		fmt.Fprintf(&b, "[%s] %s: ", d.Scope, d.Subject)
	case d.Scope != "":
		fmt.Fprintf(&b, "[%s]: ", d.Scope)
	case d.Subject != "":
		fmt.Fprintf(&b, "%s: ", d.Subject)
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		quoted := common.Map(d.Suggestions, func(s string) string { return fmt.Sprintf("%q", s) })
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoted, " or "))
	}

	return b.String()
}
