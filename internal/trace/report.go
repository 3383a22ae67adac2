// internal/trace/report.go
//
// Finding and report types for the traceability check between the two
// requirement collections. Errors make the build outcome a failure;
// warnings only annotate it.

package trace

import "fmt"

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind classifies what a finding is about, so downstream consumers (the
// site composer, tests) can react without parsing messages.
type Kind string

const (
	KindDuplicateID      Kind = "duplicate-id"
	KindMissingRefines   Kind = "missing-refines"
	KindDanglingRefines  Kind = "dangling-refines"
	KindRefinesWrongTier Kind = "refines-wrong-tier"
	KindMisplacedRefines Kind = "misplaced-refines"
	KindUncovered        Kind = "uncovered"
	KindUnknownStatus    Kind = "unknown-status"
	KindMalformedID      Kind = "malformed-id"
)

// Finding is one validation result tied to a single requirement.
type Finding struct {
	Severity Severity
	Kind     Kind
	Subject  string // requirement id the finding is about
	Message  string
}

// String renders the finding the way the terminal report and log print it.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Subject, f.Message)
}

// Report is the ordered sequence of findings produced by Validate. The
// order is deterministic for a given pair of collections.
type Report struct {
	Findings []Finding
}

// Valid reports whether the collections passed: warnings never block, any
// error does.
func (r Report) Valid() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of error-severity findings.
func (r Report) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-severity findings.
func (r Report) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r Report) count(severity Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

// Errors returns the error-severity findings in report order.
func (r Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity findings in report order.
func (r Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r Report) filter(severity Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// BrokenRefines reports whether validation flagged the software
// requirement's refines reference as unusable (missing, dangling or
// pointing at the wrong tier). The composer uses this to render a broken
// link state instead of a cross-page anchor.
func (r Report) BrokenRefines(id string) bool {
	for _, f := range r.Findings {
		if f.Subject != id {
			continue
		}
		switch f.Kind {
		case KindMissingRefines, KindDanglingRefines, KindRefinesWrongTier:
			return true
		}
	}
	return false
}

func (r *Report) add(severity Severity, kind Kind, subject, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Kind:     kind,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}
