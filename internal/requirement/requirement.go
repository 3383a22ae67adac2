// internal/requirement/requirement.go
//
// This package models the two requirement collections the documentation
// build consumes: high-level requirements written by humans and software
// requirements written by AI agents. Records are read-only inputs; the
// builder never rewrites them.

package requirement

import (
	"regexp"
	"strings"
)

// Tier identifies which collection a requirement belongs to.
type Tier string

const (
	// TierHighLevel is the human-authored collection. Records never carry
	// a refines field.
	TierHighLevel Tier = "high-level"
	// TierSoftware is the agent-authored collection. Every record must
	// refine exactly one high-level requirement.
	TierSoftware Tier = "software"
)

// Label returns the human-readable collection name used in messages.
func (t Tier) Label() string {
	switch t {
	case TierHighLevel:
		return "high-level requirements"
	case TierSoftware:
		return "software requirements"
	default:
		return string(t)
	}
}

// Status is the workflow state recorded on a requirement.
type Status string

const (
	StatusDraft      Status = "Draft"
	StatusInProgress Status = "In Progress"
	StatusInReview   Status = "In Review"
	StatusFinished   Status = "Finished"
)

// KnownStatus reports whether the value is one of the enumerated workflow
// states. Who may set which state is a process rule, not checked here.
func KnownStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusInReview, StatusFinished:
		return true
	default:
		return false
	}
}

// Requirement is one record from a requirement collection. Unknown fields
// are kept in Extra so future schema additions survive a rebuild, but the
// builder never interprets them.
type Requirement struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Status      Status         `yaml:"status"`
	Refines     string         `yaml:"refines,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(?:-[A-Za-z0-9]+)*-[0-9]+$`)

// WellFormedID reports whether the id follows the <PREFIX>-<digits> shape
// (for example REQ-001 or REQ-SW-001).
func (r Requirement) WellFormedID() bool {
	return idPattern.MatchString(strings.TrimSpace(r.ID))
}

// Collection is an ordered requirement list parsed from one file. Source
// order is preserved because the generated pages display records in the
// order the authors wrote them.
type Collection struct {
	Tier  Tier
	Path  string
	Items []Requirement
}

// Len returns the number of records in the collection.
func (c Collection) Len() int {
	return len(c.Items)
}

// IDSet returns the set of ids present in the collection, duplicates
// collapsed. Duplicate detection is the validator's job.
func (c Collection) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		set[item.ID] = struct{}{}
	}
	return set
}
