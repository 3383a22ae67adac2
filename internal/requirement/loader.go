package requirement

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a malformed or incomplete requirement record. It is
// fatal: a collection with one bad entry is not partially loaded.
type ParseError struct {
	Tier  Tier
	Path  string
	Entry int    // 1-based entry index, 0 when the whole file is at fault
	ID    string // offending record id when one could be read
	Field string // missing or malformed field, empty for decode failures
	Cause error
}

// Error renders the collection, entry and field so the author can find the
// offending record without a stack trace.
func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "requirement: %s (%s)", e.Tier.Label(), e.Path)
	if e.Entry > 0 {
		fmt.Fprintf(&sb, ": entry %d", e.Entry)
		if e.ID != "" {
			fmt.Fprintf(&sb, " (%s)", e.ID)
		}
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, ": missing required field %q", e.Field)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap exposes the underlying decode error, if any.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// LoadCollection reads and parses one requirement collection from disk.
func LoadCollection(path string, tier Tier) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, &ParseError{Tier: tier, Path: path, Cause: err}
	}
	return ParseCollection(data, tier, filepath.Clean(path))
}

// ParseCollection decodes a YAML sequence of requirement records. Parsing
// fails fast on the first malformed entry; an empty document yields an
// empty collection.
func ParseCollection(data []byte, tier Tier, path string) (Collection, error) {
	collection := Collection{Tier: tier, Path: path}
	if len(bytes.TrimSpace(data)) == 0 {
		return collection, nil
	}
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return Collection{}, &ParseError{Tier: tier, Path: path, Cause: fmt.Errorf("decode: %w", err)}
	}
	collection.Items = make([]Requirement, 0, len(nodes))
	for index, node := range nodes {
		var req Requirement
		if err := node.Decode(&req); err != nil {
			return Collection{}, &ParseError{Tier: tier, Path: path, Entry: index + 1, Cause: fmt.Errorf("decode: %w", err)}
		}
		req.ID = strings.TrimSpace(req.ID)
		req.Name = strings.TrimSpace(req.Name)
		req.Refines = strings.TrimSpace(req.Refines)
		if field, ok := missingRequiredField(req); !ok {
			return Collection{}, &ParseError{Tier: tier, Path: path, Entry: index + 1, ID: req.ID, Field: field}
		}
		collection.Items = append(collection.Items, req)
	}
	return collection, nil
}

// missingRequiredField returns the first absent required field. An absent
// description is tolerated; absent id, name or status is not.
func missingRequiredField(req Requirement) (string, bool) {
	if req.ID == "" {
		return "id", false
	}
	if req.Name == "" {
		return "name", false
	}
	if strings.TrimSpace(string(req.Status)) == "" {
		return "status", false
	}
	return "", true
}
