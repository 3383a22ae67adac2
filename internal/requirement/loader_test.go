package requirement

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleHighLevel = `# High-level Requirements
- id: REQ-001
  name: Basic Application Setup
  status: Draft
  description: >
    Set up the basic application structure with the selected components.
- id: REQ-002
  name: User Accounts
  status: In Progress
  description: Account registration and login.
`

const sampleSoftware = `# Software Requirements
- id: REQ-SW-001
  name: Core Component Functionality
  status: Draft
  refines: REQ-001
  description: Implement basic functionality for the selected components.
`

func TestParseCollectionPreservesOrder(t *testing.T) {
	col, err := ParseCollection([]byte(sampleHighLevel), TierHighLevel, "high_level_requirements.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if col.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", col.Len())
	}
	if col.Items[0].ID != "REQ-001" || col.Items[1].ID != "REQ-002" {
		t.Fatalf("source order not preserved: %+v", col.Items)
	}
	if col.Items[1].Status != StatusInProgress {
		t.Fatalf("unexpected status: %q", col.Items[1].Status)
	}
}

func TestParseCollectionRefines(t *testing.T) {
	col, err := ParseCollection([]byte(sampleSoftware), TierSoftware, "software_requirements.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if col.Items[0].Refines != "REQ-001" {
		t.Fatalf("expected refines REQ-001, got %q", col.Items[0].Refines)
	}
}

func TestParseCollectionEmptyDocument(t *testing.T) {
	col, err := ParseCollection([]byte("# nothing yet\n"), TierSoftware, "software_requirements.yaml")
	if err != nil {
		t.Fatalf("empty document should load: %v", err)
	}
	if col.Len() != 0 {
		t.Fatalf("expected no records, got %d", col.Len())
	}
}

func TestParseCollectionMissingRequiredField(t *testing.T) {
	cases := []struct {
		name  string
		input string
		field string
		id    string
	}{
		{
			name:  "missing id",
			input: "- name: No Identity\n  status: Draft\n",
			field: "id",
		},
		{
			name:  "missing name",
			input: "- id: REQ-003\n  status: Draft\n",
			field: "name",
			id:    "REQ-003",
		},
		{
			name:  "missing status",
			input: "- id: REQ-004\n  name: No State\n",
			field: "status",
			id:    "REQ-004",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCollection([]byte(tc.input), TierHighLevel, "high_level_requirements.yaml")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, parseErr.Field)
			}
			if parseErr.Entry != 1 {
				t.Fatalf("expected entry 1, got %d", parseErr.Entry)
			}
			if parseErr.ID != tc.id {
				t.Fatalf("expected id %q, got %q", tc.id, parseErr.ID)
			}
		})
	}
}

func TestParseCollectionKeepsUnknownFields(t *testing.T) {
	input := "- id: REQ-005\n  name: Extra Fields\n  status: Draft\n  owner: platform-team\n"
	col, err := ParseCollection([]byte(input), TierHighLevel, "high_level_requirements.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, ok := col.Items[0].Extra["owner"]; !ok || got != "platform-team" {
		t.Fatalf("expected unknown field to survive, got %+v", col.Items[0].Extra)
	}
}

func TestParseCollectionMalformedYAML(t *testing.T) {
	_, err := ParseCollection([]byte("- id: [broken\n"), TierSoftware, "software_requirements.yaml")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestLoadCollection(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "high_level_requirements.yaml")
	if err := os.WriteFile(path, []byte(sampleHighLevel), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	col, err := LoadCollection(path, TierHighLevel)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if col.Path != path {
		t.Fatalf("expected path %s, got %s", path, col.Path)
	}
	if col.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", col.Len())
	}
}

func TestLoadCollectionMissingFile(t *testing.T) {
	_, err := LoadCollection(filepath.Join(t.TempDir(), "absent.yaml"), TierHighLevel)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for missing file, got %v", err)
	}
}

func TestWellFormedID(t *testing.T) {
	good := []string{"REQ-001", "REQ-SW-001", "SYS-12"}
	bad := []string{"", "REQ", "REQ-", "001", "REQ_001"}
	for _, id := range good {
		if !(Requirement{ID: id}).WellFormedID() {
			t.Errorf("expected %q to be well formed", id)
		}
	}
	for _, id := range bad {
		if (Requirement{ID: id}).WellFormedID() {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}
