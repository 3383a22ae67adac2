package trace

import (
	"strings"
	"testing"

	"docsmith/internal/requirement"
)

func highLevel(items ...requirement.Requirement) requirement.Collection {
	return requirement.Collection{Tier: requirement.TierHighLevel, Path: "high_level_requirements.yaml", Items: items}
}

func software(items ...requirement.Requirement) requirement.Collection {
	return requirement.Collection{Tier: requirement.TierSoftware, Path: "software_requirements.yaml", Items: items}
}

func req(id, name string, status requirement.Status, refines string) requirement.Requirement {
	return requirement.Requirement{ID: id, Name: name, Status: status, Refines: refines}
}

func findingsOfKind(report Report, kind Kind) []Finding {
	var out []Finding
	for _, f := range report.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func TestValidateCleanPair(t *testing.T) {
	report := Validate(
		highLevel(req("REQ-001", "Basic Application Setup", requirement.StatusDraft, "")),
		software(req("REQ-SW-001", "Core Component Functionality", requirement.StatusDraft, "REQ-001")),
	)
	if !report.Valid() {
		t.Fatalf("expected valid report, got errors: %v", report.Errors())
	}
	if report.ErrorCount() != 0 {
		t.Fatalf("expected zero errors, got %d", report.ErrorCount())
	}
	if report.WarningCount() != 0 {
		t.Fatalf("expected zero warnings, got %v", report.Warnings())
	}
}

func TestValidateDanglingRefines(t *testing.T) {
	report := Validate(
		highLevel(req("REQ-001", "Setup", requirement.StatusDraft, "")),
		software(
			req("REQ-SW-001", "Covered", requirement.StatusDraft, "REQ-001"),
			req("REQ-SW-002", "Dangling", requirement.StatusDraft, "REQ-999"),
		),
	)
	if report.Valid() {
		t.Fatal("expected invalid report")
	}
	errs := report.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Subject != "REQ-SW-002" || errs[0].Kind != KindDanglingRefines {
		t.Fatalf("unexpected finding: %+v", errs[0])
	}
	if !strings.Contains(errs[0].Message, "REQ-999") {
		t.Fatalf("message should name the dangling target: %s", errs[0].Message)
	}
	if !report.BrokenRefines("REQ-SW-002") {
		t.Fatal("expected REQ-SW-002 refines to be marked broken")
	}
	if report.BrokenRefines("REQ-SW-001") {
		t.Fatal("REQ-SW-001 resolves and must not be marked broken")
	}
}

func TestValidateMissingRefinesDistinctFromDangling(t *testing.T) {
	report := Validate(
		highLevel(req("REQ-001", "Setup", requirement.StatusDraft, "")),
		software(req("REQ-SW-001", "No Link", requirement.StatusDraft, "")),
	)
	errs := report.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if errs[0].Kind != KindMissingRefines {
		t.Fatalf("expected missing-refines kind, got %s", errs[0].Kind)
	}
	if strings.Contains(errs[0].Message, "does not match") {
		t.Fatalf("missing-field message must differ from dangling-reference message: %s", errs[0].Message)
	}
}

func TestValidateRefinesWrongTier(t *testing.T) {
	report := Validate(
		highLevel(req("REQ-001", "Setup", requirement.StatusDraft, "")),
		software(
			req("REQ-SW-001", "Covered", requirement.StatusDraft, "REQ-001"),
			req("REQ-SW-002", "Sideways", requirement.StatusDraft, "REQ-SW-001"),
			req("REQ-SW-003", "Self", requirement.StatusDraft, "REQ-SW-003"),
		),
	)
	wrongTier := findingsOfKind(report, KindRefinesWrongTier)
	if len(wrongTier) != 2 {
		t.Fatalf("expected two wrong-tier errors, got %v", wrongTier)
	}
	if wrongTier[0].Subject != "REQ-SW-002" || wrongTier[1].Subject != "REQ-SW-003" {
		t.Fatalf("unexpected subjects: %+v", wrongTier)
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	report := Validate(
		highLevel(
			req("REQ-001", "First", requirement.StatusDraft, ""),
			req("REQ-001", "Second", requirement.StatusDraft, ""),
			req("REQ-001", "Third", requirement.StatusDraft, ""),
		),
		software(req("REQ-SW-001", "Covered", requirement.StatusDraft, "REQ-001")),
	)
	dups := findingsOfKind(report, KindDuplicateID)
	if len(dups) != 2 {
		t.Fatalf("three duplicates must yield two errors, got %v", dups)
	}
	for _, f := range dups {
		if f.Subject != "REQ-001" {
			t.Fatalf("duplicate finding must name the id: %+v", f)
		}
		if !strings.Contains(f.Message, "high-level") {
			t.Fatalf("duplicate finding must name the tier: %s", f.Message)
		}
	}
	if report.Valid() {
		t.Fatal("duplicates are errors, report must be invalid")
	}
}

func TestValidateMisplacedRefinesIsWarning(t *testing.T) {
	report := Validate(
		highLevel(req("REQ-001", "Setup", requirement.StatusDraft, "REQ-000")),
		software(req("REQ-SW-001", "Covered", requirement.StatusDraft, "REQ-001")),
	)
	if !report.Valid() {
		t.Fatalf("misplaced refines must not block the build: %v", report.Errors())
	}
	misplaced := findingsOfKind(report, KindMisplacedRefines)
	if len(misplaced) != 1 || misplaced[0].Severity != SeverityWarning {
		t.Fatalf("expected one misplaced-refines warning, got %v", misplaced)
	}
}

func TestValidateUncoveredHighLevel(t *testing.T) {
	report := Validate(
		highLevel(
			req("REQ-001", "Covered", requirement.StatusDraft, ""),
			req("REQ-002", "Uncovered", requirement.StatusDraft, ""),
		),
		software(req("REQ-SW-001", "Covers", requirement.StatusDraft, "REQ-001")),
	)
	uncovered := findingsOfKind(report, KindUncovered)
	if len(uncovered) != 1 || uncovered[0].Subject != "REQ-002" {
		t.Fatalf("expected REQ-002 flagged uncovered, got %v", uncovered)
	}
	if uncovered[0].Severity != SeverityWarning {
		t.Fatalf("uncovered is advisory, got %s", uncovered[0].Severity)
	}
}

func TestValidateUnknownStatusIsWarning(t *testing.T) {
	report := Validate(
		highLevel(req("REQ-001", "Setup", "Done", "")),
		software(req("REQ-SW-001", "Covers", requirement.StatusDraft, "REQ-001")),
	)
	if !report.Valid() {
		t.Fatalf("unknown status must not block the build: %v", report.Errors())
	}
	unknown := findingsOfKind(report, KindUnknownStatus)
	if len(unknown) != 1 || unknown[0].Subject != "REQ-001" {
		t.Fatalf("expected one unknown-status warning for REQ-001, got %v", unknown)
	}
	if !strings.Contains(unknown[0].Message, "Done") {
		t.Fatalf("warning should echo the value: %s", unknown[0].Message)
	}
}

func TestValidateDeterministicOrder(t *testing.T) {
	high := highLevel(
		req("REQ-001", "A", requirement.StatusDraft, ""),
		req("REQ-002", "B", "Odd", ""),
	)
	soft := software(
		req("REQ-SW-001", "C", requirement.StatusDraft, "REQ-404"),
		req("REQ-SW-002", "D", requirement.StatusDraft, ""),
	)
	first := Validate(high, soft)
	second := Validate(high, soft)
	if len(first.Findings) != len(second.Findings) {
		t.Fatalf("finding counts differ: %d vs %d", len(first.Findings), len(second.Findings))
	}
	for i := range first.Findings {
		if first.Findings[i] != second.Findings[i] {
			t.Fatalf("finding %d differs between runs: %+v vs %+v", i, first.Findings[i], second.Findings[i])
		}
	}
}
