package trace

import (
	"docsmith/internal/requirement"
)

// Validate builds the reference graph between the two requirement
// collections and reports every violation. It never stops at the first
// problem: one run surfaces the complete set.
//
// The refines relation is a two-level forest by construction (only
// software -> high-level edges are legal), but malformed input can still
// point a software requirement at another software requirement or at
// itself, so tier confusion is checked explicitly.
func Validate(highLevel, software requirement.Collection) Report {
	var report Report

	reportDuplicates(&report, highLevel)
	reportDuplicates(&report, software)

	highIDs := highLevel.IDSet()
	softwareIDs := software.IDSet()

	for _, req := range software.Items {
		switch {
		case req.Refines == "":
			report.add(SeverityError, KindMissingRefines, req.ID,
				"software requirement has no refines field; every software requirement must refine a high-level requirement")
		case contains(highIDs, req.Refines):
			// resolves; nothing to report
		case contains(softwareIDs, req.Refines):
			report.add(SeverityError, KindRefinesWrongTier, req.ID,
				"refines %q points at a software requirement; it must reference a high-level requirement", req.Refines)
		default:
			report.add(SeverityError, KindDanglingRefines, req.ID,
				"refines %q does not match any high-level requirement", req.Refines)
		}
	}

	for _, req := range highLevel.Items {
		if req.Refines != "" {
			report.add(SeverityWarning, KindMisplacedRefines, req.ID,
				"high-level requirement carries refines %q; the field belongs on software requirements only", req.Refines)
		}
	}

	covered := make(map[string]struct{}, len(software.Items))
	for _, req := range software.Items {
		if req.Refines != "" {
			covered[req.Refines] = struct{}{}
		}
	}
	for _, req := range highLevel.Items {
		if _, ok := covered[req.ID]; !ok {
			report.add(SeverityWarning, KindUncovered, req.ID,
				"no software requirement refines this high-level requirement")
		}
	}

	reportStatusAndShape(&report, highLevel)
	reportStatusAndShape(&report, software)

	return report
}

// reportDuplicates flags every repeated id after its first occurrence, so
// N duplicates produce N-1 errors rather than being silently collapsed.
func reportDuplicates(report *Report, col requirement.Collection) {
	seen := make(map[string]struct{}, len(col.Items))
	for _, req := range col.Items {
		if _, ok := seen[req.ID]; ok {
			report.add(SeverityError, KindDuplicateID, req.ID,
				"duplicate id in %s", col.Tier.Label())
			continue
		}
		seen[req.ID] = struct{}{}
	}
}

func reportStatusAndShape(report *Report, col requirement.Collection) {
	for _, req := range col.Items {
		if !requirement.KnownStatus(req.Status) {
			report.add(SeverityWarning, KindUnknownStatus, req.ID,
				"status %q is not one of Draft, In Progress, In Review, Finished", req.Status)
		}
		if !req.WellFormedID() {
			report.add(SeverityWarning, KindMalformedID, req.ID,
				"id %q does not follow the <PREFIX>-<digits> convention", req.ID)
		}
	}
}

func contains(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}
