package scanner

import "github.com/darkvigil/darkvigil/internal/model"

// applyRisk folds all findings into the report's score and threat tier.
// The tier thresholds compare the pre-clamp weighted total, so a target
// whose findings overflow the score cap still classifies correctly.
func applyRisk(report *model.ScanReport) {
	total := report.TotalFindings() * model.FindingWeight

	report.RiskScore = min(total, model.MaxRiskScore)
	report.ThreatLevel = model.ThreatLevelFromTotal(total)
}
