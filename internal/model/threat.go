package model

// FindingWeight is the score contribution of a single finding.
const FindingWeight = 5

// MaxRiskScore is the upper bound of ScanReport.RiskScore.
const MaxRiskScore = 100

// Threat tier thresholds. They are compared against the pre-clamp weighted
// total with a strict greater-than, not against the clamped risk score.
// A total of exactly 75 is HIGH; 76 is CRITICAL.
const (
	ThresholdCritical = 75
	ThresholdHigh     = 40
	ThresholdMedium   = 20
)

// ThreatLevel is the discrete risk classification of a scanned target.
type ThreatLevel int

const (
	// ThreatLow indicates a weighted finding total of 20 or less.
	ThreatLow ThreatLevel = iota

	// ThreatMedium indicates a weighted finding total above 20.
	ThreatMedium

	// ThreatHigh indicates a weighted finding total above 40.
	ThreatHigh

	// ThreatCritical indicates a weighted finding total above 75.
	ThreatCritical
)

// ThreatLevelFromTotal classifies a pre-clamp weighted finding total.
func ThreatLevelFromTotal(total int) ThreatLevel {
	switch {
	case total > ThresholdCritical:
		return ThreatCritical
	case total > ThresholdHigh:
		return ThreatHigh
	case total > ThresholdMedium:
		return ThreatMedium
	default:
		return ThreatLow
	}
}

// String returns the uppercase tier name.
func (t ThreatLevel) String() string {
	switch t {
	case ThreatLow:
		return "LOW"
	case ThreatMedium:
		return "MEDIUM"
	case ThreatHigh:
		return "HIGH"
	case ThreatCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the tier as its uppercase name.
func (t ThreatLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a tier from its uppercase name.
// Unrecognized names decode to ThreatLow rather than failing, so reports
// produced by newer versions remain readable.
func (t *ThreatLevel) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"CRITICAL"`:
		*t = ThreatCritical
	case `"HIGH"`:
		*t = ThreatHigh
	case `"MEDIUM"`:
		*t = ThreatMedium
	default:
		*t = ThreatLow
	}
	return nil
}
