package schema

// Custom string types for type safety.
type (
	// Category represents a subscale tag declared by an instrument definition.
	Category string

	// Polarity represents what a high score on an instrument means.
	Polarity string

	// Direction represents the sign of a change between two administrations.
	Direction string

	// RiskLevel represents the coarse risk bucket for a latest score.
	RiskLevel string

	// Trajectory represents the overall direction of a wellness insight.
	Trajectory string

	// AnswerPolicy represents how malformed or out-of-range answers are handled.
	AnswerPolicy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history storage.
	DatabaseBackend string
)

// All polarities supported.
const (
	DistressPolarity  Polarity = "distress" // default; higher is worse
	WellbeingPolarity Polarity = "wellbeing"
)

// All directions supported.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionSame Direction = "same"
)

// All risk levels supported.
const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// All trajectories supported.
const (
	TrajectoryImproving Trajectory = "improving"
	TrajectoryDeclining Trajectory = "declining"
	TrajectoryStable    Trajectory = "stable"
)

// All answer policies supported.
const (
	ClampPolicy  AnswerPolicy = "clamp" // default
	RejectPolicy AnswerPolicy = "reject"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Default risk thresholds applied to the distress-oriented normalized score.
const (
	DefaultRiskHigh     = 70.0
	DefaultRiskModerate = 40.0
)

// DefaultCategoryTemplate is used when a definition does not declare one.
const DefaultCategoryTemplate = "{category} symptoms show {level} activation"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidAnswerPolicies lists all valid answer policies.
var ValidAnswerPolicies = map[AnswerPolicy]struct{}{
	ClampPolicy:  {},
	RejectPolicy: {},
}

// ValidPolarities lists all valid polarities.
var ValidPolarities = map[Polarity]struct{}{
	DistressPolarity:  {},
	WellbeingPolarity: {},
}

// riskOrder ranks risk levels for sorting, highest first.
var riskOrder = map[RiskLevel]int{
	RiskHigh:     0,
	RiskModerate: 1,
	RiskLow:      2,
}

// RiskRank returns a sortable rank for the risk level (0 is most severe).
func RiskRank(r RiskLevel) int {
	if v, ok := riskOrder[r]; ok {
		return v
	}
	return len(riskOrder)
}

// DefaultCategoryBands returns the percentage bands used for subscales when a
// definition does not declare its own.
func DefaultCategoryBands() []Band {
	return []Band{
		{Max: Float(20), Label: "minimal"},
		{Max: Float(40), Label: "mild"},
		{Max: Float(60), Label: "moderate"},
		{Max: Float(80), Label: "high"},
		{Label: "very high"},
	}
}
