package enums

// PerformanceTier buckets a creative by its return on ad spend.
type PerformanceTier string

const (
	PerformanceTierHigh   PerformanceTier = "high"
	PerformanceTierMedium PerformanceTier = "medium"
	PerformanceTierLow    PerformanceTier = "low"
)

// Momentum classifies the week-over-week trajectory of a platform.
type Momentum string

const (
	MomentumAccelerating Momentum = "accelerating"
	MomentumStable       Momentum = "stable"
	MomentumDeclining    Momentum = "declining"
)

// PlatformRelationship classifies how two platforms' daily profits co-move.
type PlatformRelationship string

const (
	RelationshipSynergistic   PlatformRelationship = "synergistic"
	RelationshipIndependent   PlatformRelationship = "independent"
	RelationshipCannibalistic PlatformRelationship = "cannibalistic"
)

// DataAvailabilityTier grades how much history backs an analysis.
type DataAvailabilityTier string

const (
	AvailabilityComprehensive DataAvailabilityTier = "comprehensive"
	AvailabilityModerate      DataAvailabilityTier = "moderate"
	AvailabilityBasic         DataAvailabilityTier = "basic"
	AvailabilityMinimal       DataAvailabilityTier = "minimal"
)

// SuggestionKind labels the action category of a cross-platform suggestion.
type SuggestionKind string

const (
	SuggestionBudgetReallocation SuggestionKind = "budget_reallocation"
	SuggestionTimeOfDay          SuggestionKind = "time_of_day"
	SuggestionDayOfWeek          SuggestionKind = "day_of_week"
	SuggestionTrendAlert         SuggestionKind = "trend_alert"
	SuggestionDiminishingReturns SuggestionKind = "diminishing_returns"
)
