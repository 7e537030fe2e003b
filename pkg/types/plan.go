package types

// Plan is the user's subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)
