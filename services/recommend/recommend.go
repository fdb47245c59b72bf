package recommend

import "context"

// PlanQuery describes the buyer's usage so the model can pick a plan tier.
type PlanQuery struct {
	Habits      string `json:"habits"`
	Preferences string `json:"preferences"`
}

// PlanAdvice is the model's pick, always one of the catalog plans.
type PlanAdvice struct {
	RecommendedPlan string `json:"recommendedPlan"`
	Reasoning       string `json:"reasoning"`
}

// ModQuery describes what the buyer is looking for in a mod.
type ModQuery struct {
	Requirements string `json:"requirements"`
}

// ModAdvice is the model's pick, always one of the mods open for sale.
type ModAdvice struct {
	RecommendedMod string `json:"recommendedMod"`
	Reasoning      string `json:"reasoning"`
}

// Recommender suggests a plan or a mod from the catalog. Implementations
// never invent products: advice outside the catalog is an error, not a
// recommendation.
type Recommender interface {
	RecommendPlan(ctx context.Context, q PlanQuery) (PlanAdvice, error)
	RecommendMod(ctx context.Context, q ModQuery) (ModAdvice, error)
}
