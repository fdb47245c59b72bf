package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"

	"modkeys-storefront/pkg/config"
	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/pkg/genai"
	"modkeys-storefront/services/catalog"
)

// Gemini asks the shared text model to pick from the live catalog, so the
// prompt never drifts from the plans and mods actually on sale.
type Gemini struct {
	client   *genai.Client
	cat      *catalog.Catalog
	currency string
}

type GeminiParams struct {
	fx.In
	Client  *genai.Client
	Catalog *catalog.Catalog
	Config  *config.Config
}

func NewGemini(p GeminiParams) Recommender {
	return &Gemini{
		client:   p.Client,
		cat:      p.Catalog,
		currency: p.Config.Payment.Currency,
	}
}

func (g *Gemini) RecommendPlan(ctx context.Context, q PlanQuery) (PlanAdvice, error) {
	q.Habits = strings.TrimSpace(q.Habits)
	q.Preferences = strings.TrimSpace(q.Preferences)
	if q.Habits == "" {
		return PlanAdvice{}, errutil.ValidationFailed("a description of your usage habits is required")
	}
	if q.Preferences == "" {
		return PlanAdvice{}, errutil.ValidationFailed("your plan preferences are required")
	}

	var out PlanAdvice
	if err := g.client.GenerateJSON(ctx, []genai.Part{{Text: g.planPrompt(q)}}, &out); err != nil {
		return PlanAdvice{}, mapModelErr(err)
	}
	if _, ok := g.cat.PlanByDuration(out.RecommendedPlan); !ok {
		return PlanAdvice{}, errutil.Unavailable(
			fmt.Sprintf("recommendation service returned unknown plan %q", out.RecommendedPlan))
	}
	return out, nil
}

func (g *Gemini) RecommendMod(ctx context.Context, q ModQuery) (ModAdvice, error) {
	q.Requirements = strings.TrimSpace(q.Requirements)
	if q.Requirements == "" {
		return ModAdvice{}, errutil.ValidationFailed("a description of what you are looking for is required")
	}

	var out ModAdvice
	if err := g.client.GenerateJSON(ctx, []genai.Part{{Text: g.modPrompt(q)}}, &out); err != nil {
		return ModAdvice{}, mapModelErr(err)
	}
	mod, ok := g.cat.ModByName(out.RecommendedMod)
	if !ok || mod.Status != catalog.ModAvailable {
		return ModAdvice{}, errutil.Unavailable(
			fmt.Sprintf("recommendation service returned unknown mod %q", out.RecommendedMod))
	}
	return out, nil
}

func mapModelErr(err error) error {
	if errors.Is(err, genai.ErrTimeout) {
		return errutil.Timeout("recommendation timed out")
	}
	return errutil.Unavailable("recommendation service error", errutil.WithErr(err))
}

func (g *Gemini) planPrompt(q PlanQuery) string {
	var b strings.Builder
	b.WriteString("You are a subscription plan recommendation expert.\n\n")
	b.WriteString("Based on the user's usage habits and preferences, recommend the most suitable plan.\n\n")
	b.WriteString("Consider the following plans:\n")
	for _, p := range g.cat.Plans() {
		fmt.Fprintf(&b, "- %s for %d %s\n", p.Duration, p.Price, g.currency)
	}
	fmt.Fprintf(&b, "\nUsage Habits: %s\nPreferences: %s\n\n", q.Habits, q.Preferences)
	b.WriteString("Respond with a JSON object with exactly two fields: \"recommendedPlan\" (string, the plan name exactly as listed above) and \"reasoning\" (string, why that plan suits the user). Do not be conversational.")
	return b.String()
}

func (g *Gemini) modPrompt(q ModQuery) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for a website that sells game mods. Your task is to recommend the best mod to a user based on their needs.\n\n")
	b.WriteString("Here are the available mods and their descriptions:\n")
	for _, m := range g.cat.Mods() {
		if m.Status != catalog.ModAvailable {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", m.Name, m.Description)
	}
	fmt.Fprintf(&b, "\nUser Requirements: %s\n\n", q.Requirements)
	b.WriteString("Recommend ONE of the mods from the list above. Respond with a JSON object with exactly two fields: \"recommendedMod\" (string, the mod name exactly as listed above) and \"reasoning\" (string, a clear reason for your recommendation). Do not be conversational.")
	return b.String()
}
