package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"

	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/pkg/genai"
)

// Gemini judges payment screenshots with the shared vision model client.
type Gemini struct {
	client *genai.Client
}

type GeminiParams struct {
	fx.In
	Client *genai.Client
}

func NewGemini(p GeminiParams) Verifier {
	return &Gemini{client: p.Client}
}

func (g *Gemini) Verify(ctx context.Context, in Input) (Result, error) {
	parts := []genai.Part{
		{Text: g.prompt(in)},
		{Blob: &genai.Blob{MimeType: in.MimeType, Data: in.Screenshot}},
	}

	// A verifier that cannot answer is never an implicit pass, and it is
	// not an inventory outage either. Every failure wears the same
	// not-verified shape as a rejected verdict, so the buyer knows to
	// resubmit rather than wait out a backoff.
	var out Result
	if err := g.client.GenerateJSON(ctx, parts, &out); err != nil {
		if errors.Is(err, genai.ErrTimeout) {
			return Result{}, errutil.Unprocessable("verification timed out")
		}
		return Result{}, errutil.Unprocessable("verification service error", errutil.WithErr(err))
	}
	return out, nil
}

func (g *Gemini) prompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are an expert payment verification agent. Analyze the attached payment screenshot and verify its authenticity against the details below.\n\n")
	b.WriteString("Verification checklist:\n")
	fmt.Fprintf(&b, "1. Amount Match: the payment amount in the screenshot must exactly match the expected price of %d %s for the %q plan of %q.\n", in.Amount, in.Currency, in.Plan, in.Mod)
	fmt.Fprintf(&b, "2. UPI ID Match: the recipient's UPI ID in the screenshot must be '%s'.\n", in.UpiID)
	fmt.Fprintf(&b, "3. UTR Match: the UTR, UPI reference number, or transaction ID in the screenshot must exactly match '%s'.\n", in.UTR)
	b.WriteString("4. Screenshot Authenticity: the screenshot must look like a genuine, unaltered capture from a payment app. Check for inconsistent fonts, colors, or signs of editing.\n\n")
	b.WriteString("Respond with a JSON object with exactly two fields: \"verified\" (boolean, true only if every check passes) and \"reason\" (string, empty when verified; otherwise a concise statement of which check failed). Do not be conversational.")
	return b.String()
}
