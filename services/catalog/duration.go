package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type PlanUnit string

const (
	UnitDay   PlanUnit = "day"
	UnitMonth PlanUnit = "month"
)

// UnrecognizedPlanUnitError reports a plan label whose unit token is neither
// a day nor a month variant. Claimed keys must never silently become
// non-expiring, so callers have to handle this explicitly.
type UnrecognizedPlanUnitError struct {
	Plan string
}

func (e *UnrecognizedPlanUnitError) Error() string {
	return fmt.Sprintf("unrecognized plan unit in %q", e.Plan)
}

// PlanDuration is the parsed form of a plan label such as "3 Day" or
// "2 Month".
type PlanDuration struct {
	Amount int
	Unit   PlanUnit
}

// ParsePlanDuration splits the label on the first space into an integer
// amount and a unit token. The unit matches case-insensitively on the
// substrings "day" and "month".
func ParsePlanDuration(plan string) (PlanDuration, error) {
	parts := strings.SplitN(strings.TrimSpace(plan), " ", 2)
	if len(parts) != 2 {
		return PlanDuration{}, &UnrecognizedPlanUnitError{Plan: plan}
	}

	amount, err := strconv.Atoi(parts[0])
	if err != nil || amount <= 0 {
		return PlanDuration{}, &UnrecognizedPlanUnitError{Plan: plan}
	}

	unit := strings.ToLower(parts[1])
	switch {
	case strings.Contains(unit, "day"):
		return PlanDuration{Amount: amount, Unit: UnitDay}, nil
	case strings.Contains(unit, "month"):
		return PlanDuration{Amount: amount, Unit: UnitMonth}, nil
	default:
		return PlanDuration{}, &UnrecognizedPlanUnitError{Plan: plan}
	}
}

// AddTo advances t by the parsed duration using calendar arithmetic.
func (d PlanDuration) AddTo(t time.Time) time.Time {
	switch d.Unit {
	case UnitMonth:
		return t.AddDate(0, d.Amount, 0)
	default:
		return t.AddDate(0, 0, d.Amount)
	}
}
