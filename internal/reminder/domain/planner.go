package domain

import "time"

// PlannedReminder is one slot the planner derived from a policy code.
type PlannedReminder struct {
	Kind        Kind
	TriggerDate time.Time
}

// Plan computes the automatic reminder slots for a due date and policy.
// Trigger dates are truncated to UTC midnight. Unknown policy tokens are
// skipped and duplicate codes collapse to a single slot, so the result is a
// set keyed by kind. An empty policy plans nothing; that is the explicit
// "no reminders" state, not an error. Pure and deterministic.
func Plan(dueDate time.Time, policy []string) []PlannedReminder {
	if len(policy) == 0 {
		return nil
	}

	due := midnight(dueDate)
	seen := make(map[Kind]struct{}, len(policy))
	planned := make([]PlannedReminder, 0, len(policy))

	for _, raw := range policy {
		code, ok := ParseRepetitionCode(raw)
		if !ok {
			continue
		}
		kind := code.Kind()
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		planned = append(planned, PlannedReminder{
			Kind:        kind,
			TriggerDate: due.AddDate(0, 0, offsetDays(kind)),
		})
	}

	return planned
}

func offsetDays(kind Kind) int {
	switch kind {
	case KindMinus3:
		return -3
	case KindPlus7:
		return 7
	case KindPlus10:
		return 10
	case KindPlus15:
		return 15
	default:
		return 0
	}
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
