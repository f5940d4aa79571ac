package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlan_SchedulesEveryPolicyEntry(t *testing.T) {
	due := date(2025, time.June, 10)

	planned := Plan(due, []string{"3", "7", "Only on Due date"})
	require.Len(t, planned, 3)

	byKind := map[Kind]time.Time{}
	for _, slot := range planned {
		byKind[slot.Kind] = slot.TriggerDate
	}

	assert.Equal(t, date(2025, time.June, 7), byKind[KindMinus3])
	assert.Equal(t, date(2025, time.June, 17), byKind[KindPlus7])
	assert.Equal(t, date(2025, time.June, 10), byKind[KindOnDue])
}

func TestPlan_LatePolicies(t *testing.T) {
	due := date(2025, time.January, 31)

	planned := Plan(due, []string{"10", "15"})
	require.Len(t, planned, 2)

	byKind := map[Kind]time.Time{}
	for _, slot := range planned {
		byKind[slot.Kind] = slot.TriggerDate
	}

	// AddDate carries over the month boundary.
	assert.Equal(t, date(2025, time.February, 10), byKind[KindPlus10])
	assert.Equal(t, date(2025, time.February, 15), byKind[KindPlus15])
}

func TestPlan_Deterministic(t *testing.T) {
	due := date(2025, time.March, 3)
	policy := []string{"15", "3", "Only on Due date", "7", "10"}

	first := Plan(due, policy)
	second := Plan(due, policy)

	assert.Equal(t, first, second)
}

func TestPlan_DeduplicatesRepeatedCodes(t *testing.T) {
	planned := Plan(date(2025, time.June, 10), []string{"3", "3", "3"})
	require.Len(t, planned, 1)
	assert.Equal(t, KindMinus3, planned[0].Kind)
}

func TestPlan_SkipsUnknownCodes(t *testing.T) {
	planned := Plan(date(2025, time.June, 10), []string{"banana", "3", "99"})
	require.Len(t, planned, 1)
	assert.Equal(t, KindMinus3, planned[0].Kind)
}

func TestPlan_EmptyPolicy(t *testing.T) {
	assert.Empty(t, Plan(date(2025, time.June, 10), nil))
	assert.Empty(t, Plan(date(2025, time.June, 10), []string{}))
}

func TestPlan_TruncatesDueDateToMidnight(t *testing.T) {
	due := time.Date(2025, time.June, 10, 17, 45, 12, 0, time.UTC)

	planned := Plan(due, []string{"Only on Due date"})
	require.Len(t, planned, 1)
	assert.Equal(t, date(2025, time.June, 10), planned[0].TriggerDate)
}

func TestParseRepetitionCode(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
		ok   bool
	}{
		{"3", KindMinus3, true},
		{"7", KindPlus7, true},
		{"10", KindPlus10, true},
		{"15", KindPlus15, true},
		{"Only on Due date", KindOnDue, true},
		{"", "", false},
		{"30", "", false},
		{"only on due date", "", false},
	}

	for _, tc := range cases {
		code, ok := ParseRepetitionCode(tc.raw)
		assert.Equal(t, tc.ok, ok, "code %q", tc.raw)
		if ok {
			assert.Equal(t, tc.kind, code.Kind(), "code %q", tc.raw)
		}
	}
}

func TestKind_IsAutomatic(t *testing.T) {
	for _, kind := range []Kind{KindMinus3, KindOnDue, KindPlus7, KindPlus10, KindPlus15} {
		assert.True(t, kind.IsAutomatic(), "kind %s", kind)
	}
	assert.False(t, KindManual.IsAutomatic())
	assert.False(t, KindAutomated.IsAutomatic())
}
