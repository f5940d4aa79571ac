package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetDispatchMetricsForTest_AllowsReregistration(t *testing.T) {
	ResetDispatchMetricsForTest()

	first := Dispatch()
	require.NotNil(t, first)
	first.IncReminderOutcome(DispatchOutcomeSent)
	first.IncJobRun("dispatch_reminders")

	// A second build cycle must not trip duplicate registration in the
	// default registry.
	ResetDispatchMetricsForTest()
	second := Dispatch()
	require.NotNil(t, second)
	second.IncReminderOutcome(DispatchOutcomeSkipped)
	second.IncJobRun("refresh_overdue")

	assert.NotSame(t, first, second)

	ResetDispatchMetricsForTest()
}
