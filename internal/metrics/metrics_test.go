package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveScan(t *testing.T) {
	completed := testutil.ToFloat64(ScansTotal.WithLabelValues(OutcomeCompleted))
	failed := testutil.ToFloat64(ScansTotal.WithLabelValues(OutcomeLaunchFailed))
	exit1 := testutil.ToFloat64(ExitCodes.WithLabelValues("1"))

	ObserveScan(OutcomeCompleted, 1, 2*time.Second)
	ObserveScan(OutcomeLaunchFailed, -1, 0)

	assert.Equal(t, completed+1, testutil.ToFloat64(ScansTotal.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, failed+1, testutil.ToFloat64(ScansTotal.WithLabelValues(OutcomeLaunchFailed)))
	assert.Equal(t, exit1+1, testutil.ToFloat64(ExitCodes.WithLabelValues("1")))
	assert.Zero(t, testutil.ToFloat64(ExitCodes.WithLabelValues("-1")))
}
