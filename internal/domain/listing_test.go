package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics(t *testing.T) {
	applicants, quota := 200, 10

	l := Listing{Applicants: &applicants, Quota: &quota}
	l.ComputeMetrics()
	require.NotNil(t, l.AcceptanceRate)
	require.NotNil(t, l.DemandRatio)
	assert.InDelta(t, 0.05, *l.AcceptanceRate, 1e-9)
	assert.InDelta(t, 20.0, *l.DemandRatio, 1e-9)
}

func TestComputeMetricsMissingDenominators(t *testing.T) {
	quota := 5
	l := Listing{Quota: &quota} // no applicants
	l.ComputeMetrics()
	assert.Nil(t, l.AcceptanceRate)
	require.NotNil(t, l.DemandRatio)
	assert.InDelta(t, 0.0, *l.DemandRatio, 1e-9)

	applicants := 7
	l = Listing{Applicants: &applicants} // no quota
	l.ComputeMetrics()
	require.NotNil(t, l.AcceptanceRate)
	assert.InDelta(t, 0.0, *l.AcceptanceRate, 1e-9)
	assert.Nil(t, l.DemandRatio)

	l = Listing{}
	l.ComputeMetrics()
	assert.Nil(t, l.AcceptanceRate)
	assert.Nil(t, l.DemandRatio)
}

func TestComputeMetricsNotClamped(t *testing.T) {
	applicants, quota := 2, 10 // more seats than applicants
	l := Listing{Applicants: &applicants, Quota: &quota}
	l.ComputeMetrics()
	require.NotNil(t, l.AcceptanceRate)
	assert.InDelta(t, 5.0, *l.AcceptanceRate, 1e-9)
}

func TestComputeMetricsResetsStaleValues(t *testing.T) {
	stale := 0.5
	l := Listing{AcceptanceRate: &stale, DemandRatio: &stale}
	l.ComputeMetrics()
	assert.Nil(t, l.AcceptanceRate)
	assert.Nil(t, l.DemandRatio)
}
