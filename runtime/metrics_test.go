// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("auratest", reg)
	require.NoError(t, err)

	m.GuardAllowed.Inc()
	m.SyncOpsPushed.Add(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	require.Contains(t, byName, "auratest_guard_allowed_total")
	require.Contains(t, byName, "auratest_sync_ops_pushed_total")
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics("dup", reg)
	require.NoError(t, err)
	_, err = NewMetrics("dup", reg)
	require.Error(t, err)
}
