// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the node's Prometheus collector set (grounded on
// api/metrics/metrics.go's Registerer/NewMetrics pattern, generalized from
// consensus poll counters to Aura's ceremony/guard/sync counters).
type Metrics struct {
	registry prometheus.Registerer

	CeremoniesStarted   prometheus.Counter
	CeremoniesCompleted prometheus.Counter
	CeremoniesAborted   prometheus.Counter

	GuardAllowed prometheus.Counter
	GuardDenied  prometheus.Counter

	FlowBudgetSpent    prometheus.Counter
	LeakageBudgetSpent prometheus.Counter

	SyncRounds    prometheus.Counter
	SyncOpsPushed prometheus.Counter
	SyncOpsPulled prometheus.Counter

	AMPEncrypted prometheus.Counter
	AMPDecrypted prometheus.Counter
	AMPRejected  prometheus.Counter
}

// NewMetrics constructs and registers the full collector set under
// namespace against reg. A caller that wants bare collectors without
// registration should pass prometheus.NewRegistry() and discard it.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		registry:            reg,
		CeremoniesStarted:   counter(namespace, "ceremonies_started_total", "Threshold ceremonies started"),
		CeremoniesCompleted: counter(namespace, "ceremonies_completed_total", "Threshold ceremonies completed"),
		CeremoniesAborted:   counter(namespace, "ceremonies_aborted_total", "Threshold ceremonies aborted"),
		GuardAllowed:        counter(namespace, "guard_allowed_total", "Guard chain decisions that allowed the effect"),
		GuardDenied:         counter(namespace, "guard_denied_total", "Guard chain decisions that denied the effect"),
		FlowBudgetSpent:     counter(namespace, "flow_budget_spent_total", "Flow budget units spent"),
		LeakageBudgetSpent:  counter(namespace, "leakage_budget_spent_total", "Leakage budget units spent"),
		SyncRounds:          counter(namespace, "sync_rounds_total", "Anti-entropy reconciliation rounds run"),
		SyncOpsPushed:       counter(namespace, "sync_ops_pushed_total", "Ops pushed during anti-entropy"),
		SyncOpsPulled:       counter(namespace, "sync_ops_pulled_total", "Ops pulled during anti-entropy"),
		AMPEncrypted:        counter(namespace, "amp_encrypted_total", "AMP messages encrypted"),
		AMPDecrypted:        counter(namespace, "amp_decrypted_total", "AMP messages decrypted"),
		AMPRejected:         counter(namespace, "amp_rejected_total", "AMP messages rejected"),
	}

	for _, c := range []prometheus.Collector{
		m.CeremoniesStarted, m.CeremoniesCompleted, m.CeremoniesAborted,
		m.GuardAllowed, m.GuardDenied,
		m.FlowBudgetSpent, m.LeakageBudgetSpent,
		m.SyncRounds, m.SyncOpsPushed, m.SyncOpsPulled,
		m.AMPEncrypted, m.AMPDecrypted, m.AMPRejected,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func counter(namespace, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}
