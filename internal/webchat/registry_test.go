package webchat

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/observability/metrics"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

func TestRegistryCreateGetDelete(t *testing.T) {
	reg := NewRegistry(&mockAnalyzer{}, RegistryOptions{DefaultLanguage: i18n.HI, Logger: logging.New("error")})

	m := reg.Create(nil)
	assert.Equal(t, i18n.HI, m.Snapshot().Language)

	en := i18n.EN
	other := reg.Create(&en)
	assert.Equal(t, i18n.EN, other.Snapshot().Language)
	assert.NotEqual(t, m.ID(), other.ID())

	got, ok := reg.Get(m.ID())
	require.True(t, ok)
	assert.Same(t, m, got)

	assert.True(t, reg.Delete(m.ID()))
	assert.False(t, reg.Delete(m.ID()))
	_, ok = reg.Get(m.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	reg := NewRegistry(&mockAnalyzer{}, RegistryOptions{IdleTTL: 20 * time.Millisecond, Logger: logging.New("error")})
	m := reg.Create(nil)

	time.Sleep(40 * time.Millisecond)
	_, ok := reg.Get(m.ID())
	assert.False(t, ok)
}

func TestRegistryTracksActiveSessions(t *testing.T) {
	promReg := prometheus.NewRegistry()
	sm := metrics.NewSessionMetrics(promReg)
	reg := NewRegistry(&mockAnalyzer{}, RegistryOptions{Logger: logging.New("error"), Metrics: sm})

	a := reg.Create(nil)
	reg.Create(nil)
	reg.Delete(a.ID())

	families, err := promReg.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "legals_session_active" {
			found = true
			assert.Equal(t, float64(1), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found)
}

func TestRegistryTouchResetsIdleTimer(t *testing.T) {
	reg := NewRegistry(&mockAnalyzer{}, RegistryOptions{IdleTTL: 60 * time.Millisecond, Logger: logging.New("error")})
	m := reg.Create(nil)

	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		require.True(t, reg.Touch(m.ID()))
	}

	time.Sleep(100 * time.Millisecond)
	assert.False(t, reg.Touch(m.ID()))
	assert.False(t, reg.Touch("missing"))
}
