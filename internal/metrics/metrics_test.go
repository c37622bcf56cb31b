package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.Hit()
	c.Hit()
	c.Miss()
	c.Evicted(3)
	c.Evicted(0)
	c.SetEntries(7)
	c.ObserveParse("go", time.Now())
	c.ObserveQuery("get_symbols", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheMisses))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.CacheEvictions))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.CacheEntries))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ParseDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(c.QueryDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "codenav_cache_hits_total")
	assert.Contains(t, names, "codenav_parse_seconds")
}

func TestCollectors_Nil(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.Hit()
		c.Miss()
		c.Evicted(1)
		c.SetEntries(1)
		c.ObserveParse("go", time.Now())
		c.ObserveQuery("x", time.Now())
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
