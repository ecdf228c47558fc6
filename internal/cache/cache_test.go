package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := Open(filepath.Join(dir, "cache.json"))

	c.PutCompany("Acme Corp", map[string]string{"industry": "manufacturing"})

	raw, ok := c.GetCompany("Acme Corp")
	require.True(t, ok)

	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "manufacturing", got["industry"])

	// Lookup is case and whitespace insensitive.
	_, ok = c.GetCompany("  acme corp ")
	assert.True(t, ok)
}

func TestPersistenceAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := Open(path)
	c.PutBenchmark("Healthcare", "1B_plus", map[string]float64{"adoption": 0.62})

	reopened := Open(path)
	raw, ok := reopened.GetBenchmark("Healthcare", "1B_plus")
	require.True(t, ok)

	var got map[string]float64
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.InDelta(t, 0.62, got["adoption"], 1e-9)
}

func TestCompanyEntryExpires(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	c := Open(filepath.Join(t.TempDir(), "cache.json"), withClock(clock))
	c.PutCompany("Globex", map[string]string{"industry": "energy"})

	// Six days later the entry is still fresh against the 7-day TTL.
	now = now.Add(6 * 24 * time.Hour)
	_, ok := c.GetCompany("Globex")
	assert.True(t, ok)

	// Eight days after the write it is expired.
	now = now.Add(2 * 24 * time.Hour)
	_, ok = c.GetCompany("Globex")
	assert.False(t, ok)
}

func TestBenchmarkTTLIsLonger(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	c := Open(filepath.Join(t.TempDir(), "cache.json"), withClock(clock))
	c.PutBenchmark("retail", "100M_500M", map[string]int{"n": 1})

	now = now.Add(60 * 24 * time.Hour)
	_, ok := c.GetBenchmark("retail", "100M_500M")
	assert.True(t, ok)

	now = now.Add(40 * 24 * time.Hour)
	_, ok = c.GetBenchmark("retail", "100M_500M")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(time.Now().Add(-24*time.Hour).Format(time.RFC3339), 7))
	assert.False(t, IsValid(time.Now().Add(-8*24*time.Hour).Format(time.RFC3339), 7))
	assert.False(t, IsValid("not-a-timestamp", 7))
	assert.False(t, IsValid("", 7))
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := Open(path)
	_, ok := c.GetCompany("anything")
	assert.False(t, ok)

	// The cache is still usable after recovery.
	c.PutCompany("anything", map[string]string{"k": "v"})
	_, ok = c.GetCompany("anything")
	assert.True(t, ok)
}

func TestRevenueBand(t *testing.T) {
	assert.Equal(t, "under_100M", RevenueBand("$45M"))
	assert.Equal(t, "100M_500M", RevenueBand("$450M"))
	assert.Equal(t, "500M_1B", RevenueBand("$750M"))
	assert.Equal(t, "1B_plus", RevenueBand("$2.3B"))
	assert.Equal(t, "unknown", RevenueBand(""))
	assert.Equal(t, "unknown", RevenueBand("N/A"))
}

func TestBenchmarkKey(t *testing.T) {
	assert.Equal(t, "financial_services_1B_plus", BenchmarkKey("Financial Services", "1B_plus"))
}
