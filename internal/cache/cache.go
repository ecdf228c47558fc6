// Package cache implements the two-namespace research cache: per-company
// findings (short TTL) and per-industry-band benchmarks (long TTL), persisted
// to a single JSON file after every write. The cache is advisory: load and
// write failures are logged and swallowed, never returned to the pipeline.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// Default TTLs per namespace, in days.
const (
	DefaultCompanyTTLDays   = 7
	DefaultBenchmarkTTLDays = 90
)

// Entry is one cached payload with its write timestamp.
type Entry struct {
	Data     json.RawMessage `json:"data"`
	CachedAt string          `json:"cached_at"`
}

// fileLayout is the on-disk shape of the cache document.
type fileLayout struct {
	IndustryBenchmarks map[string]Entry `json:"industry_benchmarks"`
	CompanyFindings    map[string]Entry `json:"company_findings"`
}

// Cache is a disk-persisted, time-expiring cache. All access goes through an
// in-process mutex so concurrent stages cannot interleave read-modify-write
// cycles on the file.
type Cache struct {
	path string

	companyTTLDays   int
	benchmarkTTLDays int

	mu   sync.Mutex
	data fileLayout
	now  func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithCompanyTTL overrides the company-findings TTL in days.
func WithCompanyTTL(days int) Option {
	return func(c *Cache) { c.companyTTLDays = days }
}

// WithBenchmarkTTL overrides the industry-benchmarks TTL in days.
func WithBenchmarkTTL(days int) Option {
	return func(c *Cache) { c.benchmarkTTLDays = days }
}

// withClock overrides the time source for tests.
func withClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Open loads the cache file at path, or starts empty when the file is
// missing or corrupt.
func Open(path string, opts ...Option) *Cache {
	c := &Cache{
		path:             path,
		companyTTLDays:   DefaultCompanyTTLDays,
		benchmarkTTLDays: DefaultBenchmarkTTLDays,
		now:              time.Now,
	}
	for _, o := range opts {
		o(c)
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(raw, &c.data); jsonErr != nil {
			zap.L().Warn("cache: corrupt cache file, starting empty",
				zap.String("path", path),
				zap.Error(jsonErr),
			)
			c.data = fileLayout{}
		}
	} else if !os.IsNotExist(err) {
		zap.L().Warn("cache: read failed, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
	}

	if c.data.IndustryBenchmarks == nil {
		c.data.IndustryBenchmarks = make(map[string]Entry)
	}
	if c.data.CompanyFindings == nil {
		c.data.CompanyFindings = make(map[string]Entry)
	}
	return c
}

// GetCompany returns cached findings for a company if present and fresh.
func (c *Cache) GetCompany(companyName string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data.CompanyFindings[CompanyKey(companyName)]
	if !ok || !c.isValid(entry.CachedAt, c.companyTTLDays) {
		return nil, false
	}
	return entry.Data, true
}

// PutCompany stores findings for a company, stamping the current time, and
// persists the whole cache to disk.
func (c *Cache) PutCompany(companyName string, data any) {
	c.put("company_findings", CompanyKey(companyName), data)
}

// GetBenchmark returns cached benchmarks for an industry/revenue band pair
// if present and fresh.
func (c *Cache) GetBenchmark(industry, revenueBand string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data.IndustryBenchmarks[BenchmarkKey(industry, revenueBand)]
	if !ok || !c.isValid(entry.CachedAt, c.benchmarkTTLDays) {
		return nil, false
	}
	return entry.Data, true
}

// PutBenchmark stores benchmarks for an industry/revenue band pair.
func (c *Cache) PutBenchmark(industry, revenueBand string, data any) {
	c.put("industry_benchmarks", BenchmarkKey(industry, revenueBand), data)
}

func (c *Cache) put(namespace, key string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		zap.L().Warn("cache: marshal entry failed",
			zap.String("namespace", namespace),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{Data: raw, CachedAt: c.now().UTC().Format(time.RFC3339)}
	switch namespace {
	case "company_findings":
		c.data.CompanyFindings[key] = entry
	case "industry_benchmarks":
		c.data.IndustryBenchmarks[key] = entry
	}

	c.persistLocked()
}

// persistLocked rewrites the entire cache file. Caller holds c.mu. A crash
// loses at most the in-flight write.
func (c *Cache) persistLocked() {
	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		zap.L().Warn("cache: marshal cache failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		zap.L().Warn("cache: write failed", zap.String("path", c.path), zap.Error(err))
	}
}

func (c *Cache) isValid(cachedAt string, maxAgeDays int) bool {
	return isValidAt(cachedAt, maxAgeDays, c.now())
}

// IsValid reports whether a cached_at timestamp is younger than maxAgeDays.
// Malformed timestamps are treated as invalid rather than crashing the caller.
func IsValid(cachedAt string, maxAgeDays int) bool {
	return isValidAt(cachedAt, maxAgeDays, time.Now())
}

func isValidAt(cachedAt string, maxAgeDays int, now time.Time) bool {
	t, err := time.Parse(time.RFC3339, cachedAt)
	if err != nil {
		return false
	}
	return now.Sub(t) < time.Duration(maxAgeDays)*24*time.Hour
}

// CompanyKey normalizes a company name into a cache key.
func CompanyKey(companyName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(companyName)), " ", "_")
}

// BenchmarkKey builds the industry-benchmarks cache key.
func BenchmarkKey(industry, revenueBand string) string {
	industry = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(industry)), " ", "_")
	return fmt.Sprintf("%s_%s", industry, revenueBand)
}

// RevenueBand buckets a revenue string ("$450M", "$2.3B") into a coarse band
// used as part of the benchmark cache key.
func RevenueBand(revenue string) string {
	v := model.ParseCurrency(revenue)
	switch {
	case v <= 0:
		return "unknown"
	case v < 100e6:
		return "under_100M"
	case v < 500e6:
		return "100M_500M"
	case v < 1e9:
		return "500M_1B"
	default:
		return "1B_plus"
	}
}
