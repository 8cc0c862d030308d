package services

import (
	"context"
	"modfy_server/storage"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart time.Time

func init() {
	uptimeStart = time.Now()
}

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

// dependencyHealthStatus describes one backing service (storage or cache).
type dependencyHealthStatus struct {
	Connected      bool           `json:"connected"`
	Configured     bool           `json:"configured"`
	LastChecked    time.Time      `json:"last_checked"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	Stats          map[string]any `json:"stats,omitempty"`
}

type HealthService struct {
	logger *gecho.Logger
	store  storage.Storage
	cache  *CacheService
}

// NewHealthService checks the given storage and the cache. cache may be nil.
func NewHealthService(logger *gecho.Logger, store storage.Storage, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

// readRamStats reports heap usage against memory obtained from the OS.
func readRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1 << 20
	stats := &RamStats{TotalMB: m.Sys / mb, UsedMB: m.Alloc / mb}
	stats.FreeMB = stats.TotalMB - stats.UsedMB
	if stats.TotalMB > 0 {
		stats.UsedPercent = stats.UsedMB * 100 / stats.TotalMB
	}
	return stats
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     readRamStats(),
	}
}

// probe times ping and logs a failure under name.
func (hs *HealthService) probe(ctx context.Context, name string, ping func(context.Context) error) (dependencyHealthStatus, error) {
	start := time.Now()
	err := ping(ctx)
	if err != nil {
		hs.logger.Error("Health probe failed", gecho.Field("dependency", name), gecho.Field("error", err))
	}
	return dependencyHealthStatus{
		Connected:      err == nil,
		Configured:     true,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}, err
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	return hs.probe(ctx, "storage", hs.store.Ping)
}

// GetCacheHealthStatus reports Configured=false without error when no redis is in use.
func (hs *HealthService) GetCacheHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	if hs.cache == nil {
		return dependencyHealthStatus{LastChecked: time.Now()}, nil
	}
	status, err := hs.probe(ctx, "cache", hs.cache.Ping)
	status.Stats = hs.cache.GetConnectionStats()
	return status, err
}
