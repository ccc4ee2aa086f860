// marciomma | 2026
// handler.go

package admin

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
)

type StoreAdmin interface {
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
	Reset(ctx context.Context) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

type Handler struct {
	store StoreAdmin
}

func NewHandler(store StoreAdmin) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/redis", h.GetStoreStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Post("/store/reset", h.ResetStore)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeHealthy := true
	if err := h.store.Ping(ctx); err != nil {
		storeHealthy = false
	}

	response := SystemStatsResponse{
		Store: StoreStatus{
			Healthy: storeHealthy,
			Pool:    toPoolStats(h.store.PoolStats()),
		},
		Runtime: runtimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetStoreStats(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.Keys(r.Context(), "*")
	if err != nil {
		core.ServiceUnavailable(w)
		return
	}

	core.OK(w, StoreStatsResponse{
		Keys: keys,
		Pool: toPoolStats(h.store.PoolStats()),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, runtimeStats())
}

// ResetStore re-dials the backend connection and drops the read cache.
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		slog.Error("store reset failed", "error", err)
		core.ServiceUnavailable(w)
		return
	}

	core.OK(w, map[string]bool{"reset": true})
}

func runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func toPoolStats(stats *redis.PoolStats) *PoolStats {
	if stats == nil {
		return nil
	}

	return &PoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Store   StoreStatus  `json:"store"`
	Runtime RuntimeStats `json:"runtime"`
}

type StoreStatus struct {
	Healthy bool       `json:"healthy"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

type StoreStatsResponse struct {
	Keys []string   `json:"keys"`
	Pool *PoolStats `json:"pool,omitempty"`
}

type PoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
