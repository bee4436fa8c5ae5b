// AngelaMos | 2026
// handler.go

package dashboard

import (
	"context"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/lead"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

type LeadCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type Handler struct {
	leads           LeadCounter
	dbPing          func(ctx context.Context) error
	redisPing       func(ctx context.Context) error
	redisPool       func() core.RedisPoolStats
	realtimeClients func() int
}

type HandlerConfig struct {
	Leads           LeadCounter
	DBPing          func(ctx context.Context) error
	RedisPing       func(ctx context.Context) error
	RedisPool       func() core.RedisPoolStats
	RealtimeClients func() int
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		leads:           cfg.Leads,
		dbPing:          cfg.DBPing,
		redisPing:       cfg.RedisPing,
		redisPool:       cfg.RedisPool,
		realtimeClients: cfg.RealtimeClients,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/summary", h.GetSummary)
		r.With(middleware.RequireRole(middleware.RoleAdmin)).
			Get("/system", h.GetSystemStats)
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.leads.CountByStatus(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, NewSummary(counts))
}

// NewSummary reports every known status, zero counts included, in
// pipeline order.
func NewSummary(counts map[string]int) SummaryResponse {
	resp := SummaryResponse{
		ByStatus: make([]StatusCount, 0, len(lead.Statuses)),
	}

	for _, status := range lead.Statuses {
		n := counts[status]
		resp.ByStatus = append(resp.ByStatus, StatusCount{
			Status: status,
			Count:  n,
		})
		resp.TotalLeads += n
	}
	resp.WonLeads = counts[lead.StatusWon]

	return resp
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	resp := SystemStatsResponse{
		DatabaseHealthy: pingHealthy(ctx, h.dbPing),
		RedisHealthy:    pingHealthy(ctx, h.redisPing),
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	}

	if h.redisPool != nil {
		stats := h.redisPool()
		resp.RedisPool = &stats
	}

	if h.realtimeClients != nil {
		resp.RealtimeClients = h.realtimeClients()
	}

	core.OK(w, resp)
}

func pingHealthy(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type SummaryResponse struct {
	TotalLeads int           `json:"totalLeads"`
	WonLeads   int           `json:"wonLeads"`
	ByStatus   []StatusCount `json:"byStatus"`
}

type SystemStatsResponse struct {
	DatabaseHealthy bool                 `json:"databaseHealthy"`
	RedisHealthy    bool                 `json:"redisHealthy"`
	RedisPool       *core.RedisPoolStats `json:"redisPool,omitempty"`
	RealtimeClients int                  `json:"realtimeClients"`
	Runtime         RuntimeStats         `json:"runtime"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
