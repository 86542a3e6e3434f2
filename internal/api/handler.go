// Package api serves the dose timeline, intake totals and limits as JSON over HTTP
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/core/constants"
	"github.com/penwyp/go-dose-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// Source yields the latest snapshot and the clock views are composed at
type Source interface {
	Load(ctx context.Context) (*monitor.Snapshot, error)
	Now() time.Time
}

// Deps are the handler dependencies. LookBack and LookAhead size the /timeline window.
type Deps struct {
	Source    Source
	LookBack  time.Duration
	LookAhead time.Duration
}

// ActivePayload is the body of GET /doses/active
type ActivePayload struct {
	Now   time.Time `json:"now"`
	Doses any       `json:"doses"`
}

// LimitsPayload is the body of GET /limits
type LimitsPayload struct {
	UserID string    `json:"userId"`
	Now    time.Time `json:"now"`
	Limits any       `json:"limits"`
}

// NewHandler returns the router for every endpoint, with request logging
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", handleHealth)
	r.Get("/timeline", handleTimeline(deps))
	r.Get("/doses/active", handleActive(deps))
	r.Get("/consumption/{ingredient}", handleConsumption(deps))
	r.Get("/limits", handleLimits(deps))
	r.Get("/catalog", handleCatalog(deps))
	r.Get("/catalog/{id}", handleCatalogEntry(deps))

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		util.LogDebugf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleTimeline(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := load(w, r, deps)
		if !ok {
			return
		}
		view := monitor.ComposeView(snap, deps.Source.Now(), deps.LookBack, deps.LookAhead)
		writeJSON(w, http.StatusOK, formatter.TimelinePayload{Now: view.Now, Window: view.Window, Rows: view.Rows})
	}
}

func handleActive(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := load(w, r, deps)
		if !ok {
			return
		}
		now := deps.Source.Now()
		writeJSON(w, http.StatusOK, ActivePayload{Now: now, Doses: snap.Timeline.Active(now)})
	}
}

func handleConsumption(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredient := strings.TrimSpace(chi.URLParam(r, "ingredient"))

		window := constants.DefaultConsumptionWindowHours
		if raw := r.URL.Query().Get("window"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "window must be a non-negative number of hours")
				return
			}
			window = parsed
		}

		snap, ok := load(w, r, deps)
		if !ok {
			return
		}
		now := deps.Source.Now()
		result, contributions := snap.Aggregator.BreakdownDoses(snap.Doses, ingredient, window, now)
		writeJSON(w, http.StatusOK, formatter.ConsumptionPayload{
			Ingredient:    ingredient,
			WindowHours:   window,
			Now:           now,
			Result:        result,
			Contributions: contributions,
		})
	}
}

func handleLimits(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := load(w, r, deps)
		if !ok {
			return
		}
		if snap.User == nil {
			httpError(w, http.StatusNotFound, "not_found_error", "user %q is not configured; configured users: %s",
				snap.UserID, strings.Join(snap.Catalog.UserIDs(), ", "))
			return
		}
		now := deps.Source.Now()
		writeJSON(w, http.StatusOK, LimitsPayload{
			UserID: snap.UserID,
			Now:    now,
			Limits: snap.Aggregator.EvaluateDoseLimits(snap.Doses, snap.User.GlobalLimits, now),
		})
	}
}

func handleCatalog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := load(w, r, deps)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, formatter.CatalogReport(snap.Catalog).Payload)
	}
}

func handleCatalogEntry(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		snap, ok := load(w, r, deps)
		if !ok {
			return
		}
		entry, found := snap.Catalog.Entry(id)
		if !found {
			httpError(w, http.StatusNotFound, "not_found_error", "medication %q is not in the catalog", id)
			return
		}
		writeJSON(w, http.StatusOK, formatter.CatalogEntry(entry))
	}
}

func load(w http.ResponseWriter, r *http.Request, deps Deps) (*monitor.Snapshot, bool) {
	snap, err := deps.Source.Load(r.Context())
	if err != nil {
		util.LogErrorf("Failed to load snapshot: %v", err)
		httpError(w, http.StatusInternalServerError, "api_error", "failed to load data: %v", err)
		return nil, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to encode response: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	data, _ := sonic.Marshal(map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
	_, _ = w.Write(data)
}
