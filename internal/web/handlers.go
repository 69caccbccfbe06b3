package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/LaborStats/internal/core"
	"github.com/JonMunkholm/LaborStats/internal/logging"
	"github.com/JonMunkholm/LaborStats/internal/web/templates"
)

// handleDashboard renders the selection page. With no names selected it
// shows the form and the no-selection message instead of a table.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts, err := s.service.Options()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	params := templates.DashboardParams{
		Options:  opts,
		Mode:     q.Mode,
		Year:     q.Year,
		Selected: q.Names,
	}

	if len(q.Names) == 0 {
		params.Message = noSelectionMessage
	} else {
		rows, err := s.service.Query(q)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		params.Rows = rows
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleHealth reports 200 once a snapshot is serving and 503 before that.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	if !st.Loaded {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"snapshot": st.Info.ID.String(),
		"rows":     st.Info.Rows,
	})
}

// handleOptions returns the values for the selection widgets.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.Options()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleObservations returns the filtered table.
func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := s.filter(w, r)
	if !ok {
		return
	}

	resp := struct {
		Mode    core.Mode         `json:"mode"`
		Year    *int              `json:"year,omitempty"`
		Rows    []observationJSON `json:"rows"`
		Message string            `json:"message,omitempty"`
	}{
		Mode: q.Mode,
		Year: q.Year,
		Rows: toObservationJSON(rows),
	}
	if len(q.Names) == 0 {
		resp.Message = noSelectionMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDistribution returns box-plot summaries of the filtered rows,
// grouped by the mode field.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := s.filter(w, r)
	if !ok {
		return
	}

	resp := struct {
		Mode       core.Mode              `json:"mode"`
		Categories []core.CategorySummary `json:"categories"`
		Message    string                 `json:"message,omitempty"`
	}{
		Mode:       q.Mode,
		Categories: core.Distribution(q.Mode, rows),
	}
	if len(q.Names) == 0 {
		resp.Message = noSelectionMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMap returns one marker per filtered row with a country code.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := s.filter(w, r)
	if !ok {
		return
	}

	resp := struct {
		Mode    core.Mode       `json:"mode"`
		Points  []core.MapPoint `json:"points"`
		Message string          `json:"message,omitempty"`
	}{
		Mode:   q.Mode,
		Points: core.MapPoints(q.Mode, rows),
	}
	if len(q.Names) == 0 {
		resp.Message = noSelectionMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSnapshot returns build metadata and normalization statistics.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	if !st.Loaded {
		s.respondError(w, r, core.ErrNoSnapshot)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotJSON(st.Info, st))
}

// handleRefresh rebuilds the snapshot from the source. A failed rebuild
// leaves the previous snapshot serving.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := core.ContextWithTrigger(r.Context(), core.TriggerAPI)
	ctx = WithRequestMetadata(ctx, r)

	result, err := s.service.Refresh(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info("refresh via api",
		"snapshot_id", result.Snapshot.Info().ID,
		"ip", core.GetIPAddressFromContext(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	resp := struct {
		Snapshot   snapshotJSON `json:"snapshot"`
		Cached     bool         `json:"cached"`
		CacheError string       `json:"cacheError,omitempty"`
	}{
		Snapshot: toSnapshotJSON(result.Snapshot.Info(), s.service.Status()),
		Cached:   result.CacheErr == nil,
	}
	if result.CacheErr != nil {
		msg := core.MapError(result.CacheErr)
		resp.CacheError = msg.Message + " (" + msg.Code + ")"
		slog.Warn("refresh succeeded without cache", "error", result.CacheErr)
	}
	writeJSON(w, http.StatusOK, resp)
}
