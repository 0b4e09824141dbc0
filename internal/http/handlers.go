package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"patrimoine/internal/budget"
	"patrimoine/internal/core"
	"patrimoine/internal/forecast"
	applog "patrimoine/internal/log"
)

type stateResponse struct {
	Salary []core.SalaryRow  `json:"salary"`
	Budget core.Budget       `json:"budget"`
	Colors map[string]string `json:"colors"`
	Total  float64           `json:"total"`
}

func (s *Server) currentState() stateResponse {
	rows, b := s.editor.View()
	colors := make(map[string]string, len(b.Categories))
	for _, c := range b.Categories {
		colors[c.Name] = forecast.CategoryColor(c.Name)
	}
	return stateResponse{Salary: rows, Budget: b, Colors: colors, Total: b.Total()}
}

// handleIndex serves the dashboard page. Every page load re-seeds the
// editing draft from the committed slots, which is what makes a browser
// refresh restore the last saved data.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	s.editor.Reload()

	data := struct {
		Year int
	}{
		Year: time.Now().Year(),
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.currentState())
}

// handleSalary replaces the draft salary table (cell edits and row
// deletions arrive as the full table).
func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Rows []core.SalaryRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "Salary update rejected", "error", err)
		writeJSONError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}
	s.editor.SetSalaryRows(req.Rows)
	writeJSON(w, http.StatusOK, s.currentState())
}

// handleBudgetAction applies exactly one mutation action to the draft tree.
// An action targeting missing keys is a no-op by engine contract, so the
// handler only rejects bodies it cannot decode.
func (s *Server) handleBudgetAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var action budget.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		slog.WarnContext(r.Context(), "Budget action rejected", "error", err)
		writeJSONError(w, http.StatusBadRequest, "action invalide")
		return
	}
	s.editor.ApplyBudget(action)
	slog.InfoContext(r.Context(), "Budget action applied",
		applog.FieldActionKind, string(action.Kind),
		"category", action.Category)
	writeJSON(w, http.StatusOK, s.currentState())
}

// handleSave persists the draft. A failed write leaves the committed state
// untouched and surfaces the cause to the user.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rows, b := s.editor.View()
	doc, err := s.saver.Save(r.Context(), rows, b)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Erreur : "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved_at": doc.SavedAt})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.editor.Reload()
	writeJSON(w, http.StatusOK, s.currentState())
}

type statsResponse struct {
	MeanGrowth   *float64                     `json:"mean_growth"`
	LastSalary   *float64                     `json:"last_salary"`
	Percentile   *float64                     `json:"percentile"`
	Projection   *forecast.Projection         `json:"projection"`
	Distribution []forecast.DistributionPoint `json:"distribution"`
}

// handleStats computes the series consumed by the charts: mean growth rate,
// percentile of the latest salary, and the projection with its confidence
// band. Query parameters mirror the dashboard sliders.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	growth := queryFloat(r, "growth", 2)
	confidence := queryFloat(r, "confidence", 5)
	horizon := queryInt(r, "horizon", 10)
	if horizon > s.maxHorizon {
		horizon = s.maxHorizon
	}

	rows, _ := s.editor.View()
	points := core.ParseSalaryRows(rows)

	resp := statsResponse{Distribution: forecast.Distribution()}
	if mgr, ok := core.MeanGrowthRate(points); ok {
		resp.MeanGrowth = &mgr
	}
	if len(points) > 0 {
		last := points[len(points)-1].Salary
		resp.LastSalary = &last
		pct := forecast.Percentile(last)
		resp.Percentile = &pct
	}
	if proj, ok := forecast.ProjectHistory(points, growth, horizon, confidence); ok {
		resp.Projection = &proj
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := queryInt(r, "n", 10)
	if limit > 100 {
		limit = 100
	}
	snaps, err := s.saver.RecentSnapshots(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot history error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "historique indisponible")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return fallback
}
