package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecotrack-campus/ecotrack/internal/app/metrics"
	"github.com/ecotrack-campus/ecotrack/internal/app/session"
	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// ─── Tracker API ────────────────────────────────────────────────────────────
// REST endpoints for the campus dashboard.
//
// POST   /api/session                 simulated login, opens a session
// DELETE /api/session                 end the session
// GET    /api/dashboard               every derived metric
// GET    /api/carbon/entries          entries, weekly average, verdict
// POST   /api/carbon/entries          record an entry from raw form input
// GET    /api/carbon/form             calculator inputs as typed
// PUT    /api/carbon/form             replace the calculator inputs
// POST   /api/carbon/form/submit      record an entry from the stored form
// GET    /api/actions                 eco actions + EcoPoints balance
// POST   /api/actions/{id}/complete   complete an action
// GET    /api/achievements            achievements with earned flags
// GET    /api/leaderboard             ranked leaderboard
// GET    /api/ewaste/locations        e-waste sites
// POST   /api/ewaste/locations        report a placeholder site
// GET    /api/ewaste/impact           impact aggregates + equivalencies

// EcoAPI holds the session manager the handlers resolve sessions from.
type EcoAPI struct {
	Sessions *session.Manager
}

type sessionKey struct{}

// requireSession resolves X-Session-ID and rejects unknown sessions with 401.
func (e *EcoAPI) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing "+SessionHeader+" header")
			return
		}
		s, err := e.Sessions.Get(id)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(sessionKey{}).(*session.Session)
	return s
}

// writeSessionError maps session and store failures onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrStoreClosed):
		writeError(w, http.StatusUnauthorized, domain.ErrSessionNotFound.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes an optional JSON body into v. An empty body is valid.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ─── Session ────────────────────────────────────────────────────────────────

// HandleLogin accepts any credentials after the configured delay.
// POST /api/session
func (e *EcoAPI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s, err := e.Sessions.Authenticate(r.Context(), creds)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	w.Header().Set(SessionHeader, s.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":   s.ID,
		"total_points": s.TotalPoints(),
		"created_at":   s.CreatedAt,
	})
}

// HandleLogout ends the session named by X-Session-ID.
// DELETE /api/session
func (e *EcoAPI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		writeError(w, http.StatusUnauthorized, "missing "+SessionHeader+" header")
		return
	}
	if err := e.Sessions.End(id); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

// ─── Dashboard ──────────────────────────────────────────────────────────────

// HandleDashboard returns the full derived snapshot.
// GET /api/dashboard
func (e *EcoAPI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := sessionFrom(r).Dashboard(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ─── Carbon ─────────────────────────────────────────────────────────────────

// HandleListEntries returns the carbon history with its weekly average.
// GET /api/carbon/entries
func (e *EcoAPI) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	entries, err := s.Entries(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	avg := metrics.WeeklyAverage(entries)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":           entries,
		"weekly_average_kg": avg,
		"verdict":           metrics.FootprintVerdict(avg),
		"form":              s.Form(),
	})
}

type recordEntryRequest struct {
	Mode        domain.TransportMode `json:"mode"`
	Distance    string               `json:"distance_km"`
	Electricity string               `json:"electricity_kwh"`
}

// HandleRecordEntry computes and stores a carbon entry. Numeric fields are
// raw strings; anything unparseable counts as zero. An empty mode keeps
// the session's selected mode.
// POST /api/carbon/entries
func (e *EcoAPI) HandleRecordEntry(w http.ResponseWriter, r *http.Request) {
	var req recordEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s := sessionFrom(r)
	if req.Mode == "" {
		req.Mode = s.Form().Mode
	}
	entry, err := s.RecordEntry(r.Context(), req.Mode, req.Distance, req.Electricity)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"entry":       entry,
		"equivalency": metrics.Equivalencies(entry.TotalEmission),
	})
}

// HandleGetForm returns the calculator inputs.
// GET /api/carbon/form
func (e *EcoAPI) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Form())
}

// HandleSetForm replaces the calculator inputs. An empty mode keeps the
// selected one.
// PUT /api/carbon/form
func (e *EcoAPI) HandleSetForm(w http.ResponseWriter, r *http.Request) {
	var f session.Form
	if err := decodeBody(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s := sessionFrom(r)
	if f.Mode == "" {
		f.Mode = s.Form().Mode
	}
	s.SetForm(f)
	writeJSON(w, http.StatusOK, f)
}

// HandleSubmitForm records an entry from the stored form and returns the
// reset form alongside it.
// POST /api/carbon/form/submit
func (e *EcoAPI) HandleSubmitForm(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	entry, err := s.SubmitForm(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"entry":       entry,
		"equivalency": metrics.Equivalencies(entry.TotalEmission),
		"form":        s.Form(),
	})
}

// ─── EcoPoints ──────────────────────────────────────────────────────────────

// HandleListActions returns the action catalog and the points balance.
// GET /api/actions
func (e *EcoAPI) HandleListActions(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	actions, err := s.Actions(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actions":      actions,
		"total_points": s.TotalPoints(),
	})
}

// HandleCompleteAction completes one action. Unknown or already completed
// actions succeed with a zero delta.
// POST /api/actions/{id}/complete
func (e *EcoAPI) HandleCompleteAction(w http.ResponseWriter, r *http.Request) {
	change, err := sessionFrom(r).CompleteAction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}

// HandleAchievements returns every achievement with its derived flag.
// GET /api/achievements
func (e *EcoAPI) HandleAchievements(w http.ResponseWriter, r *http.Request) {
	d, err := sessionFrom(r).Dashboard(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": d.Achievements,
		"earned":       d.EarnedCount,
		"total":        d.AchievementTotal,
	})
}

// HandleLeaderboard returns the ranked board.
// GET /api/leaderboard
func (e *EcoAPI) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	d, err := sessionFrom(r).Dashboard(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": d.Leaderboard,
		"rank":    d.Rank,
	})
}

// ─── E-Waste ────────────────────────────────────────────────────────────────

// HandleListLocations returns every known e-waste site.
// GET /api/ewaste/locations
func (e *EcoAPI) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := sessionFrom(r).Locations(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locs,
	})
}

// HandleReportLocation appends a placeholder site and awards the bonus.
// POST /api/ewaste/locations
func (e *EcoAPI) HandleReportLocation(w http.ResponseWriter, r *http.Request) {
	loc, change, err := sessionFrom(r).ReportLocation(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"location":     loc,
		"points_delta": change.Delta,
		"total_points": change.Total,
	})
}

// HandleImpact returns the e-waste impact aggregates.
// GET /api/ewaste/impact
func (e *EcoAPI) HandleImpact(w http.ResponseWriter, r *http.Request) {
	locs, err := sessionFrom(r).Locations(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	impact := metrics.ImpactAggregates(locs)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"impact":      impact,
		"equivalency": metrics.Equivalencies(impact.CO2PreventedKg),
	})
}
