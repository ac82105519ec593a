package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/gorilla/mux"

	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/models"
	"github.com/sguter90/awspanel/pkg/panel"
	"github.com/sguter90/awspanel/pkg/session"
	"github.com/sguter90/awspanel/pkg/webui"
)

const (
	sessionCookie = "awspanel_session"
	flashCookie   = "awspanel_flash"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sessionFor returns the session of the requesting browser, creating one on first visit.
// A new session shows the general panel, so its configuration is loaded right away.
func (rm *RouteManager) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if s, ok := rm.sessions.Get(c.Value); ok {
			return s
		}
	}

	id, s := rm.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	_ = s.Load(r.Context())
	return s
}

// redirectHome answers a form post with a redirect to the page and an optional notice
func redirectHome(w http.ResponseWriter, r *http.Request, notice string) {
	if notice != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    url.QueryEscape(notice),
			Path:     "/",
			HttpOnly: true,
		})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// pageHandler renders the whole panel
func (rm *RouteManager) pageHandler(w http.ResponseWriter, r *http.Request) {
	s := rm.sessionFor(w, r)
	s.Touch()

	data := webui.NewPageData(s, popFlash(w, r))
	if s.ActivePanel() == models.PanelDashboard {
		data.Refresh = rm.refreshSeconds
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.RenderPage(w, data); err != nil {
		rm.logger.Error("failed to render page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// telemetryPartialHandler renders only the telemetry block of the dashboard
func (rm *RouteManager) telemetryPartialHandler(w http.ResponseWriter, r *http.Request) {
	s := rm.sessionFor(w, r)
	s.Touch()

	snap := s.View().Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.RenderDashboardPartial(w, &snap); err != nil {
		rm.logger.Error("failed to render telemetry", "error", err)
		http.Error(w, "Failed to render telemetry", http.StatusInternalServerError)
	}
}

// activatePanelHandler switches the visible panel
func (rm *RouteManager) activatePanelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParsePanelID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s := rm.sessionFor(w, r)
	if err := s.Activate(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrClosed) {
			// reaped mid-request; the next request opens a fresh session
			redirectHome(w, r, "")
			return
		}
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	redirectHome(w, r, "")
}

// submitConfigHandler applies one posted form section and submits the configuration
func (rm *RouteManager) submitConfigHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	s := rm.sessionFor(w, r)
	section := r.PostForm.Get("section")
	if !slices.Contains(s.Form().Sections(), section) {
		http.Error(w, "Unknown section", http.StatusBadRequest)
		return
	}

	values := make(map[string]any, len(r.PostForm))
	for name, v := range r.PostForm {
		if name == "section" || len(v) == 0 {
			continue
		}
		values[name] = v[0]
	}

	if err := s.Edit(section, values); err != nil {
		rm.logger.Warn("rejected config input", "section", section, "error", err)
		redirectHome(w, r, "Invalid input: "+err.Error())
		return
	}
	if err := s.Submit(r.Context()); err != nil {
		redirectHome(w, r, "Saving failed: "+err.Error())
		return
	}
	redirectHome(w, r, "Configuration saved")
}

// otaHandler triggers a firmware update check; the result shows on the dashboard
func (rm *RouteManager) otaHandler(w http.ResponseWriter, r *http.Request) {
	s := rm.sessionFor(w, r)
	s.TriggerUpdate(r.Context())
	redirectHome(w, r, "")
}

// rebootHandler restarts the station
func (rm *RouteManager) rebootHandler(w http.ResponseWriter, r *http.Request) {
	s := rm.sessionFor(w, r)
	s.TriggerReboot(r.Context())
	redirectHome(w, r, "Reboot requested")
}

// ViewResponse is the JSON view model of a session
type ViewResponse struct {
	Active    models.PanelID     `json:"active"`
	Panels    []panel.State      `json:"panels"`
	Dashboard dashboard.Snapshot `json:"dashboard"`
}

// viewHandler returns the session state as JSON
func (rm *RouteManager) viewHandler(w http.ResponseWriter, r *http.Request) {
	s := rm.sessionFor(w, r)
	s.Touch()
	writeJSON(w, http.StatusOK, ViewResponse{
		Active:    s.ActivePanel(),
		Panels:    s.Switcher().States(),
		Dashboard: s.View().Snapshot(),
	})
}

// panelsHandler returns the navigation state as JSON
func (rm *RouteManager) panelsHandler(w http.ResponseWriter, r *http.Request) {
	s := rm.sessionFor(w, r)
	s.Touch()
	writeJSON(w, http.StatusOK, s.Switcher().States())
}
