package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/internal/domain"
	"github.com/ykvlv/autopilot-dashboard/internal/identity"
	"github.com/ykvlv/autopilot-dashboard/internal/profile"
	"github.com/ykvlv/autopilot-dashboard/internal/session"
	"github.com/ykvlv/autopilot-dashboard/internal/settings"
)

const landingPath = "/"

func (s *Server) basePage() page {
	return page{Brand: brandName, Theme: s.theme}
}

// --- Generic helpers ---

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// openSession returns the caller's session, creating one and setting the
// cookie when needed.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	var id string
	if c, err := r.Cookie(s.cookieName); err == nil {
		id = c.Value
	}
	sess, created, err := s.sessions.GetOrCreate(id)
	if err != nil {
		return nil, err
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}

// dashboardSession returns the session and controller of a loaded dashboard.
func (s *Server) dashboardSession(r *http.Request) (*session.Session, *settings.Controller, bool) {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, nil, false
	}
	sess, ok := s.sessions.Get(c.Value)
	if !ok {
		return nil, nil, false
	}
	ctrl := sess.Controller()
	if ctrl == nil {
		return nil, nil, false
	}
	return sess, ctrl, true
}

// --- Landing ---

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	res := s.flow.Observe(identity.URLLocation{URL: r.URL}, s.now())
	s.render(w, http.StatusOK, "landing.html", landingView{
		page:           s.basePage(),
		Tagline:        tagline,
		ActivatedTitle: activatedTitle,
		Result:         res,
	})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.openSession(w, r)
	if err != nil {
		s.log.Error("session open failed", zap.Error(err))
		http.Redirect(w, r, landingPath, http.StatusSeeOther)
		return
	}
	nav := redirectNavigator{w: w, r: r, status: http.StatusSeeOther}
	if err := s.flow.Begin(r.Context(), sess.Client, nav); err != nil {
		// The call to action stays available; nothing else to show.
		http.Redirect(w, r, landingPath, http.StatusSeeOther)
	}
}

// --- Dashboard ---

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	nav := redirectNavigator{w: w, r: r, status: http.StatusFound}
	handle, ok := identity.ResolveOrRedirect(identity.URLLocation{URL: r.URL}, nav, landingPath)
	if !ok {
		return
	}

	sess, err := s.openSession(w, r)
	if err != nil {
		s.log.Error("session open failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	p, err := profile.NewStore(sess.Client, s.log).Load(r.Context(), handle)
	if err != nil {
		sess.Attach(domain.UserProfile{}, nil)
		s.render(w, http.StatusNotFound, "not_found.html", notFoundView{page: s.basePage(), NotFound: notFoundText})
		return
	}

	ctrl := settings.NewController(sess.Client, p,
		settings.WithLogger(s.log.With(zap.String("session", sess.ID))),
		settings.WithJournal(s.journal),
		settings.WithFrequencyRevert(s.frequencyRevert),
	)
	sess.Attach(p, ctrl)

	next := noNextPost
	if !p.NextPostAt.IsZero() {
		if v, err := domain.LocalizeTime(p.NextPostAt, s.displayTZ); err == nil {
			next = v
		}
	}
	s.render(w, http.StatusOK, "dashboard.html", dashboardView{
		page:        s.basePage(),
		Handle:      p.Handle,
		Draft:       ctrl.Draft(),
		Frequencies: domain.Frequencies(),
		NextPost:    next,
		PollMillis:  s.pollWindow.Milliseconds(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	_, ctrl, ok := s.dashboardSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no dashboard loaded"})
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(ctrl.Handle(), ctrl.Draft()))
}

type activeIntent struct {
	Active *bool `json:"active"`
}

// frequencyIntent carries the selector value, sent either as a number or
// as the option's string value.
type frequencyIntent struct {
	Frequency json.RawMessage `json:"frequency"`
}

func (in frequencyIntent) value() string {
	var s string
	if err := json.Unmarshal(in.Frequency, &s); err == nil {
		return s
	}
	return string(in.Frequency)
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	sess, ctrl, ok := s.dashboardSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no dashboard loaded"})
		return
	}
	var in activeIntent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Active == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `expected {"active": bool}`})
		return
	}
	if !sess.AllowIntent() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many changes, slow down"})
		return
	}

	write := ctrl.ApplyAutomationActive(*in.Active)
	optimistic := ctrl.Draft()
	s.dispatch(r.Context(), write)
	writeJSON(w, http.StatusAccepted, newDraftResponse(ctrl.Handle(), optimistic))
}

func (s *Server) handleSetFrequency(w http.ResponseWriter, r *http.Request) {
	sess, ctrl, ok := s.dashboardSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no dashboard loaded"})
		return
	}
	var in frequencyIntent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `expected {"frequency": 1|2|3}`})
		return
	}
	f, err := domain.ParseFrequency(in.value())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !sess.AllowIntent() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many changes, slow down"})
		return
	}

	write, err := ctrl.ApplyFrequency(f)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	optimistic := ctrl.Draft()
	s.dispatch(r.Context(), write)
	writeJSON(w, http.StatusAccepted, newDraftResponse(ctrl.Handle(), optimistic))
}

const recentFailures = 20

// handleFailures lists the journaled failures of the loaded account. It is
// diagnostic output only; the draft never reads from it.
func (s *Server) handleFailures(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.dashboardSession(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no dashboard loaded"})
		return
	}
	handle := sess.Profile().Handle
	events, err := s.journal.Recent(r.Context(), handle, recentFailures)
	if err != nil {
		s.log.Error("journal read failed", zap.String("handle", handle), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "journal unavailable"})
		return
	}
	out := make([]failureResponse, 0, len(events))
	for _, e := range events {
		out = append(out, failureResponse{
			Kind:    e.Kind,
			Setting: e.Setting,
			Detail:  e.Detail,
			At:      e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
