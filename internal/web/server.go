// Package web is the control panel: a login-protected dashboard that
// triggers effects, a small JSON API and a websocket frame preview.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/coreman2200/enlighten/internal/app"
	"github.com/coreman2200/enlighten/internal/config"
	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/session"
	"github.com/coreman2200/enlighten/internal/strip"
)

const cookieName = "enlighten_session"

type Options struct {
	Conductor    *app.Conductor
	Users        []config.User
	SessionTTL   time.Duration
	LoginRate    float64 // attempts per second per client
	LoginBurst   int
	SecureCookie bool
	Log          zerolog.Logger
}

type Server struct {
	cond     *app.Conductor
	strip    *strip.Strip
	sessions *session.Store
	users    map[string]string
	limiter  *loginLimiter
	pages    *pages
	hub      *Hub
	secure   bool
	log      zerolog.Logger
	started  time.Time
}

// New builds the server and registers its frame hub on the conductor's
// strip, so call it before any effect runs.
func New(o Options) (*Server, error) {
	if o.Conductor == nil {
		return nil, errors.New("web: no conductor")
	}
	pg, err := loadPages()
	if err != nil {
		return nil, err
	}
	users := make(map[string]string, len(o.Users))
	for _, u := range o.Users {
		users[u.Name] = u.PasswordHash
	}
	if len(users) == 0 {
		o.Log.Warn().Msg("no users configured; every login will fail")
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 12 * time.Hour
	}
	st := o.Conductor.Engine().Strip()
	s := &Server{
		cond:     o.Conductor,
		strip:    st,
		sessions: session.NewStore(o.SessionTTL),
		users:    users,
		limiter:  newLoginLimiter(o.LoginRate, o.LoginBurst),
		pages:    pg,
		hub:      NewHub(st.Config(), o.Log),
		secure:   o.SecureCookie,
		log:      o.Log,
		started:  time.Now(),
	}
	s.hub.Control = s.control
	st.Observe(s.hub)
	return s, nil
}

func (s *Server) Hub() *Hub { return s.hub }

// Close disconnects websocket clients.
func (s *Server) Close() { s.hub.Close() }

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("took", d).
			Msg("http")
	}))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Get("/logout", s.logout)
	r.Get("/health", s.health)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/dashboard", s.dashboard)
		r.HandleFunc("/merica", s.defaultEffect(lighting.Merica))
		r.HandleFunc("/christmas", s.defaultEffect(lighting.Christmas))
		r.Post("/effects/{name}", s.effectForm)
		r.Post("/stop", s.stopForm)
		r.Get("/ws", s.hub.ServeHTTP)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireSessionAPI)
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/effects", s.listEffects)
		r.Post("/effects/{name}", s.startEffect)
		r.Post("/diag/{kind}", s.startDiag)
		r.Post("/stop", s.stopEffect)
		r.Get("/status", s.status)
	})
	return r
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: message})
}

// triggerStatus maps a trigger error to an HTTP status and error code.
func triggerStatus(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, strip.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, app.ErrClosed):
		return http.StatusServiceUnavailable, "shutting_down"
	}
	return http.StatusInternalServerError, "internal"
}

// trigger parses name and values and starts the effect in the background.
func (s *Server) trigger(name string, values lighting.Getter) (lighting.Kind, error) {
	k, err := lighting.ParseKind(name)
	if err != nil {
		return lighting.None, err
	}
	p, err := lighting.Decode(k, values)
	if err != nil {
		return k, err
	}
	if err := s.cond.Trigger(k, p); err != nil {
		return k, err
	}
	s.log.Info().Stringer("effect", k).Str("params", lighting.Encode(p).String()).Msg("effect triggered")
	return k, nil
}

// control answers websocket messages.
func (s *Server) control(msg ControlMsg) any {
	if msg.Stop {
		return map[string]any{"type": "stopped", "stopped": s.cond.Stop()}
	}
	if msg.Effect == "" {
		return ErrorResponse{Error: "invalid_message", Message: "need effect or stop"}
	}
	vals := lighting.Values{}
	for k, v := range msg.Params {
		vals[k] = fmt.Sprint(v)
	}
	if _, err := s.trigger(msg.Effect, vals); err != nil {
		_, code := triggerStatus(err)
		return ErrorResponse{Error: code, Message: err.Error()}
	}
	return map[string]any{"type": "status", "status": s.cond.Status()}
}
