package web

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/coreman2200/enlighten/internal/session"
)

type ctxKey struct{}

// loginLimiter keeps one token bucket per client address.
type loginLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	if perSecond <= 0 {
		perSecond = 0.5
	}
	if burst < 1 {
		burst = 5
	}
	return &loginLimiter{limit: rate.Limit(perSecond), burst: burst, clients: map[string]*rate.Limiter{}}
}

func (l *loginLimiter) allow(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.clients[host]
	if !ok {
		if len(l.clients) > 4096 {
			l.clients = map[string]*rate.Limiter{}
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[host] = lim
	}
	return lim.Allow()
}

// HashPassword returns the bcrypt hash stored in the config file.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func (s *Server) checkPassword(user, pw string) bool {
	hash, ok := s.users[user]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, http.StatusOK, "login.html", nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r.RemoteAddr) {
		s.log.Warn().Str("ip", r.RemoteAddr).Msg("login throttled")
		s.pages.message(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}
	user := r.PostFormValue("username")
	if !s.checkPassword(user, r.PostFormValue("password")) {
		s.log.Info().Str("user", user).Msg("login failed")
		s.pages.message(w, http.StatusUnauthorized, "Wrong username or password")
		return
	}
	ses := s.sessions.Create(user)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    ses.Token,
		Path:     "/",
		Expires:  ses.Expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Info().Str("user", user).Msg("login")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil {
		s.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) currentSession(r *http.Request) (session.Session, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return session.Session{}, false
	}
	return s.sessions.Lookup(c.Value)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ses, ok := s.currentSession(r)
		if !ok {
			s.pages.message(w, http.StatusUnauthorized, "You are not logged in.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, ses)))
	})
}

func (s *Server) requireSessionAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ses, ok := s.currentSession(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "You are not logged in.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, ses)))
	})
}

func sessionFrom(ctx context.Context) session.Session {
	ses, _ := ctx.Value(ctxKey{}).(session.Session)
	return ses
}
