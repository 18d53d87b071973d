package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coreman2200/enlighten/internal/app"
	"github.com/coreman2200/enlighten/internal/lighting"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	t *template.Template
}

func loadPages() (*pages, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"seq": func(n int) []int { return make([]int, n) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &pages{t: t}, nil
}

// render executes into a buffer first so a template error can still become
// a 500.
func (p *pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.t.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *pages) message(w http.ResponseWriter, status int, msg string) {
	p.render(w, status, "message.html", msg)
}

type effectInfo struct {
	Name     string            `json:"name"`
	Keys     []string          `json:"keys"`
	Defaults map[string]string `json:"defaults"`
}

func effectList() []effectInfo {
	out := make([]effectInfo, 0, 8)
	for _, k := range lighting.Kinds() {
		def, _ := lighting.Defaults(k)
		out = append(out, effectInfo{Name: k.String(), Keys: lighting.ParamKeys(k), Defaults: lighting.Encode(def)})
	}
	return out
}

type dashboardData struct {
	User    string
	Message string
	Error   string
	Effects []effectInfo
	Status  app.Status
	Count   int
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, msg, errMsg string) {
	s.pages.render(w, status, "dashboard.html", dashboardData{
		User:    sessionFrom(r.Context()).User,
		Message: msg,
		Error:   errMsg,
		Effects: effectList(),
		Status:  s.cond.Status(),
		Count:   s.strip.Len(),
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, http.StatusOK, "", "")
}

// defaultEffect serves /merica and /christmas: always the engine defaults.
func (s *Server) defaultEffect(k lighting.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.cond.Trigger(k, nil); err != nil {
			code, _ := triggerStatus(err)
			s.renderDashboard(w, r, code, "", err.Error())
			return
		}
		s.renderDashboard(w, r, http.StatusOK, k.String()+" started", "")
	}
}

func (s *Server) effectForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderDashboard(w, r, http.StatusBadRequest, "", err.Error())
		return
	}
	k, err := s.trigger(chi.URLParam(r, "name"), r.PostForm)
	if err != nil {
		code, _ := triggerStatus(err)
		s.renderDashboard(w, r, code, "", err.Error())
		return
	}
	s.renderDashboard(w, r, http.StatusOK, k.String()+" started", "")
}

func (s *Server) stopForm(w http.ResponseWriter, r *http.Request) {
	msg := "nothing running"
	if s.cond.Stop() {
		msg = "stopped"
	}
	s.renderDashboard(w, r, http.StatusOK, msg, "")
}
