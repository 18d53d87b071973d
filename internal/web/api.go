package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coreman2200/enlighten/internal/app"
	"github.com/coreman2200/enlighten/internal/diag"
	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

type statusResponse struct {
	app.Status
	Count      int     `json:"count"`
	Brightness float64 `json:"brightness"`
	Order      string  `json:"order"`
	Frames     uint64  `json:"frames"`
}

func (s *Server) statusSnapshot() statusResponse {
	cfg := s.strip.Config()
	_, frames := s.hub.Last()
	return statusResponse{
		Status:     s.cond.Status(),
		Count:      cfg.Count,
		Brightness: cfg.Brightness,
		Order:      string(cfg.Order),
		Frames:     frames,
	}
}

func (s *Server) listEffects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, effectList())
}

// startEffect takes parameters from a JSON object body or from the form and
// query string.
func (s *Server) startEffect(w http.ResponseWriter, r *http.Request) {
	var vals lighting.Getter
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}
		v := lighting.Values{}
		for k, x := range body {
			v[k] = fmt.Sprint(x)
		}
		vals = v
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		vals = r.Form
	}

	if _, err := s.trigger(chi.URLParam(r, "name"), vals); err != nil {
		code, e := triggerStatus(err)
		writeError(w, code, e, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, s.statusSnapshot())
}

// startDiag runs a wiring check; "hold" sets the per-frame hold.
func (s *Server) startDiag(w http.ResponseWriter, r *http.Request) {
	k, err := diag.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	plan := diag.Plan{Kind: k}
	if h := r.URL.Query().Get("hold"); h != "" {
		if plan.Hold, err = time.ParseDuration(h); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
			return
		}
	}
	if err := s.cond.Diagnose(plan); err != nil {
		code, e := triggerStatus(err)
		writeError(w, code, e, err.Error())
		return
	}
	s.log.Info().Str("diag", string(k)).Msg("diagnostic started")
	writeJSON(w, http.StatusAccepted, s.statusSnapshot())
}

func (s *Server) stopEffect(w http.ResponseWriter, r *http.Request) {
	stopped := s.cond.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"stopped": stopped, "status": s.statusSnapshot()})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.statusSnapshot())
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	cfg := s.strip.Config()
	last, frameID := s.hub.Last()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime_s":   time.Since(s.started).Seconds(),
		"count":      cfg.Count,
		"brightness": cfg.Brightness,
		"frame_id":   frameID,
		"busy":       s.cond.Busy(),
		"clients":    s.hub.Clients(),
		"est_ma":     strip.Milliamps(last),
		"max_ma":     cfg.MaxMilliamps,
		"frames":     s.strip.Frames(),
		"limited":    s.strip.Limited(),
	})
}
