package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/enlighten/internal/app"
	"github.com/coreman2200/enlighten/internal/config"
	"github.com/coreman2200/enlighten/internal/playlist"
	"github.com/coreman2200/enlighten/internal/web"
)

func main() {
	// ---- Flags (only the ones given on the command line override config.yaml) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		driver     = flag.String("driver", "sim", "driver: sim | spi | pwm | console")
		output     = flag.String("output", "D18", "PWM data pin (e.g. D18, GPIO18)")
		count      = flag.Int("count", 30, "number of LEDs")
		brightness = flag.Float64("brightness", 0.5, "global brightness 0..1")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, RGB)")
		maxMA      = flag.Float64("max-ma", 0, "cap the strip's estimated draw in mA (0 = off)")
		policy     = flag.String("policy", "reject", "when busy: reject | preempt")
		logLevel   = flag.String("log-level", "info", "trace | debug | info | warn | error")
		playlistF  = flag.String("playlist", "", "playlist to start on boot")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", *configPath).Msg("no config file; using defaults and flags")
		} else {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
	} else {
		cfg = *c
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "driver":
			cfg.Strip.Driver = *driver
		case "output":
			cfg.Strip.Output = *output
		case "count":
			cfg.Strip.Count = *count
		case "brightness":
			cfg.Strip.Brightness = *brightness
		case "color":
			cfg.Strip.ColorOrder = *colorOrder
		case "max-ma":
			cfg.Strip.MaxMilliamps = *maxMA
		case "policy":
			cfg.Dispatch.Policy = *policy
		case "log-level":
			cfg.LogLevel = *logLevel
		case "playlist":
			cfg.Playlist.Path = *playlistF
			cfg.Playlist.Autostart = *playlistF != ""
		}
	})
	if *simOnly {
		cfg.Strip.Driver = "sim"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(lvl)

	// ---- Core: driver, strip, engine, conductor ----
	core, err := app.InitCore(&cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("strip init failed")
	}

	srvWeb, err := web.New(web.Options{
		Conductor:    core.Conductor,
		Users:        cfg.Auth.Users,
		SessionTTL:   cfg.Auth.SessionTTL,
		LoginRate:    cfg.Auth.LoginRate,
		LoginBurst:   cfg.Auth.LoginBurst,
		SecureCookie: cfg.Server.SecureCookie,
		Log:          log.With().Str("component", "web").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("web init failed")
	}

	// ---- Playlist on boot ----
	if cfg.Playlist.Autostart && cfg.Playlist.Path != "" {
		prog, err := playlist.Load(cfg.Playlist.Path)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Playlist.Path).Msg("playlist load failed")
		} else if err := core.Conductor.Play(*prog, playlist.Hooks{
			OnCue: func(pass, index int, c playlist.Cue) {
				log.Info().Int("pass", pass).Int("step", index).Stringer("effect", c.Kind).Msg("cue")
			},
		}); err != nil {
			log.Error().Err(err).Msg("playlist start failed")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srvWeb.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Strip.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srvWeb.Close()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("strip close")
	}
}
