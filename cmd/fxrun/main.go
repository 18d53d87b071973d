// Command fxrun plays one effect, or a playlist, straight onto a strip
// without the web panel.
//
//	fxrun [flags] <effect> [key=value ...]
//	fxrun [flags] -playlist show.yaml
//	fxrun [flags] -diag rgb_channels
//	fxrun -hash-password secret
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/enlighten/internal/app"
	"github.com/coreman2200/enlighten/internal/config"
	"github.com/coreman2200/enlighten/internal/diag"
	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/playlist"
	"github.com/coreman2200/enlighten/internal/web"
)

func main() {
	var (
		driver     = flag.String("driver", "console", "driver: console | sim | spi | pwm")
		output     = flag.String("output", "", "PWM data pin (default D18) or SPI port (default the first one)")
		count      = flag.Int("count", 30, "number of LEDs")
		brightness = flag.Float64("brightness", 1, "global brightness 0..1")
		colorOrder = flag.String("color", "GRB", "LED color order")
		seed       = flag.Uint64("seed", 0, "random seed for twinkle (0 = time based)")
		programF   = flag.String("playlist", "", "path to a playlist (YAML or JSON)")
		diagF      = flag.String("diag", "", "wiring check: index_sweep | rgb_channels")
		hashPw     = flag.String("hash-password", "", "print the bcrypt hash for a config user and exit")
		list       = flag.Bool("list", false, "list effects and their parameters")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fxrun [flags] <effect> [key=value ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	switch {
	case *hashPw != "":
		h, err := web.HashPassword(*hashPw)
		if err != nil {
			log.Fatal().Err(err).Msg("hash")
		}
		fmt.Println(h)
		return
	case *list:
		for _, k := range lighting.Kinds() {
			def, _ := lighting.Defaults(k)
			fmt.Printf("%-14s %s\n", k, lighting.Encode(def))
		}
		return
	}

	cfg, err := configFor(*driver, *output, *count, *brightness, *colorOrder)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}

	// Resolve what to play before touching the hardware.
	var (
		prog   *playlist.Program
		plan   diag.Plan
		kind   lighting.Kind
		params lighting.Params
	)
	switch {
	case *diagF != "":
		if plan.Kind, err = diag.ParseKind(*diagF); err != nil {
			log.Fatal().Err(err).Msg("diag")
		}
	case *programF != "":
		if prog, err = playlist.Load(*programF); err != nil {
			log.Fatal().Err(err).Msg("playlist")
		}
	default:
		if flag.NArg() < 1 {
			flag.Usage()
			os.Exit(2)
		}
		kind, params, err = parseArgs(flag.Arg(0), flag.Args()[1:])
		if err != nil {
			log.Fatal().Err(err).Msg("arguments")
		}
	}

	var opts []lighting.Option
	if *seed != 0 {
		opts = append(opts, lighting.WithRand(rand.New(rand.NewPCG(*seed, *seed))))
	}
	core, err := app.InitCore(&cfg, log.Logger, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("strip init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case plan.Kind != diag.None:
		name := "diag " + string(plan.Kind)
		err = core.Conductor.Do(ctx, name, func(ctx context.Context) error {
			seq, err := plan.Sequence(core.Strip.Len())
			if err != nil {
				return err
			}
			return core.Engine.Play(ctx, name, seq)
		})
	case prog != nil:
		pl := playlist.NewPlayer(core.Engine, playlist.Hooks{
			OnCue: func(pass, index int, c playlist.Cue) {
				log.Info().Int("pass", pass).Int("step", index).Str("name", c.Name).Stringer("effect", c.Kind).Msg("cue")
			},
		})
		pl.Log = log.Logger
		err = core.Conductor.Do(ctx, "playlist "+prog.String(), func(ctx context.Context) error {
			return pl.Play(ctx, *prog)
		})
	default:
		log.Info().Stringer("effect", kind).Str("params", lighting.Encode(params).String()).Msg("playing")
		err = core.Conductor.Run(ctx, kind, params)
	}

	// A finished effect stays on the strip; an interrupted or failed one is
	// turned off.
	release := core.Release
	if err != nil {
		release = core.Close
	}
	if cerr := release(); cerr != nil {
		log.Warn().Err(cerr).Msg("strip close")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("effect failed")
	}
}

// configFor maps the strip flags onto the defaults. output is the PWM pin,
// or the SPI port for the spi driver; empty keeps the driver's default.
func configFor(driver, output string, count int, brightness float64, order string) (config.Config, error) {
	cfg := config.Default()
	cfg.Strip.Driver = driver
	cfg.Strip.Count = count
	cfg.Strip.Brightness = brightness
	cfg.Strip.ColorOrder = order
	if driver == "spi" {
		cfg.SPI.Port = output
	} else if output != "" {
		cfg.Strip.Output = output
	}
	return cfg, cfg.Validate()
}

// parseArgs turns "christmas width=3" into a kind and validated parameters.
func parseArgs(name string, kv []string) (lighting.Kind, lighting.Params, error) {
	k, err := lighting.ParseKind(name)
	if err != nil {
		return lighting.None, nil, err
	}
	vals := lighting.Values{}
	for _, a := range kv {
		key, val, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return k, nil, fmt.Errorf("argument %q is not key=value", a)
		}
		vals[key] = val
	}
	p, err := lighting.Decode(k, vals)
	return k, p, err
}
