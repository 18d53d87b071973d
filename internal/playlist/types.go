package playlist

import (
	"context"
	"time"

	"github.com/coreman2200/enlighten/internal/lighting"
)

// Version is the only program format understood.
const Version = "playlist.v1"

// Step is one effect invocation in a show.
type Step struct {
	Name   string            `yaml:"name,omitempty" json:"name,omitempty"`
	Effect string            `yaml:"effect" json:"effect"`
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	// Pause is held after the effect returns, before the next step.
	Pause time.Duration `yaml:"pause,omitempty" json:"pause,omitempty"`
}

// Program is a full sequence of steps.
type Program struct {
	Version string `yaml:"version" json:"version"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Loop    bool   `yaml:"loop,omitempty" json:"loop,omitempty"`
	Steps   []Step `yaml:"steps" json:"steps"`
}

// Cue is a Step with its effect and parameters already decoded.
type Cue struct {
	Name   string
	Kind   lighting.Kind
	Params lighting.Params
	Pause  time.Duration
}

// Runner plays one effect to completion. *lighting.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, kind lighting.Kind, p lighting.Params) error
}

// Hooks are optional callbacks for progress reporting.
type Hooks struct {
	// OnCue fires before each cue starts; pass is 0 on the first time
	// through the program.
	OnCue func(pass, index int, c Cue)
}
