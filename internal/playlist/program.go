package playlist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

// Load reads a program from a YAML (or JSON) file and validates it.
func Load(path string) (*Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func Parse(b []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate decodes every step so that a bad program fails before anything
// is shown.
func (p *Program) Validate() error {
	_, err := p.Cues()
	return err
}

// Cues decodes the steps in order.
func (p *Program) Cues() ([]Cue, error) {
	if p.Version != "" && p.Version != Version {
		return nil, fmt.Errorf("%w: program version %q, want %q", strip.ErrInvalidParameter, p.Version, Version)
	}
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("%w: program has no steps", strip.ErrInvalidParameter)
	}
	cues := make([]Cue, 0, len(p.Steps))
	var paused bool
	for i, s := range p.Steps {
		k, err := lighting.ParseKind(s.Effect)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		params, err := lighting.Decode(k, lighting.Values(s.Params))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if s.Pause < 0 {
			return nil, fmt.Errorf("step %d: %w: pause %v < 0", i+1, strip.ErrInvalidParameter, s.Pause)
		}
		paused = paused || s.Pause > 0
		name := s.Name
		if name == "" {
			name = k.String()
		}
		cues = append(cues, Cue{Name: name, Kind: k, Params: params, Pause: s.Pause})
	}
	if p.Loop && !paused {
		return nil, fmt.Errorf("%w: looping program needs at least one step with a pause", strip.ErrInvalidParameter)
	}
	return cues, nil
}

func (p *Program) String() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%d steps", len(p.Steps))
}
