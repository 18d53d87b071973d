package playlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/strip"
)

type call struct {
	kind   lighting.Kind
	params lighting.Params
}

// fakeRunner records effect invocations.
type fakeRunner struct {
	calls []call
	err   error
	onRun func(n int)
}

func (f *fakeRunner) Run(ctx context.Context, k lighting.Kind, p lighting.Params) error {
	f.calls = append(f.calls, call{k, p})
	if f.onRun != nil {
		f.onRun(len(f.calls))
	}
	if f.err != nil {
		return f.err
	}
	return ctx.Err()
}

const showYAML = `
version: playlist.v1
name: holiday
steps:
  - name: xmas
    effect: christmas
    params:
      width: 3
    pause: 5s
  - effect: Hyper-Rainbow
    params:
      cycles: 2
      cycle_delay: 0.1
  - effect: single_color
    params:
      color: "#00ff00"
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(showYAML))
	require.NoError(t, err)
	assert.Equal(t, "holiday", p.String())
	require.Len(t, p.Steps, 3)
	assert.Equal(t, 5*time.Second, p.Steps[0].Pause)

	cues, err := p.Cues()
	require.NoError(t, err)
	assert.Equal(t, "xmas", cues[0].Name)
	assert.Equal(t, lighting.ChristmasParams{Width: 3}, cues[0].Params)
	assert.Equal(t, "hyperrainbow", cues[1].Name)
	assert.Equal(t, lighting.HyperRainbowParams{Width: 1, Cycles: 2, CycleDelay: 100 * time.Millisecond}, cues[1].Params)
	assert.Equal(t, lighting.SingleColorParams{Color: lighting.Green}, cues[2].Params)
}

func TestParseJSON(t *testing.T) {
	p, err := Parse([]byte(`{"version":"playlist.v1","steps":[{"effect":"merica"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "merica", p.Steps[0].Effect)
}

func TestValidateRejects(t *testing.T) {
	bad := []Program{
		{},
		{Version: "seq.v1", Steps: []Step{{Effect: "merica"}}},
		{Steps: []Step{{Effect: "strobe"}}},
		{Steps: []Step{{Effect: "christmas", Params: map[string]string{"width": "0"}}}},
		{Steps: []Step{{Effect: "merica", Pause: -time.Second}}},
		{Loop: true, Steps: []Step{{Effect: "merica"}}},
	}
	for i, p := range bad {
		assert.ErrorIs(t, p.Validate(), strip.ErrInvalidParameter, "program %d", i)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte(showYAML), 0644))
	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Steps, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShippedExample(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "examples", "holiday.yaml"))
	require.NoError(t, err)
	cues, err := p.Cues()
	require.NoError(t, err)
	require.Len(t, cues, 5)
	assert.True(t, p.Loop)
	assert.Equal(t, lighting.ChristmasParams{Width: 3}, cues[0].Params)
	assert.Equal(t, "stripes", cues[0].Name)
	assert.Equal(t, 30*time.Second, cues[0].Pause)
}

func TestPlayRunsStepsInOrder(t *testing.T) {
	prog, err := Parse([]byte(showYAML))
	require.NoError(t, err)

	r := &fakeRunner{}
	var pauses []time.Duration
	var cues []string
	pl := NewPlayer(r, Hooks{OnCue: func(pass, i int, c Cue) { cues = append(cues, c.Name) }})
	pl.Wait = func(ctx context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}
	require.NoError(t, pl.Play(context.Background(), *prog))

	require.Len(t, r.calls, 3)
	assert.Equal(t, lighting.Christmas, r.calls[0].kind)
	assert.Equal(t, lighting.HyperRainbow, r.calls[1].kind)
	assert.Equal(t, lighting.SingleColor, r.calls[2].kind)
	assert.Equal(t, []time.Duration{5 * time.Second}, pauses)
	assert.Equal(t, []string{"xmas", "hyperrainbow", "singlecolor"}, cues)
}

func TestPlayLoopsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeRunner{onRun: func(n int) {
		if n == 7 {
			cancel()
		}
	}}
	prog := Program{Loop: true, Steps: []Step{
		{Effect: "merica", Pause: time.Second},
		{Effect: "christmas"},
	}}
	pl := NewPlayer(r, Hooks{})
	var passes []int
	pl.Hooks.OnCue = func(pass, i int, c Cue) { passes = append(passes, pass) }
	pl.Wait = func(ctx context.Context, d time.Duration) error { return ctx.Err() }

	err := pl.Play(ctx, prog)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, r.calls, 7)
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3}, passes)
}

func TestPlayStopsOnRunnerError(t *testing.T) {
	boom := errors.New("boom")
	r := &fakeRunner{err: boom}
	err := Play(context.Background(), r, Program{Steps: []Step{{Effect: "merica"}, {Effect: "christmas"}}})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, r.calls, 1)
}

func TestPlayInvalidProgram(t *testing.T) {
	r := &fakeRunner{}
	err := Play(context.Background(), r, Program{})
	assert.ErrorIs(t, err, strip.ErrInvalidParameter)
	assert.Empty(t, r.calls)
}
