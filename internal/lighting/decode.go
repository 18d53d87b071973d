package lighting

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coreman2200/enlighten/internal/strip"
)

// Getter is satisfied by url.Values and Values.
type Getter interface {
	Get(key string) string
}

// Values is a plain string map of effect parameters, as found in playlists.
type Values map[string]string

func (v Values) Get(key string) string { return v[key] }

// Keys accepted by Decode, per effect.
var paramKeys = map[Kind][]string{
	Christmas:     {"width"},
	Merica:        {"width"},
	SingleColor:   {"color", "r", "g", "b"},
	Alternate:     {"color1", "color2", "delay"},
	Hyperloop:     {"width", "cycles"},
	HyperRainbow:  {"width", "cycles", "cycle_delay"},
	StaticRainbow: {"width", "cycles", "cycle_delay"},
	Twinkle:       {"color", "r", "g", "b", "delay", "cycles", "width"},
}

// ParamKeys lists the keys Decode reads for k.
func ParamKeys(k Kind) []string {
	return append([]string(nil), paramKeys[k]...)
}

// Decode builds and validates k's parameters from string values. Missing or
// empty keys keep their defaults. Delays are seconds ("0.5") or Go durations
// ("250ms"). Colors are hex ("#ff0000") or "r,g,b"; the single-channel keys
// r, g and b override the matching slot of color.
func Decode(k Kind, g Getter) (Params, error) {
	p, err := Defaults(k)
	if err != nil {
		return nil, err
	}
	d := decoder{g: g}
	switch p := p.(type) {
	case ChristmasParams:
		d.int("width", &p.Width)
		return d.result(k, p)
	case MericaParams:
		d.int("width", &p.Width)
		return d.result(k, p)
	case SingleColorParams:
		d.rgb(&p.Color)
		return d.result(k, p)
	case AlternateParams:
		d.color("color1", &p.First)
		d.color("color2", &p.Second)
		d.duration("delay", &p.Delay)
		return d.result(k, p)
	case HyperloopParams:
		d.int("width", &p.Width)
		d.int("cycles", &p.Cycles)
		return d.result(k, p)
	case HyperRainbowParams:
		d.int("width", &p.Width)
		d.int("cycles", &p.Cycles)
		d.duration("cycle_delay", &p.CycleDelay)
		return d.result(k, p)
	case StaticRainbowParams:
		d.int("width", &p.Width)
		d.int("cycles", &p.Cycles)
		d.duration("cycle_delay", &p.CycleDelay)
		return d.result(k, p)
	case TwinkleParams:
		d.rgb(&p.Color)
		d.duration("delay", &p.Delay)
		d.int("cycles", &p.Cycles)
		d.int("width", &p.Width)
		return d.result(k, p)
	}
	return nil, fmt.Errorf("%w: unknown effect %s", strip.ErrInvalidParameter, k)
}

// Encode is the inverse of Decode, for listings and logs.
func Encode(p Params) Values {
	v := Values{}
	switch p := p.(type) {
	case ChristmasParams:
		v["width"] = strconv.Itoa(p.Width)
	case MericaParams:
		v["width"] = strconv.Itoa(p.Width)
	case SingleColorParams:
		v["color"] = p.Color.String()
	case AlternateParams:
		v["color1"] = p.First.String()
		v["color2"] = p.Second.String()
		v["delay"] = seconds(p.Delay)
	case HyperloopParams:
		v["width"] = strconv.Itoa(p.Width)
		v["cycles"] = strconv.Itoa(p.Cycles)
	case HyperRainbowParams:
		v["width"] = strconv.Itoa(p.Width)
		v["cycles"] = strconv.Itoa(p.Cycles)
		v["cycle_delay"] = seconds(p.CycleDelay)
	case StaticRainbowParams:
		v["width"] = strconv.Itoa(p.Width)
		v["cycles"] = strconv.Itoa(p.Cycles)
		v["cycle_delay"] = seconds(p.CycleDelay)
	case TwinkleParams:
		v["color"] = p.Color.String()
		v["delay"] = seconds(p.Delay)
		v["cycles"] = strconv.Itoa(p.Cycles)
		v["width"] = strconv.Itoa(p.Width)
	}
	return v
}

func (v Values) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k + "=" + v[k])
	}
	return b.String()
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// decoder keeps the first error so the per-kind cases stay flat.
type decoder struct {
	g   Getter
	err error
}

func (d *decoder) get(key string) (string, bool) {
	if d.err != nil || d.g == nil {
		return "", false
	}
	s := strings.TrimSpace(d.g.Get(key))
	return s, s != ""
}

func (d *decoder) fail(key string, err error) {
	d.err = fmt.Errorf("%s: %w", key, err)
}

func (d *decoder) result(k Kind, p Params) (Params, error) {
	if d.err == nil {
		d.err = p.Validate()
	}
	if d.err != nil {
		return nil, fmt.Errorf("%s: %w", k, d.err)
	}
	return p, nil
}

func (d *decoder) int(key string, dst *int) {
	s, ok := d.get(key)
	if !ok {
		return
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		d.fail(key, fmt.Errorf("%w: %q is not an integer", strip.ErrInvalidParameter, s))
		return
	}
	*dst = v
}

func (d *decoder) duration(key string, dst *time.Duration) {
	s, ok := d.get(key)
	if !ok {
		return
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64/float64(time.Second) {
			d.fail(key, fmt.Errorf("%w: %q is not a usable delay", strip.ErrInvalidParameter, s))
			return
		}
		*dst = time.Duration(f * float64(time.Second))
		return
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		d.fail(key, fmt.Errorf("%w: %q is not a delay", strip.ErrInvalidParameter, s))
		return
	}
	*dst = v
}

func (d *decoder) color(key string, dst *strip.Color) {
	s, ok := d.get(key)
	if !ok {
		return
	}
	c, err := strip.ParseColor(s)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = c
}

func (d *decoder) channel(key string, dst *uint8) {
	s, ok := d.get(key)
	if !ok {
		return
	}
	v, err := strip.ParseChannel(s)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = v
}

func (d *decoder) rgb(dst *strip.Color) {
	d.color("color", dst)
	d.channel("r", &dst.R)
	d.channel("g", &dst.G)
	d.channel("b", &dst.B)
}
