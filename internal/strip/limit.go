package strip

// ChannelMilliamps is what one WS281x channel draws at full scale.
const ChannelMilliamps = 20.0

// Milliamps estimates the current an rgb frame draws.
func Milliamps(rgb []byte) float64 {
	var sum float64
	for _, v := range rgb {
		sum += float64(v)
	}
	return sum / 255 * ChannelMilliamps
}

// limitScale returns the factor that brings a frame drawing total mA down
// to budget.
func limitScale(total, budget float64) float64 {
	if budget <= 0 || total <= budget {
		return 1
	}
	return budget / total
}

// limit scales out in place so it stays within budget mA and reports
// whether anything changed.
func limit(out []byte, budget float64) bool {
	s := limitScale(Milliamps(out), budget)
	if s >= 1 {
		return false
	}
	for i, v := range out {
		out[i] = byte(float64(v) * s)
	}
	return true
}
