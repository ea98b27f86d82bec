// Package sampler converts a noisy raw analog source into a smoothed,
// rate-limited engineering-unit reading: a rate gate limits conversions to
// one per configured period, an integer scaling law maps raw counts to units,
// and a fixed-depth rolling average stabilizes the output.
package sampler

import (
	"fmt"

	"github.com/Dystopia0910/rtcore/pkg/probe"
)

const (
	// DefaultPeriodMs is the default sampling period in milliseconds.
	DefaultPeriodMs = 20
	// DefaultWindow is the default rolling-average depth.
	DefaultWindow = 5
	// DefaultFullScale is the default exclusive raw count ceiling (12-bit).
	DefaultFullScale = 4096
	// DefaultMaxUnit is the default engineering-unit ceiling.
	DefaultMaxUnit = 40
)

const asciiZero = '0'

// Params configures a Pipeline. Zero-valued fields fall back to defaults.
type Params struct {
	PeriodMs  uint32
	Window    int
	FullScale uint32
	MaxUnit   uint8
	Channel   uint32
}

// Pipeline is the sampling pipeline. All state is owned by the single
// foreground thread of control that calls Service; none of it is safe to
// touch from the tick context.
type Pipeline struct {
	src probe.Source

	periodMs   uint32
	fullScale  uint32
	maxUnit    uint8
	defChannel uint32

	channel uint32
	gateMs  uint32
	last    uint8
	win     *ring
}

// New creates a pipeline reading from src. The source must already be
// configured by the caller.
func New(src probe.Source, p Params) *Pipeline {
	if p.PeriodMs == 0 {
		p.PeriodMs = DefaultPeriodMs
	}
	if p.Window <= 0 {
		p.Window = DefaultWindow
	}
	if p.FullScale == 0 {
		p.FullScale = DefaultFullScale
	}
	if p.MaxUnit == 0 {
		p.MaxUnit = DefaultMaxUnit
	}

	pl := &Pipeline{
		src:        src,
		periodMs:   p.PeriodMs,
		fullScale:  p.FullScale,
		maxUnit:    p.MaxUnit,
		defChannel: p.Channel,
		win:        newRing(p.Window),
	}
	pl.Reset()

	return pl
}

// Reset clears the rate gate, the rolling buffer, and the last value, and
// re-selects the default channel. Idempotent.
func (p *Pipeline) Reset() {
	p.channel = p.defChannel
	p.gateMs = 0
	p.last = 0
	p.win.reset()
}

// SetChannel selects the input the next conversion reads. No validation
// happens here; an out-of-range id surfaces as an error from Service.
func (p *Pipeline) SetChannel(channel uint32) {
	p.channel = channel
}

// Channel returns the currently selected input channel.
func (p *Pipeline) Channel() uint32 {
	return p.channel
}

// Service is the rate-gated entry point, meant to be called from a periodic
// task far more often than the sampling period. When a full period has
// elapsed since the last conversion it performs exactly one blocking
// acquisition, scales it, and folds it into the rolling buffer; otherwise it
// returns immediately. The elapsed-time test uses wraparound-safe unsigned
// subtraction, so it stays correct when nowMs overflows.
func (p *Pipeline) Service(nowMs uint32) error {
	if nowMs-p.gateMs < p.periodMs {
		return nil
	}
	p.gateMs = nowMs

	counts, err := p.src.ReadRaw(p.channel)
	if err != nil {
		return fmt.Errorf("acquisition on channel %d: %w", p.channel, err)
	}

	p.last = Scale(counts, p.fullScale, p.maxUnit)
	p.win.push(p.last)

	return nil
}

// Last returns the most recent scaled reading, or 0 before the first
// conversion.
func (p *Pipeline) Last() uint8 {
	return p.last
}

// Average returns the truncating mean over the valid entries of the rolling
// buffer. During warm-up the mean covers only the samples taken so far; it is
// 0 while no sample exists.
func (p *Pipeline) Average() uint8 {
	return p.win.mean()
}

// Window returns how many valid samples the rolling buffer currently holds.
func (p *Pipeline) Window() int {
	return p.win.len()
}

// AverageAscii renders the rolling average with FormatAscii.
func (p *Pipeline) AverageAscii() [4]byte {
	return FormatAscii(p.Average())
}

// LastAscii renders the most recent reading with FormatAscii.
func (p *Pipeline) LastAscii() [4]byte {
	return FormatAscii(p.last)
}

// Scale maps a raw count in [0, fullScale) onto [0, max] using pure integer
// arithmetic: floor(counts*max/fullScale), clamped to max. The clamp defends
// against a reading at or above full scale.
func Scale(counts uint16, fullScale uint32, max uint8) uint8 {
	if fullScale == 0 {
		return 0
	}
	v := uint32(counts) * uint32(max) / fullScale
	if v > uint32(max) {
		v = uint32(max)
	}
	return uint8(v)
}

// FormatAscii renders a value in [0, 99] as the fixed 4-byte string "dd.d".
// The fractional digit is always '0'; the source has no sub-unit resolution.
// The result is not NUL-terminated and must be consumed by length.
func FormatAscii(v uint8) [4]byte {
	return [4]byte{
		asciiZero + v/10,
		asciiZero + v%10,
		'.',
		asciiZero,
	}
}
