// Package probe provides blocking one-shot acquisition sources: a serial
// sampler board, a deterministic simulator, and a scripted fake for tests.
package probe

import "errors"

const (
	// FullScale is the exclusive upper bound of a raw reading (12-bit).
	FullScale = 4096
	// MaxChannel is the highest valid input channel id.
	MaxChannel = 31
	// DefaultChannel is the input read when callers never select one.
	DefaultChannel = 0
)

var (
	// ErrNotConnected is returned when a source is used before Configure or
	// after Close.
	ErrNotConnected = errors.New("probe: not connected")
	// ErrChannelRange is returned for channel ids above MaxChannel.
	ErrChannelRange = errors.New("probe: channel out of range")
)

// Source defines the acquisition contract: a synchronous, blocking
// "acquire once on channel C" primitive. ReadRaw suspends the caller until
// the conversion completes and returns a raw count in [0, FullScale).
type Source interface {
	Configure() error
	ReadRaw(channel uint32) (uint16, error)
	Close() error
}

// Ensure Serial implements Source.
var _ Source = (*Serial)(nil)

// Ensure Sim implements Source.
var _ Source = (*Sim)(nil)

// Ensure Script implements Source.
var _ Source = (*Script)(nil)
