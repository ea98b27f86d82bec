package probe

import (
	"math/rand"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/Dystopia0910/rtcore/pkg/config"
)

// Sim simulates a slowly-varying analog input for development and testing
// without hardware: a sinusoidal drift around a bias level plus bounded
// noise, clamped to the 12-bit count range. With a fixed seed the produced
// sequence is fully deterministic.
type Sim struct {
	cfg *config.SimConfig

	mu         sync.Mutex
	rng        *rand.Rand
	n          uint64
	configured bool
}

// NewSim creates a simulated source. A nil config uses defaults.
func NewSim(cfg *config.SimConfig) *Sim {
	if cfg == nil {
		def := config.Default().Sim
		cfg = &def
	}
	return &Sim{cfg: cfg}
}

// Configure resets the simulation state and seeds the noise generator. A
// zero seed seeds from the wall clock.
func (m *Sim) Configure() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seed := m.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m.rng = rand.New(rand.NewSource(seed))
	m.n = 0
	m.configured = true

	return nil
}

// ReadRaw synthesizes one conversion. Each call advances the drift phase by
// one sample, so the waveform period is DriftCycle acquisitions regardless of
// how fast the caller polls.
func (m *Sim) ReadRaw(channel uint32) (uint16, error) {
	if channel > MaxChannel {
		return 0, ErrChannelRange
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.configured {
		return 0, ErrNotConnected
	}

	if m.cfg.Latency > 0 {
		// Stand-in for the hardware conversion busy-wait.
		time.Sleep(m.cfg.Latency)
	}

	cycle := m.cfg.DriftCycle
	if cycle <= 0 {
		cycle = 1
	}
	phase := 2 * math32.Pi * float32(m.n%uint64(cycle)) / float32(cycle)
	m.n++

	value := int32(m.cfg.Bias) + int32(math32.Round(float32(m.cfg.Drift)*math32.Sin(phase)))
	if m.cfg.Noise > 0 {
		value += int32(m.rng.Intn(2*int(m.cfg.Noise)+1)) - int32(m.cfg.Noise)
	}

	if value < 0 {
		value = 0
	} else if value >= FullScale {
		value = FullScale - 1
	}

	return uint16(value), nil
}

// Close stops the simulation.
func (m *Sim) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = false
	return nil
}
