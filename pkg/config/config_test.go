package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, time.Millisecond, cfg.Scheduler.TickInterval)
	assert.Equal(t, uint32(20), cfg.Sampling.PeriodMs)
	assert.Equal(t, 5, cfg.Sampling.Window)
	assert.Equal(t, uint32(4096), cfg.Sampling.FullScale)
	assert.Equal(t, uint8(40), cfg.Sampling.MaxUnit)
	assert.Equal(t, uint32(0), cfg.Sampling.Channel)
	assert.Equal(t, uint16(2048), cfg.Sim.Bias)
	assert.Equal(t, 256, cfg.Sim.DriftCycle)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.Equal(t, uint32(20), cfg.Sampling.PeriodMs)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"
  baud: 57600

scheduler:
  tick_interval: 2000000 # nanoseconds

sampling:
  period_ms: 50
  window: 8
  full_scale: 4096
  max_unit: 100
  channel: 3

sim:
  bias: 1000
  drift: 500
  drift_cycle: 128
  noise: 4
  seed: 42
`
	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.Baud)
	assert.Equal(t, 2*time.Millisecond, cfg.Scheduler.TickInterval)
	assert.Equal(t, uint32(50), cfg.Sampling.PeriodMs)
	assert.Equal(t, 8, cfg.Sampling.Window)
	assert.Equal(t, uint8(100), cfg.Sampling.MaxUnit)
	assert.Equal(t, uint32(3), cfg.Sampling.Channel)
	assert.Equal(t, uint16(1000), cfg.Sim.Bias)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
}

func TestLoad_PartialYAMLBackfillsDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
`
	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, time.Millisecond, cfg.Scheduler.TickInterval)
	assert.Equal(t, uint32(20), cfg.Sampling.PeriodMs)
	assert.Equal(t, 5, cfg.Sampling.Window)
	assert.Equal(t, 256, cfg.Sim.DriftCycle)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("serial: [not a mapping")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "/dev/ttyACM1"
	cfg.Sampling.PeriodMs = 100
	cfg.Sim.Seed = 7

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
