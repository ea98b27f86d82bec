package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_ServesValuesInOrder(t *testing.T) {
	sc := NewScript(0, 4095, 2048)
	require.NoError(t, sc.Configure())

	for _, want := range []uint16{0, 4095, 2048} {
		got, err := sc.ReadRaw(0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, sc.Reads())
}

func TestScript_RecordsChannels(t *testing.T) {
	sc := NewScript(1, 2, 3)
	require.NoError(t, sc.Configure())

	_, err := sc.ReadRaw(0)
	require.NoError(t, err)
	_, err = sc.ReadRaw(7)
	require.NoError(t, err)
	_, err = sc.ReadRaw(0)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 7, 0}, sc.Calls())
}

func TestScript_ExhaustedFails(t *testing.T) {
	sc := NewScript(42)
	require.NoError(t, sc.Configure())

	_, err := sc.ReadRaw(0)
	require.NoError(t, err)

	_, err = sc.ReadRaw(0)
	assert.Error(t, err)
	assert.Equal(t, 1, sc.Reads(), "failed read is not recorded")
}

func TestScript_RequiresConfigure(t *testing.T) {
	sc := NewScript(1)
	_, err := sc.ReadRaw(0)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestScript_ConfigureRewinds(t *testing.T) {
	sc := NewScript(11, 22)
	require.NoError(t, sc.Configure())

	_, err := sc.ReadRaw(0)
	require.NoError(t, err)

	require.NoError(t, sc.Configure())
	got, err := sc.ReadRaw(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(11), got)
	assert.Equal(t, []uint32{0}, sc.Calls())
}

func TestScript_ChannelRange(t *testing.T) {
	sc := NewScript(1)
	require.NoError(t, sc.Configure())

	_, err := sc.ReadRaw(MaxChannel + 1)
	assert.ErrorIs(t, err, ErrChannelRange)
}

func TestScript_CloseStopsReads(t *testing.T) {
	sc := NewScript(1, 2)
	require.NoError(t, sc.Configure())
	require.NoError(t, sc.Close())

	_, err := sc.ReadRaw(0)
	assert.ErrorIs(t, err, ErrNotConnected)
}
