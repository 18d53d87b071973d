package led

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimRecordsFrames(t *testing.T) {
	d := NewRecorder()
	require.NoError(t, d.Write([]byte{1, 2, 3}))
	require.NoError(t, d.Write([]byte{4, 5, 6}))

	assert.Equal(t, 2, d.Writes())
	assert.Equal(t, []byte{4, 5, 6}, d.Last())
	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5, 6}}, d.Frames())
}

func TestSimWithoutHistoryKeepsLastOnly(t *testing.T) {
	d := NewSim()
	require.NoError(t, d.Write([]byte{9, 9, 9}))
	assert.Empty(t, d.Frames())
	assert.Equal(t, []byte{9, 9, 9}, d.Last())
}

func TestSimLastIsACopy(t *testing.T) {
	d := NewSim()
	in := []byte{1, 1, 1}
	require.NoError(t, d.Write(in))
	in[0] = 7
	got := d.Last()
	got[1] = 8
	assert.Equal(t, []byte{1, 1, 1}, d.Last())
}

func TestSimFailAfter(t *testing.T) {
	boom := errors.New("boom")
	d := NewSim()
	d.FailAfter(1, boom)
	require.NoError(t, d.Write([]byte{0, 0, 0}))
	assert.ErrorIs(t, d.Write([]byte{0, 0, 0}), boom)
	assert.Equal(t, 1, d.Writes())
}

func TestSimClosed(t *testing.T) {
	d := NewSim()
	require.NoError(t, d.Close())
	assert.Error(t, d.Write([]byte{0, 0, 0}))
}
