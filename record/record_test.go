package record

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamFramesWritesInOrder(t *testing.T) {
	ch := make(chan *Frame, 3)
	ch <- &Frame{Pixels: []byte{1, 2}, PTS: 0}
	ch <- &Frame{Pixels: []byte{3, 4}, PTS: 1}
	ch <- &Frame{Pixels: []byte{5}, PTS: 2}
	close(ch)

	var buf bytes.Buffer
	require.NoError(t, streamFrames(&buf, ch))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, buf.Bytes())
}

func TestStreamFramesStopsOnWriteError(t *testing.T) {
	ch := make(chan *Frame, 2)
	ch <- &Frame{Pixels: []byte{1}, PTS: 0}
	ch <- &Frame{Pixels: []byte{2}, PTS: 1}
	close(ch)

	err := streamFrames(failingWriter{}, ch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 0")
	assert.True(t, errors.Is(err, errPipeClosed))
}

func TestStreamFramesEmptyChannel(t *testing.T) {
	ch := make(chan *Frame)
	close(ch)

	var buf bytes.Buffer
	require.NoError(t, streamFrames(&buf, ch))
	assert.Zero(t, buf.Len())
}

var errPipeClosed = errors.New("pipe closed")

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errPipeClosed
}
