package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	bytes.Buffer
	closed  int
	failing bool
}

func (r *recordingSink) Write(p []byte) (int, error) {
	if r.failing {
		return 0, errors.New("disk full")
	}
	return r.Buffer.Write(p)
}

func (r *recordingSink) Close() error {
	r.closed++
	return nil
}

func TestFile_AppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "launchpad.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err = f.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)

	f, err = OpenFile(path)
	require.NoError(t, err)
	_, err = f.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestTee_MirrorsAndClosesAll(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	tee := NewTee(a, b)

	n, err := tee.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())

	require.NoError(t, tee.Close())
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
}

func TestTee_OneFailingSinkStillWritesOthers(t *testing.T) {
	bad, good := &recordingSink{failing: true}, &recordingSink{}
	tee := NewTee(bad, good)

	_, err := tee.Write([]byte("x"))
	assert.Error(t, err)
	assert.Equal(t, "x", good.String())
}

func TestWriter_CloseLeavesUnderlyingOpen(t *testing.T) {
	var buf bytes.Buffer
	s := Writer(&buf)
	require.NoError(t, s.Close())
	_, err := s.Write([]byte("still open"))
	require.NoError(t, err)
	assert.Equal(t, "still open", buf.String())
}
