package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStreamWriteThenRead(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data.bin")
	payload := []byte("hello stream")

	w, err := Open(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	require.NoError(t, err)
	n, res := w.Write(payload)
	assert.Equal(t, Success, res)
	assert.Equal(t, len(payload), n)
	require.NoError(t, w.Close())

	r, err := Open(name, os.O_RDONLY)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 4)
	var got []byte
	for {
		n, res := r.Read(buf)
		if res == EOS {
			break
		}
		require.Equal(t, Success, res)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, payload, got)
	assert.NoError(t, r.Err())
}

func TestFileStreamEmptyFileReadsEOS(t *testing.T) {
	name := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(name, nil, 0o644))

	r, err := Open(name, os.O_RDONLY)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 16)
	n, res := r.Read(buf)
	assert.Equal(t, 0, n)
	assert.Equal(t, EOS, res)
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"), os.O_RDONLY)
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	name := filepath.Join(t.TempDir(), "named")
	w, err := Open(name, os.O_WRONLY|os.O_CREATE)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, name, w.Name())
}
