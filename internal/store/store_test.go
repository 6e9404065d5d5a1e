package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanoseed/nanoseed/internal/align"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "seeds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestStore_WriteSeeds(t *testing.T) {
	s := openTest(t)

	seed := align.Seed{ReadEventEnd: 24, ReadWindow: 22, RefStart: 101, RefEnd: 125, WinProb: 0.61}
	require.NoError(t, s.WriteSeed("read-1", seed))
	require.NoError(t, s.WriteSeed("read-1", seed))
	require.NoError(t, s.WriteSeed("read-2", seed))

	n, err := s.CountSeeds("read-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountSeeds("read-3")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_WriteReadUpserts(t *testing.T) {
	s := openTest(t)

	require.NoError(t, s.WriteRead("read-1", align.StateFailure, 60, nil))

	res := &align.MapResult{RefStart: 90, RefEnd: 140, TotalLen: 48}
	require.NoError(t, s.WriteRead("read-1", align.StateSuccess, 31, res))

	var state string
	var refStart int64
	err := s.db.QueryRow(`SELECT state, ref_start FROM reads WHERE id = ?`, "read-1").
		Scan(&state, &refStart)
	require.NoError(t, err)
	assert.Equal(t, "success", state)
	assert.Equal(t, int64(90), refStart)
}
