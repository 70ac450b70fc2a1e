package astroeph

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mshafiee/astroeph/internal/packfile"
	"github.com/mshafiee/astroeph/jpleph"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing", &fs.PathError{Op: "open", Path: "de441.eph", Err: fs.ErrNotExist}, ErrFileNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "de441.eph", Err: fs.ErrPermission}, ErrFileUnreadable},
		{"io error", &fs.PathError{Op: "read", Path: "sepl_18.se1", Err: syscall.EIO}, ErrFileUnreadable},
		{"jpl range", jpleph.ErrOutsideRange, ErrOutsideRange},
		{"packed range", packfile.ErrOutsideRange, ErrOutsideRange},
		{"packed version", packfile.ErrUnsupportedVersion, ErrUnsupportedVersion},
		{"no quantity", jpleph.ErrQuantityNotInEphemeris, ErrDataUnavailable},
		{"bad header", packfile.ErrCorrupt, ErrCorruptFile},
		{"checksum", fmt.Errorf("wrapped: %w", packfile.ErrChecksum), ErrCorruptFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, ErrDataUnavailable)
			if tt.want != ErrCorruptFile {
				assert.NotErrorIs(t, got, ErrCorruptFile)
			}
		})
	}

	assert.NoError(t, classify(nil))
	assert.Same(t, ErrNoObserver, classify(ErrNoObserver))
}

func TestUnreadableFileIsNotCorrupt(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := writeFixture(t)
	path := filepath.Join(dir, "sepl_18.se1")
	require.NoError(t, os.Chmod(path, 0))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	s, err := newFileStore(4, dir, "missing.eph", zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.purge()
	_, err = s.get(SourcePacked, familyPlanets, fixtureJD)
	assert.ErrorIs(t, err, ErrFileUnreadable)
	assert.NotErrorIs(t, err, ErrCorruptFile)
}
