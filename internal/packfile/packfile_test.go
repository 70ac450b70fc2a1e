package packfile

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStart = 2458800.5
	testEnd   = 2458960.5
)

func circular(jd float64) [3]float64 {
	a := 2 * math.Pi * (jd - testStart) / 365.25
	return [3]float64{math.Cos(a), math.Sin(a), 0.01 * (jd - testStart) / 100}
}

func buildFile(t *testing.T, opt WriteOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	series := []Series{
		Fit(EMB, SSB, testStart, testEnd, 32, 14, circular),
		Fit(Moon, Earth, testStart, testEnd, 8, 12, func(jd float64) [3]float64 {
			return [3]float64{0.0025, 0, 0}
		}),
	}
	require.NoError(t, Write(&buf, testStart, testEnd, series, opt))
	return buf.Bytes()
}

func TestReadBackState(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			raw := buildFile(t, WriteOptions{ByteOrder: order, DENumber: 431})
			f, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
			require.NoError(t, err)

			assert.Equal(t, int32(431), f.Header.DENumber)
			assert.Equal(t, testStart, f.Header.Start)
			assert.Equal(t, testEnd, f.Header.End)
			require.Len(t, f.Header.Records, 2)

			jd := 2458874.149
			pos, vel, center, err := f.State(EMB, jd, true)
			require.NoError(t, err)
			assert.Equal(t, SSB, center)
			want := circular(jd)
			for i := range pos {
				assert.InDelta(t, want[i], pos[i], 1e-12)
			}
			w := 2 * math.Pi / 365.25
			a := w * (jd - testStart)
			assert.InDelta(t, -w*math.Sin(a), vel[0], 1e-11)
			assert.InDelta(t, w*math.Cos(a), vel[1], 1e-11)
			assert.InDelta(t, 0.0001, vel[2], 1e-12)

			pos, _, center, err = f.State(Moon, testEnd, false)
			require.NoError(t, err)
			assert.Equal(t, Earth, center)
			assert.InDelta(t, 0.0025, pos[0], 1e-15)
		})
	}
}

func TestStateErrors(t *testing.T) {
	raw := buildFile(t, WriteOptions{})
	f, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	_, _, _, err = f.State(EMB, testEnd+1, false)
	assert.ErrorIs(t, err, ErrOutsideRange)

	_, _, _, err = f.State(Mars, testStart+1, false)
	assert.ErrorIs(t, err, ErrBodyNotInFile)
}

func TestHeaderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"magic", func(b []byte) []byte { b[0] = 'X'; return b }, ErrBadMagic},
		{"endian", func(b []byte) []byte { b[8], b[9] = 0xff, 0xff; return b }, ErrBadEndian},
		{"checksum", func(b []byte) []byte { b[20] ^= 0x01; return b }, ErrChecksum},
		{"truncated", func(b []byte) []byte { return b[:len(b)-16] }, ErrTruncated},
		{"short", func(b []byte) []byte { return b[:20] }, ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.mutate(buildFile(t, WriteOptions{}))
			_, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	raw := buildFile(t, WriteOptions{Version: 7})
	_, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestRecordOffsetValidation(t *testing.T) {
	setOffset := func(b []byte, off uint64) []byte {
		le := binary.LittleEndian
		n := int(le.Uint32(b[36:40]))
		le.PutUint64(b[fixedHeaderLen+32:], off)
		end := fixedHeaderLen + n*indexEntrySize
		le.PutUint32(b[end:], crc32.ChecksumIEEE(b[:end]))
		return b
	}
	tests := []struct {
		name   string
		offset uint64
		want   error
	}{
		{"inside header", 0, ErrCorrupt},
		{"inside index", fixedHeaderLen + 8, ErrCorrupt},
		{"past end", 1 << 40, ErrTruncated},
		{"wraps around", math.MaxUint64 - 64, ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := setOffset(buildFile(t, WriteOptions{}), tt.offset)
			_, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sepl_18.se1")
	require.NoError(t, WriteFile(path, testStart, testEnd, []Series{
		Fit(Sun, SSB, testStart, testEnd, 40, 8, func(float64) [3]float64 { return [3]float64{0.001, 0.002, 0.003} }),
	}, WriteOptions{DENumber: 431}))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.Path)

	pos, vel, _, err := f.State(Sun, testStart+3, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.002, pos[1], 1e-15)
	assert.InDelta(t, 0, vel[1], 1e-15)

	_, err = Open(filepath.Join(t.TempDir(), "missing.se1"))
	assert.Error(t, err)
}
