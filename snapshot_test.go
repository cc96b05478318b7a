package qbluff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	"github.com/chefmatteo/Qbluff/internal/config"
)

// writeTestSnapshot writes tb to a temporary snapshot and returns its path.
func writeTestSnapshot(t *testing.T, tb *Tables) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.qblf")
	if err := tb.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// sameRanks checks two table sets agree on random hands of every size.
func sameRanks(t *testing.T, want, got *Tables) {
	t.Helper()
	rng := newTestRNG(t)
	for n := 5; n <= 9; n++ {
		for iter := 0; iter < 500; iter++ {
			cards := deal(rng, n)
			w, _ := want.Evaluate(cards...)
			g, _ := got.Evaluate(cards...)
			if w != g {
				t.Fatalf("%v: loaded tables rank %d, built tables %d", cards, g, w)
			}
			if want.Lookup(cards) != got.Lookup(cards) {
				t.Fatalf("%v: Lookup differs after load", cards)
			}
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tb := baseTables(t)
	path := writeTestSnapshot(t, tb)

	loaded, err := Open(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, loaded.HasOmaha())
	sameRanks(t, tb, loaded)

	fileData, err := os.ReadFile(path)
	require.NoError(t, err)
	marshaled, err := tb.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(fileData, marshaled), "WriteFile and MarshalBinary differ")
}

// TestOpenVariantsAgree checks Open, OpenFile and OpenBytes load the same
// tables.
func TestOpenVariantsAgree(t *testing.T) {
	tb := baseTables(t)
	path := writeTestSnapshot(t, tb)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	fromFile, err := OpenFile(f, WithLogger(quietLogger()))
	require.NoError(t, err)
	sameRanks(t, tb, fromFile)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fromBytes, err := OpenBytes(data, WithLogger(quietLogger()))
	require.NoError(t, err)
	sameRanks(t, tb, fromBytes)

	// OpenBytes does not retain data.
	clear(data)
	assert.Equal(t, HandRank(1), fromBytes.Evaluate5([5]Card(MustParseCards("As Ks Qs Js Ts"))))
}

func TestSnapshotRoundTripOmaha(t *testing.T) {
	tb := fullTables(t)
	path := writeTestSnapshot(t, tb)
	board, hole := omahaRegression()

	loaded, err := Open(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.True(t, loaded.HasOmaha())
	assert.Equal(t, HandRank(1578), loaded.EvaluatePlo4(board, hole))

	rng := newTestRNG(t)
	for iter := 0; iter < 2000; iter++ {
		cards := deal(rng, 9)
		b, h := [5]Card(cards[:5]), [4]Card(cards[5:])
		require.Equal(t, tb.EvaluatePlo4(b, h), loaded.EvaluatePlo4(b, h))
	}

	slim, err := Open(path, WithoutOmaha(), WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, slim.HasOmaha())
	assert.Equal(t, HandRank(1578), slim.EvaluatePlo4(board, hole))
}

func TestOpenNonExistentFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.qblf"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing) = %v, want fs.ErrNotExist", err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.qblf")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := Open(path)
	if !errors.Is(err, qblufferrors.ErrTruncatedFile) {
		t.Errorf("Open(empty) = %v, want ErrTruncatedFile", err)
	}
	_, err = OpenBytes(make([]byte, 10))
	if !errors.Is(err, qblufferrors.ErrTruncatedFile) {
		t.Errorf("OpenBytes(short) = %v, want ErrTruncatedFile", err)
	}
}

func TestWriteFileBadPath(t *testing.T) {
	tb := baseTables(t)
	err := tb.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir", "tables.qblf"))
	assert.Error(t, err)
}

// reseal recomputes every section checksum and the file hash so that a
// deliberate change to table contents survives the integrity checks.
func reseal(data []byte) {
	hdr, err := decodeHeader(data[:headerSize])
	if err != nil {
		panic(err)
	}
	for i := uint64(0); i < uint64(hdr.NumSections); i++ {
		offset := headerSize + i*sectionEntrySize
		e := decodeSectionEntry(data[offset:])
		e.Checksum = xxh3.Hash(data[e.Offset : e.Offset+e.size()])
		e.encodeTo(data[offset : offset+sectionEntrySize])
	}
	footerOffset := len(data) - footerSize
	binary.LittleEndian.PutUint64(data[footerOffset:], xxhash.Sum64(data[:footerOffset]))
}

func TestSnapshotCorruptionDetection(t *testing.T) {
	tb := baseTables(t)
	valid, err := tb.MarshalBinary()
	require.NoError(t, err)
	first := decodeSectionEntry(valid[headerSize:])

	tests := []struct {
		name    string
		corrupt func(data []byte) []byte
		want    error
	}{
		{"magic", func(d []byte) []byte { d[0] ^= 0xFF; return d }, qblufferrors.ErrInvalidMagic},
		{"version", func(d []byte) []byte { d[4] = 0x7F; return d }, qblufferrors.ErrInvalidVersion},
		{"class count", func(d []byte) []byte { d[10]++; return d }, qblufferrors.ErrCorruptedTables},
		{"section byte", func(d []byte) []byte {
			d[first.Offset+100] ^= 0x01
			return d
		}, qblufferrors.ErrChecksumFailed},
		{"footer hash", func(d []byte) []byte { d[len(d)-footerSize] ^= 0xFF; return d }, qblufferrors.ErrChecksumFailed},
		{"reserved header byte", func(d []byte) []byte { d[40] = 1; return d }, qblufferrors.ErrChecksumFailed},
		{"truncated", func(d []byte) []byte { return d[:len(d)-100] }, qblufferrors.ErrTruncatedFile},
		{"section count", func(d []byte) []byte {
			binary.LittleEndian.PutUint64(d[headerSize+16:], first.Count-1)
			return d
		}, qblufferrors.ErrCorruptedTables},
		{"duplicate section", func(d []byte) []byte {
			copy(d[headerSize+sectionEntrySize:headerSize+2*sectionEntrySize], d[headerSize:headerSize+sectionEntrySize])
			return d
		}, qblufferrors.ErrCorruptedTables},
		{"unknown section", func(d []byte) []byte {
			binary.LittleEndian.PutUint16(d[headerSize:], 0xFFFF)
			return d
		}, qblufferrors.ErrCorruptedTables},
		{"resealed swap", func(d []byte) []byte {
			// Swap two noflush5 entries and fix up the checksums: only
			// validation against the class enumeration can catch this.
			nf := decodeSectionEntry(d[headerSize+sectionEntrySize:])
			a, b := nf.Offset, nf.Offset+2
			d[a], d[a+1], d[b], d[b+1] = d[b], d[b+1], d[a], d[a+1]
			reseal(d)
			return d
		}, qblufferrors.ErrNotBijective},
		{"resealed noflush7", func(d []byte) []byte {
			// Every 7-card entry claims a royal flush. Each entry is still a
			// valid rank, so only rebuilding the table exposes it.
			nf7 := decodeSectionEntry(d[headerSize+3*sectionEntrySize:])
			for i := uint64(0); i < nf7.Count; i++ {
				binary.LittleEndian.PutUint16(d[nf7.Offset+2*i:], 1)
			}
			reseal(d)
			return d
		}, qblufferrors.ErrTableMismatch},
		{"resealed six-card flush", func(d []byte) []byte {
			fl := decodeSectionEntry(d[headerSize:])
			binary.LittleEndian.PutUint16(d[fl.Offset+2*(0b111111<<7):], 1599)
			reseal(d)
			return d
		}, qblufferrors.ErrTableMismatch},
		{"resealed zero", func(d []byte) []byte {
			nf9 := decodeSectionEntry(d[headerSize+5*sectionEntrySize:])
			d[nf9.Offset], d[nf9.Offset+1] = 0, 0
			reseal(d)
			return d
		}, qblufferrors.ErrIncompleteTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.corrupt(slices.Clone(valid))
			_, err := OpenBytes(data, WithLogger(quietLogger()))
			if !errors.Is(err, tt.want) {
				t.Errorf("OpenBytes = %v, want %v", err, tt.want)
			}
		})
	}

	// A hand ranked through the tampered 7-card table would read as a royal
	// flush; the load must fail instead.
	tampered := slices.Clone(valid)
	nf7 := decodeSectionEntry(tampered[headerSize+3*sectionEntrySize:])
	for i := uint64(0); i < nf7.Count; i++ {
		binary.LittleEndian.PutUint16(tampered[nf7.Offset+2*i:], 1)
	}
	reseal(tampered)
	loaded, err := OpenBytes(tampered, WithLogger(quietLogger()))
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, qblufferrors.ErrCorruptedTables)

	// Resealed table damage is also reported as corrupted tables.
	swapped := slices.Clone(valid)
	nf := decodeSectionEntry(swapped[headerSize+sectionEntrySize:])
	swapped[nf.Offset], swapped[nf.Offset+2] = swapped[nf.Offset+2], swapped[nf.Offset]
	reseal(swapped)
	_, err = OpenBytes(swapped, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, qblufferrors.ErrCorruptedTables)
}

func TestSnapshotLayout(t *testing.T) {
	l := planSnapshot(false)
	assert.Len(t, l.entries, numSectionIDs-2)
	for i, e := range l.entries {
		assert.Zero(t, e.Offset%sectionAlign, "section %s misaligned", e.ID)
		if i > 0 {
			prev := l.entries[i-1]
			assert.GreaterOrEqual(t, e.Offset, prev.Offset+prev.size(), "section %s overlaps", e.ID)
		}
	}
	assert.Len(t, planSnapshot(true).entries, numSectionIDs)
	assert.Equal(t, "noflush7", sectionNoFlush7.String())
	assert.Equal(t, "flush_plo4", sectionFlushPlo4.String())
}

func TestLoadDefaultFromSnapshot(t *testing.T) {
	tb := baseTables(t)
	path := writeTestSnapshot(t, tb)

	cfg := config.DefaultConfig()
	cfg.TablesPath = path
	cfg.Omaha = false
	loaded, err := loadDefault(cfg)
	require.NoError(t, err)
	sameRanks(t, tb, loaded)

	// A missing snapshot falls back to building.
	cfg.TablesPath = filepath.Join(t.TempDir(), "missing.qblf")
	built, err := loadDefault(cfg)
	require.NoError(t, err)
	assert.False(t, built.HasOmaha())

	// A damaged snapshot is an error, not a silent rebuild.
	require.NoError(t, os.WriteFile(cfg.TablesPath, []byte("not a snapshot"), 0o644))
	_, err = loadDefault(cfg)
	assert.ErrorIs(t, err, qblufferrors.ErrTruncatedFile)
}

func TestDefaultIsShared(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping default table build in short mode")
	}
	a, b := Default(), Default()
	require.Same(t, a, b)
	assert.Equal(t, HandRank(1), Evaluate5([5]Card(MustParseCards("As Ks Qs Js Ts"))))
	r, err := Evaluate(MustParseCards("7c 5d 4h 3s 2c")...)
	require.NoError(t, err)
	assert.Equal(t, HandRank(NumHandRanks), r)
	assert.Equal(t, "Seven-High", Describe(r))
	assert.Equal(t, "75432", SampleHand(r))
}
