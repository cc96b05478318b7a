package qbluff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	"github.com/chefmatteo/Qbluff/internal/tables"
)

// minFileSize is the smallest possible snapshot: a header, one directory
// entry and a footer.
const minFileSize = headerSize + sectionEntrySize + footerSize

// Open loads tables from a snapshot written by WriteFile. The snapshot is
// never trusted: every section checksum and the file hash are verified, the
// five-card tables are validated against a fresh class enumeration, and every
// derived table is rebuilt from them and compared before the tables are
// returned.
func Open(path string, opts ...BuildOption) (*Tables, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table snapshot: %w", err)
	}
	defer file.Close()
	return OpenFile(file, opts...)
}

// OpenFile loads tables by memory-mapping the given file. The tables are
// copied out of the mapping, which is released before OpenFile returns. The
// caller is responsible for closing f.
func OpenFile(f *os.File, opts ...BuildOption) (*Tables, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table snapshot: %w", err)
	}
	if stat.Size() < int64(minFileSize) {
		return nil, qblufferrors.ErrTruncatedFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap table snapshot: %w", err)
	}
	adviseSequential(mm)

	t, err := decodeSnapshot(mm, applyOptions(opts))
	unmapErr := mm.Unmap()
	if err != nil {
		return nil, errors.Join(err, unmapErr)
	}
	if unmapErr != nil {
		return nil, fmt.Errorf("unmap table snapshot: %w", unmapErr)
	}
	return t, nil
}

// OpenBytes loads tables from an in-memory snapshot. data is not retained.
func OpenBytes(data []byte, opts ...BuildOption) (*Tables, error) {
	return decodeSnapshot(data, applyOptions(opts))
}

// decodeSnapshot parses, verifies and validates a snapshot.
func decodeSnapshot(data []byte, cfg *buildConfig) (*Tables, error) {
	start := time.Now()
	fileSize := uint64(len(data))
	if fileSize < minFileSize {
		return nil, qblufferrors.ErrTruncatedFile
	}

	hdr, err := decodeHeader(data[:headerSize])
	if err != nil {
		return nil, err
	}

	// fileSize >= minFileSize > footerSize, so no underflow.
	footerOffset := fileSize - footerSize
	dirEnd := headerSize + uint64(hdr.NumSections)*sectionEntrySize
	if dirEnd > footerOffset {
		return nil, qblufferrors.ErrTruncatedFile
	}

	set := &tables.Set{}
	var seen [numSectionIDs]bool
	for i := uint64(0); i < uint64(hdr.NumSections); i++ {
		offset := headerSize + i*sectionEntrySize
		e := decodeSectionEntry(data[offset : offset+sectionEntrySize])
		if int(e.ID) >= numSectionIDs || seen[e.ID] {
			return nil, fmt.Errorf("%w: section id %d", qblufferrors.ErrCorruptedTables, e.ID)
		}
		seen[e.ID] = true
		if e.ElemSize != e.ID.elemSize() || e.Count != e.ID.count() {
			return nil, fmt.Errorf("%w: %s section shape", qblufferrors.ErrCorruptedTables, e.ID)
		}
		end := e.Offset + e.size()
		if e.Offset < dirEnd || end < e.Offset || end > footerOffset {
			return nil, fmt.Errorf("%w: %s section", qblufferrors.ErrTruncatedFile, e.ID)
		}
		region := data[e.Offset:end]
		if xxh3.Hash(region) != e.Checksum {
			return nil, fmt.Errorf("%w: %s section", qblufferrors.ErrChecksumFailed, e.ID)
		}
		if e.ID.omaha() && !cfg.omaha {
			continue
		}
		e.ID.decodeFrom(set, region)
	}
	for _, id := range sectionsFor(hdr.hasOmaha()) {
		if !seen[id] {
			return nil, fmt.Errorf("%w: missing %s section", qblufferrors.ErrCorruptedTables, id)
		}
	}

	ft, err := decodeFooter(data[footerOffset:])
	if err != nil {
		return nil, err
	}
	if xxhash.Sum64(data[:footerOffset]) != ft.FileHash {
		return nil, qblufferrors.ErrChecksumFailed
	}

	t := newTables(set)
	if err := tables.Validate(set, t.classes); err != nil {
		return nil, fmt.Errorf("%w: %w", qblufferrors.ErrCorruptedTables, err)
	}
	if err := tables.VerifyDerived(context.Background(), set, cfg.workers); err != nil {
		return nil, fmt.Errorf("%w: %w", qblufferrors.ErrCorruptedTables, err)
	}
	cfg.logger.WithFields(logrus.Fields{
		"bytes":   fileSize,
		"omaha":   set.HasOmaha(),
		"elapsed": time.Since(start),
	}).Debug("table snapshot loaded")
	return t, nil
}
