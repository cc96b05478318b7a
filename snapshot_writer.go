package qbluff

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/zeebo/xxh3"

	"github.com/chefmatteo/Qbluff/internal/tables"
)

// snapshotLayout places every section of a snapshot.
// File layout: [Header 64B][Section directory N×32B][Sections, 8-byte aligned][Footer 32B]
type snapshotLayout struct {
	header  header
	entries []sectionEntry
	size    uint64
}

// planSnapshot computes section offsets and the exact file size.
func planSnapshot(omaha bool) snapshotLayout {
	ids := sectionsFor(omaha)
	l := snapshotLayout{
		header: header{
			Magic:       magic,
			Version:     version,
			NumSections: uint16(len(ids)),
			NumClasses:  tables.NumClasses,
		},
		entries: make([]sectionEntry, len(ids)),
	}
	if omaha {
		l.header.Flags |= flagOmaha
	}

	offset := alignUp(headerSize + uint64(len(ids))*sectionEntrySize)
	for i, id := range ids {
		l.entries[i] = sectionEntry{
			ID:       id,
			ElemSize: id.elemSize(),
			Offset:   offset,
			Count:    id.count(),
		}
		offset = alignUp(offset + l.entries[i].size())
	}
	l.size = offset + footerSize
	return l
}

// encodeSnapshot serializes s into dst, which must be l.size zeroed bytes.
// Section checksums are computed while each section is hot in cache.
func encodeSnapshot(dst []byte, s *tables.Set, l *snapshotLayout) {
	for i := range l.entries {
		e := &l.entries[i]
		region := dst[e.Offset : e.Offset+e.size()]
		e.ID.encodeInto(s, region)
		e.Checksum = xxh3.Hash(region)
	}

	l.header.encodeTo(dst[0:headerSize])
	for i, e := range l.entries {
		offset := headerSize + uint64(i)*sectionEntrySize
		e.encodeTo(dst[offset : offset+sectionEntrySize])
	}

	footerOffset := l.size - footerSize
	ftr := footer{FileHash: xxhash.Sum64(dst[:footerOffset])}
	ftr.encodeTo(dst[footerOffset:])
}

// snapshotWriter writes a snapshot through a memory-mapped, pre-allocated
// file.
type snapshotWriter struct {
	file *os.File
	mmap mmap.MMap // Memory-mapped region
	data []byte    // View into mmap for direct writes
}

// newSnapshotWriter creates path with size bytes and maps it for writing.
func newSnapshotWriter(path string, size uint64) (*snapshotWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	sw := &snapshotWriter{
		file: file,
		mmap: mm,
		data: []byte(mm),
	}
	// On Linux 5.14+, uses MADV_POPULATE_WRITE. No-op on other platforms.
	prefaultRegion(sw.data)
	return sw, nil
}

// finalize flushes and unmaps the file. On error, delegates to close() for
// idempotent cleanup.
func (sw *snapshotWriter) finalize() error {
	// Flush dirty pages to file (ensures writes visible before unmap)
	if err := sw.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, sw.close())
	}

	unmapErr := sw.mmap.Unmap()
	sw.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, sw.close())
	}

	closeErr := sw.file.Close()
	sw.file = nil
	return closeErr
}

// close closes the writer without finalizing (for error cleanup).
// Idempotent: safe to call multiple times.
func (sw *snapshotWriter) close() error {
	var unmapErr error
	if sw.mmap != nil {
		unmapErr = sw.mmap.Unmap()
		sw.mmap = nil
	}
	var closeErr error
	if sw.file != nil {
		closeErr = sw.file.Close()
		sw.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}

// WriteFile writes the tables to a snapshot file that Open can load.
func (t *Tables) WriteFile(path string) error {
	layout := planSnapshot(t.set.HasOmaha())
	sw, err := newSnapshotWriter(path, layout.size)
	if err != nil {
		return err
	}
	encodeSnapshot(sw.data, t.set, &layout)
	return sw.finalize()
}

// MarshalBinary returns the snapshot encoding of the tables.
func (t *Tables) MarshalBinary() ([]byte, error) {
	layout := planSnapshot(t.set.HasOmaha())
	buf := make([]byte, layout.size)
	encodeSnapshot(buf, t.set, &layout)
	return buf, nil
}
