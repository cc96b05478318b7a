package qbluff

import (
	"encoding/binary"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	"github.com/chefmatteo/Qbluff/internal/tables"
)

const (
	// magic number for table snapshot files
	// "QBLF" in little-endian
	magic = uint32(0x464C4251)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (64 bytes)
	headerSize = 64

	// sectionEntrySize is the size of one section directory entry (32 bytes)
	sectionEntrySize = 32

	// footerSize is the exact size of the serialized footer (32 bytes)
	footerSize = 32

	// sectionAlign is the alignment of every section's data.
	sectionAlign = 8
)

// Header flags.
const (
	flagOmaha uint16 = 1 << iota
)

// header is the 64-byte file header.
//
// Layout:
//
//	Offset  Size  Field        Type
//	0       4     Magic        0x464C4251 ("QBLF")
//	4       2     Version      0x0001
//	6       2     Flags        uint16_le (bit 0: Omaha tables present)
//	8       2     NumSections  uint16_le
//	10      4     NumClasses   uint32_le (7462)
//	14      50    Reserved     [50]byte (zero)
//
// The section directory follows the header.
type header struct {
	Magic       uint32   // 4 bytes: magic number 0x464C4251
	Version     uint16   // 2 bytes: format version
	Flags       uint16   // 2 bytes: feature flags
	NumSections uint16   // 2 bytes: number of directory entries
	NumClasses  uint32   // 4 bytes: number of hand classes
	Reserved    [50]byte // 50 bytes: reserved (zero)
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.Flags)
	binary.LittleEndian.PutUint16(buf[8:10], h.NumSections)
	binary.LittleEndian.PutUint32(buf[10:14], h.NumClasses)
	copy(buf[14:64], h.Reserved[:])
}

// decodeHeader parses a 64-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, qblufferrors.ErrTruncatedFile
	}

	h := &header{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Version:     binary.LittleEndian.Uint16(buf[4:6]),
		Flags:       binary.LittleEndian.Uint16(buf[6:8]),
		NumSections: binary.LittleEndian.Uint16(buf[8:10]),
		NumClasses:  binary.LittleEndian.Uint32(buf[10:14]),
	}
	copy(h.Reserved[:], buf[14:64])

	if h.Magic != magic {
		return nil, qblufferrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, qblufferrors.ErrInvalidVersion
	}
	if h.NumClasses != tables.NumClasses {
		return nil, qblufferrors.ErrCorruptedTables
	}
	if h.NumSections == 0 || int(h.NumSections) > numSectionIDs {
		return nil, qblufferrors.ErrCorruptedTables
	}

	return h, nil
}

// hasOmaha returns true if the snapshot stores the Omaha tables.
func (h *header) hasOmaha() bool {
	return h.Flags&flagOmaha != 0
}

// sectionEntry is one 32-byte section directory entry.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       2     ID        uint16_le (sectionID)
//	2       2     ElemSize  uint16_le (bytes per table entry)
//	4       4     Reserved  [4]byte (zero)
//	8       8     Offset    uint64_le (from start of file)
//	16      8     Count     uint64_le (table entries)
//	24      8     Checksum  uint64_le (xxh3 of the section data)
type sectionEntry struct {
	ID       sectionID
	ElemSize uint16
	Offset   uint64
	Count    uint64
	Checksum uint64
}

// size returns the byte length of the section data.
func (e sectionEntry) size() uint64 {
	return e.Count * uint64(e.ElemSize)
}

// encodeTo serializes the entry into an existing buffer.
func (e sectionEntry) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(e.ID))
	binary.LittleEndian.PutUint16(buf[2:4], e.ElemSize)
	clear(buf[4:8])
	binary.LittleEndian.PutUint64(buf[8:16], e.Offset)
	binary.LittleEndian.PutUint64(buf[16:24], e.Count)
	binary.LittleEndian.PutUint64(buf[24:32], e.Checksum)
}

// decodeSectionEntry parses a 32-byte directory entry.
func decodeSectionEntry(buf []byte) sectionEntry {
	return sectionEntry{
		ID:       sectionID(binary.LittleEndian.Uint16(buf[0:2])),
		ElemSize: binary.LittleEndian.Uint16(buf[2:4]),
		Offset:   binary.LittleEndian.Uint64(buf[8:16]),
		Count:    binary.LittleEndian.Uint64(buf[16:24]),
		Checksum: binary.LittleEndian.Uint64(buf[24:32]),
	}
}

// footer is the 32-byte file footer.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       8     FileHash  uint64_le (xxHash64 of every byte before the footer)
//	8       24    Reserved  [24]byte (zero)
type footer struct {
	FileHash uint64   // 8 bytes: xxHash64 of header, directory and sections
	Reserved [24]byte // 24 bytes: reserved for future use
}

// encodeTo serializes the footer into an existing buffer.
func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.FileHash)
	copy(buf[8:32], f.Reserved[:])
}

// decodeFooter parses a 32-byte footer.
func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, qblufferrors.ErrTruncatedFile
	}

	f := &footer{
		FileHash: binary.LittleEndian.Uint64(buf[0:8]),
	}
	copy(f.Reserved[:], buf[8:32])

	return f, nil
}

// alignUp rounds n up to a multiple of sectionAlign.
func alignUp(n uint64) uint64 {
	return (n + sectionAlign - 1) &^ (sectionAlign - 1)
}
