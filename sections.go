package qbluff

import (
	"encoding/binary"
	"slices"

	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/combin"
	"github.com/chefmatteo/Qbluff/internal/tables"
)

// sectionID identifies one lookup table in a snapshot.
// This is stored in the section directory.
type sectionID uint16

const (
	sectionFlush sectionID = iota
	sectionNoFlush5
	sectionNoFlush6
	sectionNoFlush7
	sectionNoFlush8
	sectionNoFlush9
	sectionSuits
	sectionFlushPlo4
	sectionNoFlushPlo4
)

const numSectionIDs = int(sectionNoFlushPlo4) + 1

// String returns the table name.
func (id sectionID) String() string {
	switch id {
	case sectionFlush:
		return "flush"
	case sectionNoFlush5, sectionNoFlush6, sectionNoFlush7, sectionNoFlush8, sectionNoFlush9:
		return "noflush" + string(rune('0'+id.handSize()))
	case sectionSuits:
		return "suits"
	case sectionFlushPlo4:
		return "flush_plo4"
	case sectionNoFlushPlo4:
		return "noflush_plo4"
	default:
		return "unknown"
	}
}

// handSize returns K for a noflushK section.
func (id sectionID) handSize() int {
	return int(id-sectionNoFlush5) + tables.MinHand
}

// omaha reports whether the section holds an Omaha table.
func (id sectionID) omaha() bool {
	return id == sectionFlushPlo4 || id == sectionNoFlushPlo4
}

// elemSize returns the bytes per table entry.
func (id sectionID) elemSize() uint16 {
	if id == sectionSuits {
		return 1
	}
	return 2
}

// count returns the number of entries the table must have.
func (id sectionID) count() uint64 {
	switch id {
	case sectionFlush:
		return tables.FlushSize
	case sectionNoFlush5, sectionNoFlush6, sectionNoFlush7, sectionNoFlush8, sectionNoFlush9:
		return uint64(combin.QuinarySize(id.handSize()))
	case sectionSuits:
		return intbits.SuitHashSize
	case sectionFlushPlo4:
		return uint64(tables.Plo4FlushSize)
	case sectionNoFlushPlo4:
		return uint64(tables.Plo4NoFlushSize)
	default:
		return 0
	}
}

// wide returns the 16-bit table the section stores, or nil for the suits
// table.
func (id sectionID) wide(s *tables.Set) *[]uint16 {
	switch id {
	case sectionFlush:
		return &s.Flush
	case sectionNoFlush5, sectionNoFlush6, sectionNoFlush7, sectionNoFlush8, sectionNoFlush9:
		return &s.NoFlush[id.handSize()]
	case sectionFlushPlo4:
		return &s.FlushPlo4
	case sectionNoFlushPlo4:
		return &s.NoFlushPlo4
	default:
		return nil
	}
}

// encodeInto writes the table in little-endian order. dst must hold
// count()*elemSize() bytes.
func (id sectionID) encodeInto(s *tables.Set, dst []byte) {
	if id == sectionSuits {
		copy(dst, s.Suits)
		return
	}
	for i, v := range *id.wide(s) {
		binary.LittleEndian.PutUint16(dst[2*i:], v)
	}
}

// decodeFrom copies the table out of src into s.
func (id sectionID) decodeFrom(s *tables.Set, src []byte) {
	if id == sectionSuits {
		s.Suits = slices.Clone(src)
		return
	}
	t := make([]uint16, len(src)/2)
	for i := range t {
		t[i] = binary.LittleEndian.Uint16(src[2*i:])
	}
	*id.wide(s) = t
}

// sectionsFor returns the sections written for a table set, in file order.
func sectionsFor(omaha bool) []sectionID {
	ids := make([]sectionID, 0, numSectionIDs)
	for id := sectionFlush; int(id) < numSectionIDs; id++ {
		if id.omaha() && !omaha {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
