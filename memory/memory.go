// Package memory models the canister's byte-addressable persistent memory.
// A memory manager maps each 8-bit ID to an independent region that is grown
// in page units and survives code upgrades.
package memory

import "fmt"

// PageSize is the number of bytes in one page of persistent memory.
const PageSize = 65536

// HeaderSize is the number of bytes reserved at the start of every region
// used by the upgrade engine. The header is currently unused and must be
// left untouched.
const HeaderSize = 1024

// ID identifies an independent persistent region.
type ID uint8

func (id ID) String() string {
	return fmt.Sprintf("%d", uint8(id))
}

// Memory is a byte-addressable persistent region, grown in page units.
//
// Read and Write panic when the accessed range falls outside the current
// size of the region; the caller must ensure capacity first.
type Memory interface {
	// Size returns the current size in pages.
	Size() uint64
	// Grow extends the region by pages and returns the new size in pages,
	// or -1 when the region cannot grow.
	Grow(pages uint64) int64
	// Read fills dst with the bytes starting at offset.
	Read(offset uint64, dst []byte)
	// Write copies src into the region starting at offset.
	Write(offset uint64, src []byte)
}
