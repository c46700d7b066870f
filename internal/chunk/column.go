// Package chunk implements v47 chunk column serialization: the
// nibble-packed block/light arrays and biome map that make up a Chunk
// Data packet's body, with a byte-identical fast path selected at
// startup based on detected CPU features.
package chunk

import "github.com/Bond-009/siderite/internal/constants"

// Section holds one 16×16×16 cube of a chunk column. BlockTypes is one
// byte per block (the high 4 bits of the wire's 12-bit block id are
// assumed zero here — the core only ever emits vanilla block ids 0-255,
// matching the teacher scope's non-goal of a full block-state registry).
// BlockMetas packs two 4-bit metadata nibbles per byte, low nibble first,
// mirroring the wire format directly so no repacking is needed besides
// the type/meta interleave in Write.
type Section struct {
	BlockTypes    [constants.SectionBlockCount]uint8
	BlockMetas    [constants.SectionBlockCount / 2]uint8
	BlockLight    [constants.NibbleArraySize]uint8
	BlockSkyLight [constants.NibbleArraySize]uint8
}

// NewAirSection returns a section with every block set to air (id 0) and
// full skylight, the state a column lazily materializes into when a
// previously-empty section receives its first non-air block.
func NewAirSection() *Section {
	s := &Section{}
	for i := range s.BlockSkyLight {
		s.BlockSkyLight[i] = 0xff
	}
	return s
}

// Column is one 16-wide, 256-tall chunk column: up to 16 optional
// sections stacked vertically, plus the 16x16 biome map.
type Column struct {
	Sections [constants.SectionCount]*Section
	BiomeMap [constants.BiomeMapSize]uint8
}

// PrimaryBitMask returns the 16-bit mask marking which sections are
// present, in section-index order from the bottom of the world up.
func (c *Column) PrimaryBitMask() uint16 {
	var mask uint16
	for i, s := range c.Sections {
		if s != nil {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// NumSections returns how many of the 16 sections are present.
func (c *Column) NumSections() int {
	n := 0
	for _, s := range c.Sections {
		if s != nil {
			n++
		}
	}
	return n
}

// SerializedSize returns the exact byte length of the packet's "Data"
// field that Write produces, not counting the VarInt size prefix Write
// puts in front of it, letting a caller size that prefix without a
// throwaway encode.
func (c *Column) SerializedSize() int {
	return c.NumSections()*constants.SectionWireSize + constants.BiomeMapSize
}

// GetBlock returns the block type id at the column-relative coordinate.
// Sections that are nil (never touched) read back as air.
func (c *Column) GetBlock(x, y, z int) uint8 {
	section, index := relIndex(x, y, z)
	s := c.Sections[section]
	if s == nil {
		return 0
	}
	return s.BlockTypes[index]
}

// SetBlock writes a block type id at the column-relative coordinate,
// lazily materializing the containing section on first write if needed.
func (c *Column) SetBlock(x, y, z int, blockType uint8) {
	section, index := relIndex(x, y, z)
	if c.Sections[section] == nil {
		if blockType == 0 {
			return
		}
		c.Sections[section] = NewAirSection()
	}
	c.Sections[section].BlockTypes[index] = blockType
}

func relIndex(x, y, z int) (section, index int) {
	section = y / 16
	index = x + z*16 + (y%16)*256
	return section, index
}
