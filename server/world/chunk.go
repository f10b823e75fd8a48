package world

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
)

// ChunkPos holds the position of a column of 16x16 blocks, spanning the full height of a World.
type ChunkPos [2]int32

// X returns the X coordinate of the chunk position.
func (p ChunkPos) X() int32 { return p[0] }

// Z returns the Z coordinate of the chunk position.
func (p ChunkPos) Z() int32 { return p[1] }

// chunkPosFromBlockPos returns the ChunkPos of the column that holds the block position passed.
func chunkPosFromBlockPos(p cube.Pos) ChunkPos {
	return ChunkPos{int32(p[0] >> 4), int32(p[2] >> 4)}
}

// subChunk holds the blocks of a 16x16x16 section of a column.
type subChunk struct {
	blocks [4096]Block
	// nonAir is the amount of blocks in the sub chunk that are not air.
	nonAir int
}

func subIndex(x, y, z uint8) int {
	return int(x)<<8 | int(z)<<4 | int(y)
}

// At returns the block at the local coordinates passed.
func (s *subChunk) At(x, y, z uint8) Block {
	return s.blocks[subIndex(x, y, z)]
}

// Set sets the block at the local coordinates passed.
func (s *subChunk) Set(x, y, z uint8, b Block) {
	i := subIndex(x, y, z)
	if (s.blocks[i] == Air) != (b == Air) {
		if b == Air {
			s.nonAir--
		} else {
			s.nonAir++
		}
	}
	s.blocks[i] = b
}

// Empty reports if the sub chunk only holds air.
func (s *subChunk) Empty() bool {
	return s == nil || s.nonAir == 0
}

// column is a vertical stack of sub chunks.
type column struct {
	sub []*subChunk
	r   cube.Range
}

func newColumn(r cube.Range) *column {
	return &column{sub: make([]*subChunk, (r.Height()>>4)+1), r: r}
}

func (c *column) subY(y int) int {
	return (y - c.r.Min()) >> 4
}

// Block returns the block at the position passed. Only the lower 4 bits of x and z are used.
func (c *column) Block(x uint8, y int, z uint8) Block {
	s := c.sub[c.subY(y)]
	if s == nil {
		return Air
	}
	return s.At(x&0xf, uint8(y-c.r.Min())&0xf, z&0xf)
}

// SetBlock sets the block at the position passed.
func (c *column) SetBlock(x uint8, y int, z uint8, b Block) {
	i := c.subY(y)
	s := c.sub[i]
	if s == nil {
		if b == Air {
			return
		}
		s = new(subChunk)
		c.sub[i] = s
	}
	s.Set(x&0xf, uint8(y-c.r.Min())&0xf, z&0xf, b)
}

// Sub returns the sub chunks of the column. Entries may be nil.
func (c *column) Sub() []*subChunk {
	return c.sub
}

// encode encodes the non-empty sub chunks of the column into a compound.
func (c *column) encode(pos ChunkPos) map[string]any {
	subs := make([]map[string]any, 0, len(c.sub))
	for i, s := range c.sub {
		if s.Empty() {
			continue
		}
		blocks := make([]int32, len(s.blocks))
		for j, b := range s.blocks {
			blocks[j] = int32(b.Type)<<8 | int32(b.Meta)
		}
		subs = append(subs, map[string]any{"Y": uint8(i), "Blocks": blocks})
	}
	return map[string]any{"x": pos[0], "z": pos[1], "Sub": subs}
}

// decodeColumn decodes a column previously encoded using column.encode.
func decodeColumn(data map[string]any, r cube.Range) *column {
	c := newColumn(r)
	for _, v := range nbtconv.Slice(data, "Sub") {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		i := int(nbtconv.Uint8(m, "Y"))
		if i >= len(c.sub) {
			continue
		}
		blocks := decodeBlocks(m["Blocks"])
		if len(blocks) != 4096 {
			continue
		}
		s := new(subChunk)
		for j, v := range blocks {
			s.blocks[j] = Block{Type: BlockType(v >> 8), Meta: uint8(v)}
			if s.blocks[j] != Air {
				s.nonAir++
			}
		}
		c.sub[i] = s
	}
	return c
}

func decodeBlocks(v any) []int32 {
	switch blocks := v.(type) {
	case []int32:
		return blocks
	case []any:
		out := make([]int32, 0, len(blocks))
		for _, b := range blocks {
			if i, ok := b.(int32); ok {
				out = append(out, i)
			}
		}
		return out
	}
	return nil
}
