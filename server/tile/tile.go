// Package tile implements the auxiliary per-position state of blocks that need more data than their type and
// meta hold: furnaces, signs and flower pots.
package tile

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
	"github.com/dm-vev/voxeltick/server/world"
)

const (
	// KindFurnace is the kind of the tile of furnaces and burning furnaces.
	KindFurnace world.TileKind = "Furnace"
	// KindSign is the kind of the tile of sign posts and wall signs.
	KindSign world.TileKind = "Sign"
	// KindFlowerPot is the kind of the tile of flower pots.
	KindFlowerPot world.TileKind = "FlowerPot"
)

func init() {
	world.RegisterTile(KindFurnace, func(pos cube.Pos) world.Tile { return NewFurnace(pos) })
	world.RegisterTile(KindSign, func(pos cube.Pos) world.Tile { return NewSign(pos) })
	world.RegisterTile(KindFlowerPot, func(pos cube.Pos) world.Tile { return NewFlowerPot(pos) })
}

// base holds the fields shared by all tiles.
type base struct {
	pos cube.Pos
	// Lock, if not empty, is the custom name an item must carry to open the tile.
	Lock string
	// CustomName is the name of the tile displayed to actors viewing it.
	CustomName string
}

// Pos returns the position of the tile.
func (b *base) Pos() cube.Pos {
	return b.pos
}

// Unlocks reports if the item custom name passed opens the tile.
func (b *base) Unlocks(name string) bool {
	return b.Lock == "" || b.Lock == name
}

func (b *base) encodeBase(kind world.TileKind) map[string]any {
	m := map[string]any{"id": string(kind)}
	nbtconv.WritePos(m, b.pos)
	if b.Lock != "" {
		m["Lock"] = b.Lock
	}
	if b.CustomName != "" {
		m["CustomName"] = b.CustomName
	}
	return m
}

func (b *base) decodeBase(data map[string]any) {
	b.Lock = nbtconv.String(data, "Lock")
	b.CustomName = nbtconv.String(data, "CustomName")
}
