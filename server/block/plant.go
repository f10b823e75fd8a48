package block

import (
	"math/rand/v2"

	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

// plant is the behaviour of blocks that need a specific block below them, such as flowers and saplings.
// They break when that block is removed.
type plant struct {
	basic
	soil func(below world.Block) bool
}

func fertile(b world.Block) bool {
	return b.Type == Grass || b.Type == Dirt || b.Type == Farmland
}

func sandy(b world.Block) bool {
	return b.Type == Sand
}

func opaque(b world.Block) bool {
	return !properties(b.Type).Transparent
}

// Place ...
func (p plant) Place(ctx *world.PlaceContext) bool {
	w, ok := ctx.Pos.World()
	if !ok {
		return false
	}
	if _, below := support(ctx.Pos, w); !p.soil(below) {
		return false
	}
	return place(ctx, ctx.Block)
}

// Update ...
func (p plant) Update(pos world.Position, _ world.Block, kind world.UpdateKind, _ *rand.Rand) world.UpdateKind {
	w, ok := pos.World()
	if !ok || kind != world.UpdateNormal {
		return world.UpdateNone
	}
	if _, below := support(pos, w); p.soil(below) {
		return world.UpdateNone
	}
	breakBlock(w, pos.Pos(), item.Stack{}, nil)
	return world.UpdateNormal
}
