package block

import (
	"math/rand/v2"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/tile"
	"github.com/dm-vev/voxeltick/server/world"
)

// Flower pot metas. The meta only signals if the pot holds a plant; the plant itself is held by the tile.
const (
	flowerPotEmpty = 0
	flowerPotFull  = 1
)

// flowerPot is the behaviour of flower pots.
type flowerPot struct {
	basic
}

// TileKind ...
func (flowerPot) TileKind() world.TileKind {
	return tile.KindFlowerPot
}

// BBox ...
func (flowerPot) BBox(world.Block) []cube.BBox {
	return []cube.BBox{cube.Box(0.3125, 0, 0.3125, 0.6875, 0.375, 0.6875)}
}

// Place places the flower pot if the block below can support it and creates its tile.
func (flowerPot) Place(ctx *world.PlaceContext) bool {
	w, ok := ctx.Pos.World()
	if !ok {
		return false
	}
	if _, below := support(ctx.Pos, w); properties(below.Type).Transparent {
		return false
	}
	if !place(ctx, world.Block{Type: FlowerPot, Meta: flowerPotEmpty}) {
		return false
	}
	if _, err := w.CreateTile(tile.KindFlowerPot, ctx.Pos.Pos(), tileData(ctx.Item)); err != nil {
		w.Logger().Error("Create flower pot tile.", "pos", ctx.Pos.Pos(), "error", err)
	}
	return true
}

// Activate pots one item of the held stack if the pot is empty and the item is a plant.
func (flowerPot) Activate(pos world.Position, b world.Block, held *item.Stack, actor world.Actor) bool {
	w, ok := pos.World()
	if !ok {
		return false
	}
	t, _ := w.Tile(pos.Pos())
	pot, ok := t.(*tile.FlowerPot)
	if !ok {
		return false
	}
	if held == nil || !pot.CanAddItem(*held) {
		return true
	}
	if !change(w, pos.Pos(), world.Block{Type: b.Type, Meta: flowerPotFull}, actor, &world.SetOpts{DisableBlockUpdates: true}) {
		return true
	}
	pot.SetItem(*held)
	*held = held.Grow(-1)
	return true
}

// Update breaks the flower pot when the block below it no longer supports it.
func (flowerPot) Update(pos world.Position, _ world.Block, kind world.UpdateKind, _ *rand.Rand) world.UpdateKind {
	w, ok := pos.World()
	if !ok || kind != world.UpdateNormal {
		return world.UpdateNone
	}
	if _, below := support(pos, w); !properties(below.Type).Transparent {
		return world.UpdateNone
	}
	breakBlock(w, pos.Pos(), item.Stack{}, nil)
	return world.UpdateNormal
}

// Drops returns the flower pot and the plant potted in it.
func (flowerPot) Drops(pos world.Position, _ world.Block, _ item.Stack) []item.Stack {
	drops := []item.Stack{item.NewStack(item.FlowerPot, 0, 1)}
	w, ok := pos.World()
	if !ok {
		return drops
	}
	t, _ := w.Tile(pos.Pos())
	if pot, ok := t.(*tile.FlowerPot); ok && !pot.Empty() {
		drops = append(drops, pot.Item())
	}
	return drops
}
