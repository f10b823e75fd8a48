// Package block implements the behaviour of every block type: how blocks are placed, how they react to
// actors, updates and random ticks, and what they drop when broken.
package block

import (
	"maps"
	"math/rand/v2"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/entity"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Block types. Types of blocks that are placed by an item share the numeric ID of that item.
const (
	Air            = world.BlockType(item.Air)
	Stone          = world.BlockType(item.Stone)
	Grass          = world.BlockType(item.Grass)
	Dirt           = world.BlockType(item.Dirt)
	Cobblestone    = world.BlockType(item.Cobblestone)
	Planks         = world.BlockType(item.Planks)
	Sapling        = world.BlockType(item.Sapling)
	Sand           = world.BlockType(item.Sand)
	Gravel         = world.BlockType(item.Gravel)
	GoldOre        = world.BlockType(item.GoldOre)
	IronOre        = world.BlockType(item.IronOre)
	CoalOre        = world.BlockType(item.CoalOre)
	Log            = world.BlockType(item.Log)
	Leaves         = world.BlockType(item.Leaves)
	Glass          = world.BlockType(item.Glass)
	TallGrass      = world.BlockType(item.TallGrass)
	DeadBush       = world.BlockType(item.DeadBush)
	Dandelion      = world.BlockType(item.Dandelion)
	Poppy          = world.BlockType(item.Poppy)
	BrownMushroom  = world.BlockType(item.BrownMushroom)
	RedMushroom    = world.BlockType(item.RedMushroom)
	Farmland       = world.BlockType(item.Farmland)
	Furnace        = world.BlockType(item.Furnace)
	BurningFurnace = world.BlockType(item.BurningFurnace)
	Cactus         = world.BlockType(item.Cactus)
	GrassPath      = world.BlockType(item.GrassPath)

	SignPost  world.BlockType = 63
	WallSign  world.BlockType = 68
	FlowerPot world.BlockType = 140
)

// CoarseDirtMeta is the meta of dirt that grass cannot spread to.
const CoarseDirtMeta = 1

// BlockEntityTag is the key of the item value holding the tile data a block placed by the item is created
// with.
const BlockEntityTag = "BlockEntityTag"

// basic implements world.Behaviour for a block that only has static properties. Other behaviours embed it
// and override what they need.
type basic struct {
	t world.BlockType
	// drops computes the drops of the block. If nil, the block drops itself.
	drops func(b world.Block, tool item.Stack) []item.Stack
}

// Place ...
func (basic) Place(ctx *world.PlaceContext) bool {
	return place(ctx, ctx.Block)
}

// Activate ...
func (basic) Activate(world.Position, world.Block, *item.Stack, world.Actor) bool {
	return false
}

// Update ...
func (basic) Update(world.Position, world.Block, world.UpdateKind, *rand.Rand) world.UpdateKind {
	return world.UpdateNone
}

// Drops ...
func (s basic) Drops(_ world.Position, b world.Block, tool item.Stack) []item.Stack {
	if s.drops != nil {
		return s.drops(b, tool)
	}
	return []item.Stack{item.NewStack(item.ID(b.Type), int16(b.Meta), 1)}
}

// TicksRandomly ...
func (basic) TicksRandomly() bool {
	return false
}

// Properties ...
func (s basic) Properties() world.Properties {
	return properties(s.t)
}

// dropNothing is a drops function for blocks that drop nothing.
func dropNothing(world.Block, item.Stack) []item.Stack {
	return nil
}

// dropAs returns a drops function that drops one item of the ID and meta passed.
func dropAs(id item.ID, meta int16) func(world.Block, item.Stack) []item.Stack {
	return func(world.Block, item.Stack) []item.Stack {
		return []item.Stack{item.NewStack(id, meta, 1)}
	}
}

// place publishes a BlockPlace event for b at the position of ctx and writes b if it was not cancelled.
func place(ctx *world.PlaceContext, b world.Block) bool {
	w, ok := ctx.Pos.World()
	if !ok {
		return false
	}
	pos := ctx.Pos.Pos()
	ev := world.NewBlockEvent(event.BlockPlace, pos, w.Block(pos), b)
	ev.Actor = ctx.Actor
	return w.ChangeBlock(ev, nil)
}

// change publishes a BlockChange event replacing the block at pos with b, and writes b if it was not
// cancelled.
func change(w *world.World, pos cube.Pos, b world.Block, actor world.Actor, opts *world.SetOpts) bool {
	ev := world.NewBlockEvent(event.BlockChange, pos, w.Block(pos), b)
	ev.Actor = actor
	return w.ChangeBlock(ev, opts)
}

// breakBlock breaks the block at pos as if it was broken using the tool passed, spawning its drops.
func breakBlock(w *world.World, pos cube.Pos, tool item.Stack, actor world.Actor) bool {
	b := w.Block(pos)
	if b == world.Air {
		return false
	}
	ev := world.NewBlockEvent(event.BlockBreak, pos, b, world.Air)
	ev.Actor = actor
	if event.Publish(w.Bus(), ev).Cancelled() {
		return false
	}
	// Drops are computed before the block is removed, as they may depend on its tile.
	drops := w.Behaviour(b).Drops(w.Position(pos), b, tool)
	if !w.SetBlock(pos, ev.New, nil) {
		return false
	}
	for _, d := range drops {
		dropItem(w, pos, d)
	}
	return true
}

// dropItem spawns an item entity carrying s in the centre of the block at pos.
func dropItem(w *world.World, pos cube.Pos, s item.Stack) {
	if s.Empty() {
		return
	}
	r := w.Rand()
	vel := mgl64.Vec3{r.Float64()*0.2 - 0.1, 0.2, r.Float64()*0.2 - 0.1}
	w.AddEntity(entity.NewItem(s, pos.Vec3Centre(), vel))
}

// tileData returns the data the tile of a block placed using the item passed is created with: the
// BlockEntityTag of the item and its custom name.
func tileData(s *item.Stack) map[string]any {
	if s == nil || s.Empty() {
		return nil
	}
	var data map[string]any
	if v, ok := s.Value(BlockEntityTag); ok {
		if m, ok := v.(map[string]any); ok {
			data = maps.Clone(m)
			// The position and kind of the tile are not taken from the item.
			delete(data, "id")
			delete(data, "x")
			delete(data, "y")
			delete(data, "z")
		}
	}
	if name := s.CustomName(); name != "" {
		if data == nil {
			data = make(map[string]any, 1)
		}
		data["CustomName"] = name
	}
	return data
}

// support returns the position and block below the Position passed.
func support(pos world.Position, w *world.World) (cube.Pos, world.Block) {
	below := pos.Pos().Side(cube.FaceDown)
	return below, w.Block(below)
}
