package block

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

// UseItemOn handles an actor using the held item on the face of the block at clicked. The clicked block is
// activated first; if it does not handle the interaction, the block of the held item is placed against the
// face clicked and one item is consumed from held. True is returned if either happened.
func UseItemOn(w *world.World, clicked cube.Pos, face cube.Face, held *item.Stack, actor world.Actor) bool {
	if w.Closed() {
		return false
	}
	if Activate(w, clicked, held, actor) {
		return true
	}
	if held == nil {
		return false
	}
	b, ok := ItemBlock(*held)
	if !ok {
		return false
	}
	target := clicked.Side(face)
	if target.OutOfBounds(w.Range()) || !replaceable(w.Block(target)) {
		return false
	}
	ctx := &world.PlaceContext{
		Item:    held,
		Block:   b,
		Pos:     w.Position(target),
		Clicked: clicked,
		Face:    face,
		Actor:   actor,
	}
	if !w.Behaviour(b).Place(ctx) {
		return false
	}
	*held = held.Grow(-1)
	return true
}

// Activate activates the block at pos with the held item, which may be nil.
func Activate(w *world.World, pos cube.Pos, held *item.Stack, actor world.Actor) bool {
	if w.Closed() {
		return false
	}
	b := w.Block(pos)
	if b == world.Air {
		return false
	}
	return w.Behaviour(b).Activate(w.Position(pos), b, held, actor)
}

// Break breaks the block at pos using the tool passed, spawning its drops as item entities.
func Break(w *world.World, pos cube.Pos, tool item.Stack, actor world.Actor) bool {
	if w.Closed() {
		return false
	}
	return breakBlock(w, pos, tool, actor)
}

// replaceable reports if a block may be replaced by placing another block in its position.
func replaceable(b world.Block) bool {
	return b == world.Air || b.Type == TallGrass
}
