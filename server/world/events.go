package world

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
)

// BlockEvent proposes replacing the block at Pos. Handlers may cancel it or change New.
type BlockEvent struct {
	event.Context
	kind event.Kind

	// Pos is the position of the block changed.
	Pos cube.Pos
	// Old is the block at Pos when the event was published.
	Old Block
	// New is the block that will be written to Pos if the event is not cancelled.
	New Block
	// Source is the position of the block causing the change, such as the grass block spreading. It equals
	// Pos if the block changes on its own.
	Source cube.Pos
	// Actor is the actor that caused the change, if any.
	Actor Actor
}

// Kind ...
func (e *BlockEvent) Kind() event.Kind {
	return e.kind
}

// NewBlockEvent returns a BlockEvent of the kind passed, proposing to replace old at pos with new.
func NewBlockEvent(kind event.Kind, pos cube.Pos, old, new Block) *BlockEvent {
	return &BlockEvent{kind: kind, Pos: pos, Old: old, New: new, Source: pos}
}

// EntitySpawnEvent is published before an entity is added to a world.
type EntitySpawnEvent struct {
	event.Context
	Entity Entity
}

// Kind ...
func (*EntitySpawnEvent) Kind() event.Kind {
	return event.EntitySpawn
}
