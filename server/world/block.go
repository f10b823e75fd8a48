package world

import (
	"fmt"
	"math/rand/v2"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/item"
)

// BlockType is the numeric type of a block. It is equal to the item.ID of the item that places it, if any.
type BlockType uint16

// Block is a value describing the block at a position: its type and its variant (meta). Blocks are read
// from world storage on every access, so two reads of the same position may return equal but distinct
// values. Blocks carry no behaviour themselves; behaviour is looked up through a BehaviourRegistry.
type Block struct {
	Type BlockType
	Meta uint8
}

// Air is the zero Block.
var Air Block

// String ...
func (b Block) String() string {
	return fmt.Sprintf("Block(%v:%v)", b.Type, b.Meta)
}

// UpdateKind is the kind of signal delivered to a block. It is also returned by Behaviour.Update to report
// which signal, if any, caused a change.
type UpdateKind uint8

const (
	// UpdateNone is returned by Behaviour.Update if the block did not react to the signal.
	UpdateNone UpdateKind = iota
	// UpdateNormal is delivered when a neighbouring block changed.
	UpdateNormal
	// UpdateRandom is delivered to randomly selected, randomly ticking blocks every tick.
	UpdateRandom
	// UpdateScheduled is delivered when a delayed update scheduled through World.ScheduleUpdate is due.
	UpdateScheduled
)

// String ...
func (k UpdateKind) String() string {
	switch k {
	case UpdateNone:
		return "none"
	case UpdateNormal:
		return "normal"
	case UpdateRandom:
		return "random"
	case UpdateScheduled:
		return "scheduled"
	}
	return fmt.Sprintf("UpdateKind(%d)", uint8(k))
}

// Properties holds the static properties of a block variant.
type Properties struct {
	// Name is the display name of the block.
	Name string
	// Hardness is the base time factor of breaking the block.
	Hardness float64
	// LightLevel is the light level the block emits, between 0 and 15.
	LightLevel int
	// LightFilter is the amount of light the block absorbs, between 0 and 15.
	LightFilter int
	// Solid specifies if entities collide with the full cube of the block.
	Solid bool
	// Transparent specifies if the block can not support blocks like flower pots.
	Transparent bool
}

// PlaceContext holds the context in which a block is placed by an actor.
type PlaceContext struct {
	// Item is the item used to place the block. Behaviours may consume from it.
	Item *item.Stack
	// Block is the block about to be placed.
	Block Block
	// Pos is the position the block will be placed at.
	Pos Position
	// Clicked is the position of the block that was clicked.
	Clicked cube.Pos
	// Face is the face of the clicked block that was clicked.
	Face cube.Face
	// Actor is the actor placing the block. It may be nil.
	Actor Actor
}

// Behaviour is the capability set implemented by every block variant. The Block value passed is the one
// read from storage at the moment of the call.
type Behaviour interface {
	// Place places ctx.Block at ctx.Pos, returning false if placement was not possible. An invalid
	// placement is not an error.
	Place(ctx *PlaceContext) bool
	// Activate handles an actor interacting with the block while holding the item passed. The item may be
	// consumed from. True is returned if the interaction was handled.
	Activate(pos Position, b Block, held *item.Stack, actor Actor) bool
	// Update delivers a signal to the block. It returns UpdateNone if the block did not react, or the kind
	// of signal consumed otherwise.
	Update(pos Position, b Block, kind UpdateKind, r *rand.Rand) UpdateKind
	// Drops returns the items dropped when the block is broken using the tool passed.
	Drops(pos Position, b Block, tool item.Stack) []item.Stack
	// TicksRandomly reports if the block should receive UpdateRandom signals.
	TicksRandomly() bool
	// Properties returns the static properties of the block.
	Properties() Properties
}

// TileBearer is implemented by behaviours of blocks that require a Tile at their position.
type TileBearer interface {
	TileKind() TileKind
}

// BBoxer is implemented by behaviours of blocks with a collision box other than the full cube implied by
// Properties.Solid.
type BBoxer interface {
	BBox(b Block) []cube.BBox
}

// BehaviourRegistry resolves the Behaviour of a Block.
type BehaviourRegistry interface {
	// Behaviour returns the behaviour of the block passed. It never returns nil.
	Behaviour(b Block) Behaviour
}

// Actor is an entity acting on the world, such as a player placing a block.
type Actor interface {
	// RuntimeID returns the runtime ID of the actor, used to address network notifications.
	RuntimeID() uint64
	// Yaw returns the horizontal rotation of the actor in degrees. A yaw of 0 looks south.
	Yaw() float64
}

// NopBehaviour is a Behaviour that never reacts. It is used for blocks without a registered behaviour.
type NopBehaviour struct{}

func (NopBehaviour) Place(*PlaceContext) bool                                  { return false }
func (NopBehaviour) Activate(Position, Block, *item.Stack, Actor) bool         { return false }
func (NopBehaviour) Update(Position, Block, UpdateKind, *rand.Rand) UpdateKind { return UpdateNone }
func (NopBehaviour) Drops(Position, Block, item.Stack) []item.Stack            { return nil }
func (NopBehaviour) TicksRandomly() bool                                       { return false }
func (NopBehaviour) Properties() Properties                                    { return Properties{Name: "Unknown"} }

type nopRegistry struct{}

func (nopRegistry) Behaviour(Block) Behaviour { return NopBehaviour{} }

// fullCube is the collision box of a solid block.
var fullCube = []cube.BBox{cube.Box(0, 0, 0, 1, 1, 1)}

// blockBBoxes returns the collision boxes of the block passed, relative to its position.
func blockBBoxes(beh Behaviour, b Block) []cube.BBox {
	if bb, ok := beh.(BBoxer); ok {
		return bb.BBox(b)
	}
	if beh.Properties().Solid {
		return fullCube
	}
	return nil
}
