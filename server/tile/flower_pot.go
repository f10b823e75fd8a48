package tile

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

// FlowerPot is the tile of a flower pot. It holds the single plant potted in it.
type FlowerPot struct {
	base
	plant item.Stack
}

// NewFlowerPot returns an empty flower pot tile at pos.
func NewFlowerPot(pos cube.Pos) *FlowerPot {
	return &FlowerPot{base: base{pos: pos}}
}

// Kind ...
func (*FlowerPot) Kind() world.TileKind {
	return KindFlowerPot
}

// Empty reports if the pot holds no plant.
func (p *FlowerPot) Empty() bool {
	return p.plant.Empty()
}

// Item returns the plant in the pot. The stack is empty if the pot is empty.
func (p *FlowerPot) Item() item.Stack {
	return p.plant
}

// SetItem puts a single item of the stack passed into the pot. An empty stack empties the pot.
func (p *FlowerPot) SetItem(s item.Stack) {
	if s.Empty() {
		p.plant = item.Stack{}
		return
	}
	p.plant = item.NewStack(s.ID(), s.Meta(), 1)
}

// CanAddItem reports if the stack passed can be potted: the pot must be empty and the item must be a plant.
func (p *FlowerPot) CanAddItem(s item.Stack) bool {
	return p.Empty() && Pottable(s)
}

// Pottable reports if the stack passed holds a plant that fits in a flower pot.
func Pottable(s item.Stack) bool {
	if s.Empty() {
		return false
	}
	switch s.ID() {
	case item.Sapling, item.Dandelion, item.Poppy, item.BrownMushroom, item.RedMushroom, item.Cactus, item.DeadBush:
		return true
	case item.TallGrass:
		// Only ferns.
		return s.Meta() == 2
	}
	return false
}

// EncodeNBT ...
func (p *FlowerPot) EncodeNBT() map[string]any {
	m := p.encodeBase(KindFlowerPot)
	m["item"] = int16(p.plant.ID())
	m["mData"] = int32(p.plant.Meta())
	return m
}

// DecodeNBT ...
func (p *FlowerPot) DecodeNBT(data map[string]any) {
	p.decodeBase(data)
	p.plant = item.Stack{}
	if id := item.ID(nbtconv.Int16(data, "item")); id != item.Air {
		p.plant = item.NewStack(id, int16(nbtconv.Int32(data, "mData")), 1)
	}
}
