package tile

import (
	"fmt"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

// Slots of a furnace.
const (
	SlotInput = iota
	SlotFuel
	SlotResult
)

// CookDuration is the amount of ticks it takes a furnace to smelt one item.
const CookDuration = 200

// Furnace is the tile of a furnace. It smelts the item in its input slot using the fuel in its fuel slot,
// switching its block between a furnace and a burning furnace as it starts and stops burning.
type Furnace struct {
	base
	// BurnTime is the amount of ticks the current fuel keeps burning.
	BurnTime int16
	// BurnDuration is the total amount of ticks the current fuel burns for.
	BurnDuration int16
	// CookTime is the amount of ticks the current input has been smelting for.
	CookTime int16

	items [3]item.Stack
}

// NewFurnace returns an empty furnace tile at pos.
func NewFurnace(pos cube.Pos) *Furnace {
	return &Furnace{base: base{pos: pos}}
}

// Kind ...
func (*Furnace) Kind() world.TileKind {
	return KindFurnace
}

// Item returns the item in the slot passed.
func (f *Furnace) Item(slot int) (item.Stack, error) {
	if slot < 0 || slot >= len(f.items) {
		return item.Stack{}, fmt.Errorf("furnace slot %v out of range", slot)
	}
	return f.items[slot], nil
}

// SetItem sets the item in the slot passed.
func (f *Furnace) SetItem(slot int, s item.Stack) error {
	if slot < 0 || slot >= len(f.items) {
		return fmt.Errorf("furnace slot %v out of range", slot)
	}
	f.items[slot] = s
	return nil
}

// Burning reports if the furnace is currently burning fuel.
func (f *Furnace) Burning() bool {
	return f.BurnTime > 0
}

// Tick advances smelting by one tick.
func (f *Furnace) Tick(w *world.World, _ int64) {
	input, fuel, result := f.items[SlotInput], f.items[SlotFuel], f.items[SlotResult]
	out, smeltable := SmeltResult(input)
	canSmelt := smeltable && (result.Empty() || (result.Comparable(out) && result.Count() < result.MaxCount()))

	if f.BurnTime <= 0 && canSmelt {
		if d := FuelDuration(fuel); d > 0 {
			f.BurnTime, f.BurnDuration = d, d
			f.items[SlotFuel] = fuel.Grow(-1)
		}
	}
	if f.BurnTime > 0 {
		f.BurnTime--
		if canSmelt {
			f.CookTime++
			if f.CookTime >= CookDuration {
				f.CookTime = 0
				f.items[SlotInput] = input.Grow(-1)
				if result.Empty() {
					f.items[SlotResult] = out
				} else {
					f.items[SlotResult] = result.Grow(1)
				}
			}
		} else {
			f.CookTime = 0
		}
	} else {
		f.CookTime = 0
	}
	f.updateBlock(w)
}

// updateBlock switches the block of the furnace between its lit and unlit form.
func (f *Furnace) updateBlock(w *world.World) {
	b := w.Block(f.pos)
	lit, unlit := world.BlockType(item.BurningFurnace), world.BlockType(item.Furnace)
	switch {
	case f.Burning() && b.Type == unlit:
		w.ChangeBlock(world.NewBlockEvent(event.BlockChange, f.pos, b, world.Block{Type: lit, Meta: b.Meta}), &world.SetOpts{DisableBlockUpdates: true})
	case !f.Burning() && b.Type == lit:
		w.ChangeBlock(world.NewBlockEvent(event.BlockChange, f.pos, b, world.Block{Type: unlit, Meta: b.Meta}), &world.SetOpts{DisableBlockUpdates: true})
	}
}

// EncodeNBT ...
func (f *Furnace) EncodeNBT() map[string]any {
	m := f.encodeBase(KindFurnace)
	m["BurnTime"] = f.BurnTime
	m["BurnDuration"] = f.BurnDuration
	m["CookTime"] = f.CookTime
	items := make([]map[string]any, 0, len(f.items))
	for slot, s := range f.items {
		if s.Empty() {
			continue
		}
		data := s.EncodeNBT()
		data["Slot"] = uint8(slot)
		items = append(items, data)
	}
	m["Items"] = items
	return m
}

// DecodeNBT ...
func (f *Furnace) DecodeNBT(data map[string]any) {
	f.decodeBase(data)
	f.BurnTime = nbtconv.Int16(data, "BurnTime")
	f.BurnDuration = nbtconv.Int16(data, "BurnDuration")
	f.CookTime = nbtconv.Int16(data, "CookTime")
	f.items = [3]item.Stack{}
	for _, v := range nbtconv.Slice(data, "Items") {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if slot := int(nbtconv.Uint8(m, "Slot")); slot < len(f.items) {
			f.items[slot] = item.DecodeStack(m)
		}
	}
}

// SmeltResult returns the item produced by smelting one item of the stack passed.
func SmeltResult(s item.Stack) (item.Stack, bool) {
	if s.Empty() {
		return item.Stack{}, false
	}
	switch s.ID() {
	case item.IronOre:
		return item.NewStack(item.IronIngot, 0, 1), true
	case item.GoldOre:
		return item.NewStack(item.GoldIngot, 0, 1), true
	case item.CoalOre:
		return item.NewStack(item.Coal, 0, 1), true
	case item.Cobblestone:
		return item.NewStack(item.Stone, 0, 1), true
	case item.Sand:
		return item.NewStack(item.Glass, 0, 1), true
	case item.Log:
		// Charcoal.
		return item.NewStack(item.Coal, 1, 1), true
	}
	return item.Stack{}, false
}

// FuelDuration returns the amount of ticks one item of the stack passed burns for, or 0 if it is no fuel.
func FuelDuration(s item.Stack) int16 {
	if s.Empty() {
		return 0
	}
	switch s.ID() {
	case item.Coal:
		return 1600
	case item.Log, item.Planks:
		return 300
	case item.Stick, item.Sapling:
		return 100
	}
	return 0
}
