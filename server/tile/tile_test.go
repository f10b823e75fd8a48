package tile_test

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/dm-vev/voxeltick/server/block"
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/tile"
	"github.com/dm-vev/voxeltick/server/world"
)

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.Config{
		Log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Blocks:          block.NewRegistry(),
		Rand:            rand.New(rand.NewPCG(1, 2)),
		RandomTickSpeed: -1,
	}.New()
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func placeFurnace(t *testing.T, w *world.World, pos cube.Pos) *tile.Furnace {
	t.Helper()
	if !w.SetBlock(pos, world.Block{Type: block.Furnace}, nil) {
		t.Fatalf("expected furnace to be placed")
	}
	created, err := w.CreateTile(tile.KindFurnace, pos, nil)
	if err != nil {
		t.Fatalf("create furnace tile: %v", err)
	}
	return created.(*tile.Furnace)
}

func mustItem(t *testing.T, f *tile.Furnace, slot int) item.Stack {
	t.Helper()
	s, err := f.Item(slot)
	if err != nil {
		t.Fatalf("furnace item: %v", err)
	}
	return s
}

func TestFurnaceSmelts(t *testing.T) {
	w := newTestWorld(t)
	pos := cube.Pos{0, 10, 0}
	f := placeFurnace(t, w, pos)
	_ = f.SetItem(tile.SlotInput, item.NewStack(item.IronOre, 0, 2))
	_ = f.SetItem(tile.SlotFuel, item.NewStack(item.Coal, 0, 1))

	w.Tick()
	if got := w.Block(pos).Type; got != block.BurningFurnace {
		t.Fatalf("expected furnace to be lit after consuming fuel, got %v", got)
	}
	if !mustItem(t, f, tile.SlotFuel).Empty() {
		t.Fatalf("expected fuel to be consumed")
	}
	if current, ok := w.Tile(pos); !ok || current != world.Tile(f) {
		t.Fatalf("expected furnace tile to survive lighting the furnace")
	}

	for range tile.CookDuration - 1 {
		w.Tick()
	}
	if got := mustItem(t, f, tile.SlotResult); !got.Equal(item.NewStack(item.IronIngot, 0, 1)) {
		t.Fatalf("expected one iron ingot after %v ticks, got %v", tile.CookDuration, got)
	}
	if got := mustItem(t, f, tile.SlotInput).Count(); got != 1 {
		t.Fatalf("expected one iron ore left, got %v", got)
	}
	if f.CookTime != 0 {
		t.Fatalf("expected cook time to reset, got %v", f.CookTime)
	}
}

func TestFurnaceGoesOut(t *testing.T) {
	w := newTestWorld(t)
	pos := cube.Pos{0, 10, 0}
	f := placeFurnace(t, w, pos)
	_ = f.SetItem(tile.SlotInput, item.NewStack(item.Sand, 0, 1))
	_ = f.SetItem(tile.SlotFuel, item.NewStack(item.Stick, 0, 1))

	for range 101 {
		w.Tick()
	}
	if f.Burning() || f.CookTime != 0 {
		t.Fatalf("expected furnace to go out, burn time %v cook time %v", f.BurnTime, f.CookTime)
	}
	if got := w.Block(pos).Type; got != block.Furnace {
		t.Fatalf("expected furnace to switch back to its unlit form, got %v", got)
	}
	if got := mustItem(t, f, tile.SlotInput).Count(); got != 1 {
		t.Fatalf("expected input to remain unsmelted, got %v", got)
	}
}

func TestFurnaceBlockChangeCancelled(t *testing.T) {
	w := newTestWorld(t)
	event.Handle(w.Bus(), event.BlockChange, func(e *world.BlockEvent) { e.Cancel() })
	pos := cube.Pos{0, 10, 0}
	f := placeFurnace(t, w, pos)
	_ = f.SetItem(tile.SlotInput, item.NewStack(item.Cobblestone, 0, 1))
	_ = f.SetItem(tile.SlotFuel, item.NewStack(item.Coal, 0, 1))

	w.Tick()
	if !f.Burning() {
		t.Fatalf("expected furnace to burn")
	}
	if got := w.Block(pos).Type; got != block.Furnace {
		t.Fatalf("expected cancelled change to leave the block unlit, got %v", got)
	}
}

func TestFurnaceWithoutSmeltableInput(t *testing.T) {
	w := newTestWorld(t)
	f := placeFurnace(t, w, cube.Pos{0, 10, 0})
	_ = f.SetItem(tile.SlotInput, item.NewStack(item.Dirt, 0, 1))
	_ = f.SetItem(tile.SlotFuel, item.NewStack(item.Coal, 0, 1))

	w.Tick()
	if f.Burning() || mustItem(t, f, tile.SlotFuel).Count() != 1 {
		t.Fatalf("expected fuel not to be burnt without anything to smelt")
	}
}

func TestFurnaceSlots(t *testing.T) {
	f := tile.NewFurnace(cube.Pos{})
	for _, slot := range []int{-1, 3} {
		if err := f.SetItem(slot, item.NewStack(item.Coal, 0, 1)); err == nil {
			t.Fatalf("expected error setting slot %v", slot)
		}
		if _, err := f.Item(slot); err == nil {
			t.Fatalf("expected error reading slot %v", slot)
		}
	}
}

func TestFurnaceNBT(t *testing.T) {
	f := tile.NewFurnace(cube.Pos{1, 2, 3})
	f.BurnTime, f.BurnDuration, f.CookTime = 40, 300, 12
	f.Lock = "key"
	_ = f.SetItem(tile.SlotFuel, item.NewStack(item.Log, 0, 7))
	_ = f.SetItem(tile.SlotResult, item.NewStack(item.Coal, 1, 2))

	data := f.EncodeNBT()
	if data["id"] != "Furnace" || data["x"] != int32(1) || data["z"] != int32(3) {
		t.Fatalf("unexpected furnace header %v", data)
	}
	decoded := tile.NewFurnace(cube.Pos{1, 2, 3})
	decoded.DecodeNBT(data)
	if decoded.BurnTime != 40 || decoded.BurnDuration != 300 || decoded.CookTime != 12 || decoded.Lock != "key" {
		t.Fatalf("unexpected decoded furnace %+v", decoded)
	}
	if !mustItem(t, decoded, tile.SlotInput).Empty() {
		t.Fatalf("expected input slot to stay empty")
	}
	if got := mustItem(t, decoded, tile.SlotFuel); !got.Equal(item.NewStack(item.Log, 0, 7)) {
		t.Fatalf("expected fuel to be decoded, got %v", got)
	}
	if got := mustItem(t, decoded, tile.SlotResult); !got.Equal(item.NewStack(item.Coal, 1, 2)) {
		t.Fatalf("expected result to be decoded, got %v", got)
	}
}

func TestSmeltAndFuel(t *testing.T) {
	smelt := []struct {
		in   item.Stack
		out  item.Stack
		ok   bool
		fuel int16
	}{
		{in: item.NewStack(item.IronOre, 0, 1), out: item.NewStack(item.IronIngot, 0, 1), ok: true},
		{in: item.NewStack(item.Sand, 0, 1), out: item.NewStack(item.Glass, 0, 1), ok: true},
		{in: item.NewStack(item.Log, 0, 1), out: item.NewStack(item.Coal, 1, 1), ok: true, fuel: 300},
		{in: item.NewStack(item.Coal, 0, 1), fuel: 1600},
		{in: item.NewStack(item.Stick, 0, 1), fuel: 100},
		{in: item.NewStack(item.Dirt, 0, 1)},
		{in: item.Stack{}},
	}
	for _, tt := range smelt {
		out, ok := tile.SmeltResult(tt.in)
		if ok != tt.ok || ok && !out.Equal(tt.out) {
			t.Fatalf("SmeltResult(%v) = %v, %v, want %v, %v", tt.in, out, ok, tt.out, tt.ok)
		}
		if got := tile.FuelDuration(tt.in); got != tt.fuel {
			t.Fatalf("FuelDuration(%v) = %v, want %v", tt.in, got, tt.fuel)
		}
	}
}

func TestSignText(t *testing.T) {
	s := tile.NewSign(cube.Pos{})
	s.SetText("e\u0301\nsecond\n\nfourth\nfifth")
	lines := s.Lines()
	if lines[0] != "\u00e9" {
		t.Fatalf("expected first line to be normalised, got %q", lines[0])
	}
	if lines[1] != "second" || lines[2] != "" || lines[3] != "fourth" {
		t.Fatalf("unexpected lines %q", lines)
	}

	s.SetText("only\n")
	if got := s.Text(); got != "only" {
		t.Fatalf("expected trailing empty lines to be trimmed, got %q", got)
	}
}

func TestSignNBT(t *testing.T) {
	s := tile.NewSign(cube.Pos{4, 5, 6})
	s.SetText("a\nb\nc\nd")
	data := s.EncodeNBT()
	for i, want := range []string{"a", "b", "c", "d"} {
		if got := data["Text"+string(rune('1'+i))]; got != want {
			t.Fatalf("expected line %v to be %q, got %v", i+1, want, got)
		}
	}
	decoded := tile.NewSign(cube.Pos{4, 5, 6})
	decoded.DecodeNBT(data)
	if decoded.Lines() != s.Lines() {
		t.Fatalf("expected lines %q, got %q", s.Lines(), decoded.Lines())
	}
}

func TestFlowerPot(t *testing.T) {
	tests := []struct {
		s        item.Stack
		pottable bool
	}{
		{s: item.NewStack(item.Poppy, 0, 1), pottable: true},
		{s: item.NewStack(item.Sapling, 3, 1), pottable: true},
		{s: item.NewStack(item.Cactus, 0, 1), pottable: true},
		{s: item.NewStack(item.TallGrass, 2, 1), pottable: true},
		{s: item.NewStack(item.TallGrass, 1, 1)},
		{s: item.NewStack(item.Dirt, 0, 1)},
		{s: item.Stack{}},
	}
	for _, tt := range tests {
		if got := tile.Pottable(tt.s); got != tt.pottable {
			t.Fatalf("Pottable(%v) = %v, want %v", tt.s, got, tt.pottable)
		}
	}

	p := tile.NewFlowerPot(cube.Pos{})
	p.SetItem(item.NewStack(item.Sapling, 3, 5))
	if got := p.Item(); !got.Equal(item.NewStack(item.Sapling, 3, 1)) {
		t.Fatalf("expected a single sapling in the pot, got %v", got)
	}
	if p.CanAddItem(item.NewStack(item.Poppy, 0, 1)) {
		t.Fatalf("expected a full pot not to accept another plant")
	}

	decoded := tile.NewFlowerPot(cube.Pos{})
	decoded.DecodeNBT(p.EncodeNBT())
	if !decoded.Item().Equal(p.Item()) {
		t.Fatalf("expected %v after decoding, got %v", p.Item(), decoded.Item())
	}

	p.SetItem(item.Stack{})
	decoded.DecodeNBT(p.EncodeNBT())
	if !decoded.Empty() {
		t.Fatalf("expected empty pot after decoding, got %v", decoded.Item())
	}
}

func TestLock(t *testing.T) {
	f := tile.NewFurnace(cube.Pos{})
	if !f.Unlocks("") {
		t.Fatalf("expected unlocked furnace to open without a key")
	}
	f.Lock = "key"
	if f.Unlocks("") || f.Unlocks("other") || !f.Unlocks("key") {
		t.Fatalf("expected locked furnace to only open with its key")
	}
}
