package world

import (
	"errors"
	"testing"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
)

const (
	testChestTile TileKind = "TestChest"
	testSignTile  TileKind = "TestSign"
)

type testTile struct {
	kind  TileKind
	pos   cube.Pos
	value int32
	ticks int
	tick  func(w *World, t *testTile)
}

func (t *testTile) Kind() TileKind { return t.kind }
func (t *testTile) Pos() cube.Pos  { return t.pos }

func (t *testTile) EncodeNBT() map[string]any {
	m := map[string]any{"id": string(t.kind), "Value": t.value}
	nbtconv.WritePos(m, t.pos)
	return m
}

func (t *testTile) DecodeNBT(data map[string]any) {
	t.value = nbtconv.Int32(data, "Value")
}

// testTickerTile is a testTile that is ticked by the world.
type testTickerTile struct {
	*testTile
}

func (t testTickerTile) Tick(w *World, _ int64) {
	t.ticks++
	if t.tick != nil {
		t.tick(w, t.testTile)
	}
}

func init() {
	RegisterTile(testChestTile, func(pos cube.Pos) Tile {
		return testTickerTile{testTile: &testTile{kind: testChestTile, pos: pos}}
	})
	RegisterTile(testSignTile, func(pos cube.Pos) Tile {
		return &testTile{kind: testSignTile, pos: pos}
	})
}

func TestCreateTileRejectsDifferentKind(t *testing.T) {
	w := newTestWorld(t, Config{})
	pos := cube.Pos{4, 4, 4}
	w.SetBlock(pos, Block{Type: testChest}, nil)

	existing, err := w.CreateTile(testChestTile, pos, map[string]any{"Value": int32(3)})
	if err != nil {
		t.Fatalf("create tile: %v", err)
	}
	// Swap the block under the tile without going through SetBlock, so that a sign tile would be valid for
	// the block while the chest tile still exists.
	w.columns[chunkPosFromBlockPos(pos)].SetBlock(uint8(pos[0]), pos[1], uint8(pos[2]), Block{Type: testSign})

	if _, err := w.CreateTile(testSignTile, pos, map[string]any{"Value": int32(9)}); !errors.Is(err, ErrTileExists) {
		t.Fatalf("expected ErrTileExists, got %v", err)
	}
	got, ok := w.Tile(pos)
	if !ok {
		t.Fatalf("expected existing tile to remain")
	}
	if got != existing {
		t.Fatalf("expected existing tile to be untouched, got %v", got)
	}
	if v := got.(testTickerTile).value; v != 3 {
		t.Fatalf("expected existing tile value 3, got %d", v)
	}
}

func TestCreateTile(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		kind  TileKind
		err   error
	}{
		{name: "matching block", block: Block{Type: testChest}, kind: testChestTile},
		{name: "block without tile", block: Block{Type: testStone}, kind: testChestTile, err: ErrTileKindMismatch},
		{name: "other tile kind", block: Block{Type: testSign}, kind: testChestTile, err: ErrTileKindMismatch},
		{name: "unknown kind", block: Block{Type: testChest}, kind: "Unknown", err: ErrUnknownTileKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, Config{})
			pos := cube.Pos{1, 2, 3}
			w.SetBlock(pos, tt.block, nil)

			tile, err := w.CreateTile(tt.kind, pos, nil)
			if !errors.Is(err, tt.err) {
				t.Fatalf("CreateTile(%v) error = %v, want %v", tt.kind, err, tt.err)
			}
			_, ok := w.Tile(pos)
			if ok != (tt.err == nil) {
				t.Fatalf("Tile(%v) present = %v, want %v", pos, ok, tt.err == nil)
			}
			if tt.err == nil && tile.Pos() != pos {
				t.Fatalf("expected tile at %v, got %v", pos, tile.Pos())
			}
		})
	}
}

func TestCreateTileReplacesSameKind(t *testing.T) {
	w := newTestWorld(t, Config{})
	pos := cube.Pos{0, 5, 0}
	w.SetBlock(pos, Block{Type: testSign}, nil)

	if _, err := w.CreateTile(testSignTile, pos, map[string]any{"Value": int32(1)}); err != nil {
		t.Fatalf("create tile: %v", err)
	}
	if _, err := w.CreateTile(testSignTile, pos, map[string]any{"Value": int32(2)}); err != nil {
		t.Fatalf("recreate tile: %v", err)
	}
	tile, _ := w.Tile(pos)
	if v := tile.(*testTile).value; v != 2 {
		t.Fatalf("expected replaced tile value 2, got %d", v)
	}

	w.DestroyTile(pos)
	if _, ok := w.Tile(pos); ok {
		t.Fatalf("expected tile to be destroyed")
	}
}

func TestTickTilesSkipsDestroyedTiles(t *testing.T) {
	w := newTestWorld(t, Config{RandomTickSpeed: -1})
	first, second := cube.Pos{0, 0, 0}, cube.Pos{0, 0, 1}
	for _, pos := range []cube.Pos{first, second} {
		w.SetBlock(pos, Block{Type: testChest}, nil)
	}
	a, _ := w.CreateTile(testChestTile, first, nil)
	b, _ := w.CreateTile(testChestTile, second, nil)

	a.(testTickerTile).tick = func(w *World, _ *testTile) { w.DestroyTile(second) }
	b.(testTickerTile).tick = func(*World, *testTile) { panic("destroyed tile ticked") }

	w.Tick()
	if n := a.(testTickerTile).ticks; n != 1 {
		t.Fatalf("expected first tile to tick once, got %d", n)
	}
	if n := b.(testTickerTile).ticks; n != 0 {
		t.Fatalf("expected destroyed tile not to tick, got %d", n)
	}
}
