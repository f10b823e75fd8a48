package world

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
)

var (
	// ErrTileExists is returned when creating a tile at a position that already holds a tile of another kind.
	ErrTileExists = errors.New("a tile of another kind already exists at this position")
	// ErrTileKindMismatch is returned when creating a tile whose kind does not match the block at its position.
	ErrTileKindMismatch = errors.New("tile kind does not match the block at this position")
	// ErrUnknownTileKind is returned when creating a tile of a kind that was never registered.
	ErrUnknownTileKind = errors.New("unknown tile kind")
)

// TileKind identifies the type of a Tile. It is persisted as the "id" field of the tile.
type TileKind string

// Tile holds auxiliary state of the block at a position, for blocks that need more data than their type and
// meta can hold. A position holds at most one Tile, and its kind always matches the block at that position.
type Tile interface {
	// Kind returns the kind of the tile.
	Kind() TileKind
	// Pos returns the position of the tile.
	Pos() cube.Pos
	// EncodeNBT encodes the tile into its persisted compound form, including the "id", "x", "y" and "z" fields.
	EncodeNBT() map[string]any
	// DecodeNBT decodes the kind-specific fields of the tile from data.
	DecodeNBT(data map[string]any)
}

// TickerTile is a Tile that is ticked every world tick.
type TickerTile interface {
	Tile
	Tick(w *World, currentTick int64)
}

// TileFactory creates an empty tile of a specific kind at pos.
type TileFactory func(pos cube.Pos) Tile

var (
	tileMu        sync.RWMutex
	tileFactories = map[TileKind]TileFactory{}
)

// RegisterTile registers the factory used to create tiles of the kind passed. Registering a kind twice
// panics.
func RegisterTile(kind TileKind, f TileFactory) {
	tileMu.Lock()
	defer tileMu.Unlock()
	if _, ok := tileFactories[kind]; ok {
		panic(fmt.Sprintf("tile kind %v registered twice", kind))
	}
	tileFactories[kind] = f
}

func tileFactory(kind TileKind) (TileFactory, bool) {
	tileMu.RLock()
	defer tileMu.RUnlock()
	f, ok := tileFactories[kind]
	return f, ok
}

// tileKindOf returns the tile kind required by the block passed, if any.
func (w *World) tileKindOf(b Block) (TileKind, bool) {
	if tb, ok := w.Behaviour(b).(TileBearer); ok {
		return tb.TileKind(), true
	}
	return "", false
}

// CreateTile creates a tile of the kind passed at pos, seeded with initialData, and registers it. Creation
// fails without touching any existing tile if the position holds a tile of another kind, or if the block at
// pos does not bear tiles of this kind. An existing tile of the same kind is replaced.
func (w *World) CreateTile(kind TileKind, pos cube.Pos, initialData map[string]any) (Tile, error) {
	if w.Closed() {
		return nil, ErrClosed
	}
	f, ok := tileFactory(kind)
	if !ok {
		return nil, fmt.Errorf("create tile %v: %w", kind, ErrUnknownTileKind)
	}
	if existing, ok := w.tiles[pos]; ok && existing.Kind() != kind {
		return nil, fmt.Errorf("create tile %v at %v: %w (%v)", kind, pos, ErrTileExists, existing.Kind())
	}
	if required, ok := w.tileKindOf(w.Block(pos)); !ok || required != kind {
		return nil, fmt.Errorf("create tile %v at %v: %w", kind, pos, ErrTileKindMismatch)
	}
	t := f(pos)
	if initialData != nil {
		t.DecodeNBT(initialData)
	}
	w.tiles[pos] = t
	return t, nil
}

// Tile returns the tile at pos, if any.
func (w *World) Tile(pos cube.Pos) (Tile, bool) {
	if w.Closed() {
		return nil, false
	}
	t, ok := w.tiles[pos]
	return t, ok
}

// DestroyTile removes the tile at pos, if any.
func (w *World) DestroyTile(pos cube.Pos) {
	if w.Closed() {
		return
	}
	delete(w.tiles, pos)
}

// decodeTile creates a tile from its persisted compound form.
func (w *World) decodeTile(data map[string]any) (Tile, error) {
	kind := TileKind(nbtconv.String(data, "id"))
	f, ok := tileFactory(kind)
	if !ok {
		return nil, fmt.Errorf("decode tile %q: %w", kind, ErrUnknownTileKind)
	}
	t := f(cube.Pos(nbtconv.Pos(data)))
	t.DecodeNBT(data)
	return t, nil
}

// tickTiles ticks all tiles that implement TickerTile. The tiles ticked are collected before the first one
// is ticked, so tiles created or destroyed by a tick take effect from the next tick on.
func (w *World) tickTiles(tick int64) {
	tickers := w.scratchTiles[:0]
	for _, pos := range slices.SortedFunc(maps.Keys(w.tiles), comparePos) {
		if t, ok := w.tiles[pos].(TickerTile); ok {
			tickers = append(tickers, t)
		}
	}
	for _, t := range tickers {
		if current, ok := w.tiles[t.Pos()]; !ok || current != Tile(t) {
			// Destroyed by an earlier tile tick.
			continue
		}
		if err := w.guarded(func() { t.Tick(w, tick) }); err != nil {
			w.conf.Log.Error("Tile tick failed.", "pos", t.Pos(), "kind", t.Kind(), "error", err)
		}
	}
	w.conf.Metrics.addTilesTicked(len(tickers))
	clear(tickers)
	w.scratchTiles = tickers[:0]
}

func comparePos(a, b cube.Pos) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
