package world

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/internal/guard"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
)

// ErrClosed is returned when mutating a World that was closed.
var ErrClosed = errors.New("world is closed")

// World holds the blocks, tiles and entities of a simulated region and advances them every tick. A World is
// not safe for concurrent use: it is owned by the goroutine calling Tick, and every mutation happens from
// there.
//
// Every change to the World is published on its event bus first. Mutations go through ChangeBlock,
// AddEntity and the behaviours of blocks and entities, which check whether the event was cancelled before
// committing.
type World struct {
	conf Config
	ra   cube.Range

	closed atomic.Bool

	r           *rand.Rand
	currentTick int64

	columns       map[ChunkPos]*column
	activeColumns []columnRef

	tiles map[cube.Pos]Tile

	// entities holds the active entity set. It is not modified while entities are being ticked: entities
	// added during the sweep are held in pendingEntities and despawned entities are removed once the sweep
	// completes.
	entities        []Entity
	entityState     map[Entity]*entityState
	pendingEntities []Entity
	sweeping        bool

	scheduled        *scheduledQueue
	neighbourUpdates []cube.Pos

	scratchRandom   []cube.Pos
	scratchEntities []Entity
	scratchTiles    []TickerTile
}

type columnRef struct {
	pos ChunkPos
	col *column
}

// SetOpts holds options for World.SetBlock.
type SetOpts struct {
	// Validate rejects blocks without a registered behaviour.
	Validate bool
	// DisableBlockUpdates makes SetBlock not send NORMAL updates to the neighbours of the position.
	DisableBlockUpdates bool
}

// New creates a new World with the default Config.
func New() *World {
	var conf Config
	return conf.New()
}

// Name returns the display name of the World.
func (w *World) Name() string {
	return w.conf.Name
}

// Range returns the range in blocks of the World (min and max).
func (w *World) Range() cube.Range {
	return w.ra
}

// CurrentTick returns the current tick counter of the World.
func (w *World) CurrentTick() int64 {
	return w.currentTick
}

// Logger returns the Logger of the World.
func (w *World) Logger() *slog.Logger {
	return w.conf.Log
}

// Rand returns the random source of the World.
func (w *World) Rand() *rand.Rand {
	return w.r
}

// Bus returns the event bus that changes to the World are published on.
func (w *World) Bus() *event.Bus {
	return w.conf.Bus
}

// Network returns the observer layer of the World.
func (w *World) Network() Network {
	return w.conf.Network
}

// Metrics returns the Metrics of the World, which may be nil.
func (w *World) Metrics() *Metrics {
	return w.conf.Metrics
}

// Behaviour returns the behaviour of the block passed.
func (w *World) Behaviour(b Block) Behaviour {
	return w.conf.Blocks.Behaviour(b)
}

// Closed reports if the World was closed.
func (w *World) Closed() bool {
	return w == nil || w.closed.Load()
}

// Position returns a Position at pos bound to the World.
func (w *World) Position(pos cube.Pos) Position {
	p, _ := NewPosition(w, pos)
	return p
}

// Block reads a block from the position passed. Air is returned for positions out of range or in columns
// that hold no blocks.
func (w *World) Block(pos cube.Pos) Block {
	if w.Closed() || pos.OutOfBounds(w.ra) {
		return Air
	}
	c, ok := w.columns[chunkPosFromBlockPos(pos)]
	if !ok {
		return Air
	}
	return c.Block(uint8(pos[0]), pos[1], uint8(pos[2]))
}

// SetBlock writes a block to the position passed and returns true if it was written. SetBlock is the commit
// step of a change: callers publish a BlockEvent first, or use ChangeBlock which does both. A tile at the
// position that does not match the new block is destroyed.
func (w *World) SetBlock(pos cube.Pos, b Block, opts *SetOpts) bool {
	if w.Closed() || pos.OutOfBounds(w.ra) {
		return false
	}
	if opts == nil {
		opts = &SetOpts{}
	}
	if opts.Validate {
		if _, nop := w.Behaviour(b).(NopBehaviour); nop && b != Air {
			return false
		}
	}
	cp := chunkPosFromBlockPos(pos)
	c, ok := w.columns[cp]
	if !ok {
		if b == Air {
			return true
		}
		c = newColumn(w.ra)
		w.columns[cp] = c
		w.activeColumns = append(w.activeColumns, columnRef{pos: cp, col: c})
	}
	c.SetBlock(uint8(pos[0]), pos[1], uint8(pos[2]), b)

	if t, ok := w.tiles[pos]; ok {
		if kind, ok := w.tileKindOf(b); !ok || kind != t.Kind() {
			delete(w.tiles, pos)
		}
	}
	if !opts.DisableBlockUpdates {
		pos.Neighbours(func(neighbour cube.Pos) {
			w.neighbourUpdates = append(w.neighbourUpdates, neighbour)
		}, w.ra)
	}
	return true
}

// ChangeBlock publishes ev and, if no handler cancelled it, writes ev.New to ev.Pos. It returns true if the
// block was written.
func (w *World) ChangeBlock(ev *BlockEvent, opts *SetOpts) bool {
	if w.Closed() {
		return false
	}
	if event.Publish(w.conf.Bus, ev).Cancelled() {
		return false
	}
	return w.SetBlock(ev.Pos, ev.New, opts)
}

// ScheduleUpdate schedules an update of the kind passed at pos after delay ticks. The delay is at least one
// tick. An update is not scheduled if an update of the same kind at the same position is already due at the
// resulting tick. Updates of the same kind at the same position due at different ticks are all delivered.
func (w *World) ScheduleUpdate(pos cube.Pos, kind UpdateKind, delay int64) {
	if w.Closed() {
		return
	}
	w.scheduled.schedule(pos, kind, delay)
}

// FullLightAt returns the light level at pos, between 0 and 15.
func (w *World) FullLightAt(pos cube.Pos) int {
	if w.Closed() {
		return 0
	}
	if w.conf.Light != nil {
		return min(max(w.conf.Light(w, pos), 0), 15)
	}
	return w.light(pos)
}

// light computes the light at pos as the maximum of the light emitted by the block at pos and the sky light
// left after passing through all blocks from pos up to the top of the World.
func (w *World) light(pos cube.Pos) int {
	emitted := w.Behaviour(w.Block(pos)).Properties().LightLevel
	sky := 15
	if !pos.OutOfBounds(w.ra) {
		c, ok := w.columns[chunkPosFromBlockPos(pos)]
		for y := pos[1]; ok && y <= w.ra.Max() && sky > 0; y++ {
			if b := c.Block(uint8(pos[0]), y, uint8(pos[2])); b != Air {
				sky -= w.Behaviour(b).Properties().LightFilter
			}
		}
	}
	return min(max(emitted, sky, 0), 15)
}

// BlockBBoxes returns the collision boxes of the block at pos, translated to its position.
func (w *World) BlockBBoxes(pos cube.Pos) []cube.BBox {
	b := w.Block(pos)
	if b == Air {
		return nil
	}
	boxes := blockBBoxes(w.Behaviour(b), b)
	if len(boxes) == 0 {
		return nil
	}
	out := make([]cube.BBox, len(boxes))
	for i, box := range boxes {
		out[i] = box.Translate(pos.Vec3())
	}
	return out
}

// AddEntity publishes an EntitySpawnEvent for e and adds e to the World if it was not cancelled. Entities
// added while entities are being ticked become active after the current sweep. If e implements Spawner, its
// spawn payload is sent to its observers once it was added.
func (w *World) AddEntity(e Entity) bool {
	if w.Closed() || e == nil || e.Despawned() {
		return false
	}
	if _, ok := w.entityState[e]; ok {
		return false
	}
	if event.Publish(w.conf.Bus, &EntitySpawnEvent{Entity: e}).Cancelled() {
		return false
	}
	w.entityState[e] = &entityState{lastTick: w.currentTick}
	if w.sweeping {
		w.pendingEntities = append(w.pendingEntities, e)
	} else {
		w.entities = append(w.entities, e)
	}
	if s, ok := e.(Spawner); ok {
		w.conf.Network.NotifyObservers(e.RuntimeID(), s.SpawnPayload())
	}
	return true
}

// Entities returns the active entities of the World. While entities are being ticked, the set returned is
// the one the sweep started with.
func (w *World) Entities() []Entity {
	return slices.Clone(w.entities)
}

// Close saves the World to its Provider and closes it. After Close, the World rejects all mutations and
// every Position referencing it becomes invalid. Closing a World twice is a no-op.
func (w *World) Close() error {
	if w == nil || w.closed.Load() {
		return nil
	}
	err := w.save()
	w.closed.Store(true)
	if cerr := w.conf.Provider.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close provider: %w", cerr))
	}
	w.tiles, w.entities, w.pendingEntities = nil, nil, nil
	return err
}

// save writes all columns, tiles, entities and pending scheduled updates of the World to its Provider.
func (w *World) save() error {
	columns := make(map[ChunkPos]map[string]any, len(w.columns))
	for pos, c := range w.columns {
		columns[pos] = c.encode(pos)
	}
	tiles := make([]map[string]any, 0, len(w.tiles))
	for _, t := range w.tiles {
		tiles = append(tiles, t.EncodeNBT())
	}
	entities := make([]map[string]any, 0, len(w.entities)+len(w.pendingEntities))
	for _, e := range slices.Concat(w.entities, w.pendingEntities) {
		if e.Despawned() {
			continue
		}
		data := e.EncodeNBT()
		data["identifier"] = e.EncodeEntity()
		entities = append(entities, data)
	}
	p := w.conf.Provider
	return errors.Join(
		p.SaveColumns(columns),
		p.SaveTiles(tiles),
		p.SaveEntities(entities),
		p.SaveScheduledUpdates(w.scheduled.encode()),
	)
}

// load reads the columns, tiles, entities and scheduled updates of the World from its Provider. Tiles and
// entities that fail to decode are logged and skipped.
func (w *World) load() {
	p := w.conf.Provider
	columns, err := p.LoadColumns()
	if err != nil {
		w.conf.Log.Error("Load columns.", "error", err)
	}
	for _, pos := range slices.SortedFunc(maps.Keys(columns), compareChunkPos) {
		c := decodeColumn(columns[pos], w.ra)
		w.columns[pos] = c
		w.activeColumns = append(w.activeColumns, columnRef{pos: pos, col: c})
	}

	tiles, err := p.LoadTiles()
	if err != nil {
		w.conf.Log.Error("Load tiles.", "error", err)
	}
	for _, data := range tiles {
		t, err := w.decodeTile(data)
		if err != nil {
			w.conf.Log.Warn("Skipping malformed tile.", "error", err)
			continue
		}
		if kind, ok := w.tileKindOf(w.Block(t.Pos())); !ok || kind != t.Kind() {
			w.conf.Log.Warn("Skipping tile that does not match its block.", "pos", t.Pos(), "kind", t.Kind())
			continue
		}
		w.tiles[t.Pos()] = t
	}

	entities, err := p.LoadEntities()
	if err != nil {
		w.conf.Log.Error("Load entities.", "error", err)
	}
	for _, data := range entities {
		id := nbtconv.String(data, "identifier")
		dec, ok := w.conf.EntityTypes[id]
		if !ok {
			w.conf.Log.Warn("Skipping entity of unknown type.", "identifier", id)
			continue
		}
		e, err := dec(data)
		if err != nil {
			// The entity removes itself: it never becomes part of the World.
			w.conf.Log.Warn("Skipping malformed entity.", "identifier", id, "error", err)
			continue
		}
		w.AddEntity(e)
	}

	scheduled, err := p.LoadScheduledUpdates()
	if err != nil {
		w.conf.Log.Error("Load scheduled updates.", "error", err)
	}
	w.scheduled.decode(scheduled)
}

// guarded runs f, converting a panic into an error and recording the failure.
func (w *World) guarded(f func()) error {
	err := guard.Run(func() error {
		f()
		return nil
	})
	if err != nil {
		w.conf.Metrics.incFailures()
	}
	return err
}

func compareChunkPos(a, b ChunkPos) int {
	if a[0] != b[0] {
		return int(a[0] - b[0])
	}
	return int(a[1] - b[1])
}
