package world

import (
	"cmp"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
)

// Tick advances the World by one tick. Entities are ticked first, followed by the scheduled updates that are
// due, random block updates, tiles and finally the neighbour updates caused by blocks changed during the
// tick. A failure of a single block, tile or entity is logged and does not stop the rest of the tick.
func (w *World) Tick() {
	if w.Closed() {
		return
	}
	w.currentTick++
	tick := w.currentTick
	w.scheduled.currentTick = tick
	w.conf.Metrics.incTicks()

	w.tickEntities(tick)
	w.tickScheduled(tick)
	w.tickBlocksRandomly()
	w.tickTiles(tick)
	w.performNeighbourUpdates()
}

// update delivers an update of the kind passed to the block currently at pos.
func (w *World) update(pos cube.Pos, kind UpdateKind) {
	b := w.Block(pos)
	if b == Air {
		return
	}
	beh := w.Behaviour(b)
	if kind == UpdateRandom && !beh.TicksRandomly() {
		return
	}
	err := w.guarded(func() {
		beh.Update(w.Position(pos), b, kind, w.r)
	})
	if err != nil {
		w.conf.Log.Error("Block update failed.", "pos", pos, "block", b, "kind", kind, "error", err)
	}
}

// tickEntities ticks all active entities. The set of entities ticked is the one present when the sweep
// starts: entities added during the sweep are activated, and despawned entities removed, once every entity
// in the set was ticked.
func (w *World) tickEntities(tick int64) {
	entities := append(w.scratchEntities[:0], w.entities...)
	w.sweeping = true
	ticked := 0
	for _, e := range entities {
		if e.Despawned() {
			continue
		}
		state := w.entityState[e]
		elapsed := tick - state.lastTick
		state.lastTick = tick
		ticked++
		if err := w.guarded(func() { w.conf.Entities.TickEntity(w, e, elapsed) }); err != nil {
			w.conf.Log.Error("Entity tick failed.", "entity", e.EncodeEntity(), "id", e.UUID(), "error", err)
		}
	}
	w.sweeping = false
	clear(entities)
	w.scratchEntities = entities[:0]
	w.conf.Metrics.addEntitiesTicked(ticked)

	before := len(w.entities)
	w.entities = slices.DeleteFunc(w.entities, func(e Entity) bool {
		if e.Despawned() {
			delete(w.entityState, e)
			return true
		}
		return false
	})
	w.conf.Metrics.addEntitiesRemoved(before - len(w.entities))

	if len(w.pendingEntities) > 0 {
		for _, e := range w.pendingEntities {
			if e.Despawned() {
				delete(w.entityState, e)
				continue
			}
			w.entities = append(w.entities, e)
		}
		clear(w.pendingEntities)
		w.pendingEntities = w.pendingEntities[:0]
	}
}

// tickScheduled delivers all scheduled updates due at the tick passed.
func (w *World) tickScheduled(tick int64) {
	due := w.scheduled.due(tick)
	for _, u := range due {
		w.update(u.pos, u.kind)
	}
	w.conf.Metrics.addScheduledUpdates(len(due))
}

// tickBlocksRandomly delivers random updates to blocks in every column of the World. For every sub chunk,
// RandomTickSpeed positions are drawn from the random source of the World, and blocks that tick randomly
// at those positions receive an UpdateRandom.
func (w *World) tickBlocksRandomly() {
	if w.conf.RandomTickSpeed == 0 || len(w.activeColumns) == 0 {
		return
	}
	var g randUint4
	randomBlocks := w.scratchRandom[:0]

	for _, ref := range w.activeColumns {
		c := ref.col
		cx, cz := int(ref.pos[0])<<4, int(ref.pos[1])<<4

		for j := 0; j < w.conf.RandomTickSpeed; j++ {
			x, y, z := g.uint4(w.r), g.uint4(w.r), g.uint4(w.r)

			for i, sub := range c.Sub() {
				if sub.Empty() {
					continue
				}
				b := sub.At(x, y, z)
				if b == Air || !w.Behaviour(b).TicksRandomly() {
					continue
				}
				subY := i<<4 + w.ra.Min()
				randomBlocks = append(randomBlocks, cube.Pos{cx + int(x), subY + int(y), cz + int(z)})

				// Only draw new coordinates if a ticking block was found. If not, the coordinates are
				// re-used for the next sub chunk.
				x, y, z = g.uint4(w.r), g.uint4(w.r), g.uint4(w.r)
			}
		}
	}
	for _, pos := range randomBlocks {
		w.update(pos, UpdateRandom)
	}
	w.conf.Metrics.addRandomUpdates(len(randomBlocks))
	w.scratchRandom = randomBlocks[:0]
}

// performNeighbourUpdates delivers NORMAL updates to all blocks next to a block changed during this tick.
// Updates caused by these updates are delivered during the next tick.
func (w *World) performNeighbourUpdates() {
	limit := len(w.neighbourUpdates)
	for i := 0; i < limit; i++ {
		w.update(w.neighbourUpdates[i], UpdateNormal)
	}
	w.conf.Metrics.addNeighbourUpdates(limit)
	if len(w.neighbourUpdates) > limit {
		remaining := w.neighbourUpdates[limit:]
		copy(w.neighbourUpdates, remaining)
		w.neighbourUpdates = w.neighbourUpdates[:len(remaining)]
		return
	}
	w.neighbourUpdates = w.neighbourUpdates[:0]
}

// randUint4 is a structure used to generate random uint4s.
type randUint4 struct {
	x uint64
	n uint8
}

// uint4 returns a random uint4.
func (g *randUint4) uint4(r *rand.Rand) uint8 {
	if g.n == 0 {
		g.x = r.Uint64()
		g.n = 16
	}
	val := g.x & 0b1111

	g.x >>= 4
	g.n--
	return uint8(val)
}

// scheduledQueue implements a queue for scheduled block updates. Scheduled updates are specific to a
// position, an update kind and the tick they are due at.
type scheduledQueue struct {
	updates     []scheduledUpdate
	pending     map[scheduledUpdate]struct{}
	currentTick int64
}

type scheduledUpdate struct {
	pos  cube.Pos
	kind UpdateKind
	t    int64
}

// newScheduledQueue creates a queue for scheduled block updates.
func newScheduledQueue(tick int64) *scheduledQueue {
	return &scheduledQueue{pending: make(map[scheduledUpdate]struct{}), currentTick: tick}
}

// due removes all updates due at the tick passed from the queue and returns them, ordered by the tick they
// were due at. Updates due at the same tick keep the order they were scheduled in.
func (queue *scheduledQueue) due(tick int64) []scheduledUpdate {
	queue.currentTick = tick

	var due []scheduledUpdate
	queue.updates = slices.DeleteFunc(queue.updates, func(u scheduledUpdate) bool {
		if u.t <= tick {
			due = append(due, u)
			return true
		}
		return false
	})
	maps.DeleteFunc(queue.pending, func(u scheduledUpdate, _ struct{}) bool {
		return u.t <= tick
	})
	slices.SortStableFunc(due, func(a, b scheduledUpdate) int {
		return cmp.Compare(a.t, b.t)
	})
	return due
}

// schedule schedules an update at the position passed after a specific delay in ticks. An update is not
// scheduled if an update of the same kind at the same position is already due at the resulting tick.
func (queue *scheduledQueue) schedule(pos cube.Pos, kind UpdateKind, delay int64) {
	queue.add(scheduledUpdate{pos: pos, kind: kind, t: queue.currentTick + max(delay, 1)})
}

func (queue *scheduledQueue) add(u scheduledUpdate) {
	if _, ok := queue.pending[u]; ok {
		return
	}
	queue.pending[u] = struct{}{}
	queue.updates = append(queue.updates, u)
}

// encode encodes the updates in the queue in the order they were scheduled. The tick an update is due at is
// stored relative to the current tick.
func (queue *scheduledQueue) encode() []map[string]any {
	list := make([]map[string]any, 0, len(queue.updates))
	for _, u := range queue.updates {
		list = append(list, map[string]any{
			"x":     int32(u.pos[0]),
			"y":     int32(u.pos[1]),
			"z":     int32(u.pos[2]),
			"kind":  uint8(u.kind),
			"delay": u.t - queue.currentTick,
		})
	}
	return list
}

// decode adds the updates encoded using encode to the queue.
func (queue *scheduledQueue) decode(list []map[string]any) {
	for _, m := range list {
		pos := cube.Pos{int(nbtconv.Int32(m, "x")), int(nbtconv.Int32(m, "y")), int(nbtconv.Int32(m, "z"))}
		queue.add(scheduledUpdate{
			pos:  pos,
			kind: UpdateKind(nbtconv.Uint8(m, "kind")),
			t:    queue.currentTick + max(nbtconv.Int64(m, "delay"), 1),
		})
	}
}

// len returns the amount of updates in the queue.
func (queue *scheduledQueue) len() int {
	return len(queue.updates)
}
