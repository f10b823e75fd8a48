package entity

import (
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// DefaultItemDespawnAge is the age in ticks after which item entities despawn.
const DefaultItemDespawnAge = 6000

// Collector is an entity that collects item entities it touches, such as a player.
type Collector interface {
	world.Entity
	// Survival reports if the collector is limited by the capacity of its storage.
	Survival() bool
	// CanAddItem reports if the stack passed fits in the storage of the collector.
	CanAddItem(s item.Stack) bool
	// AddItem adds the stack passed to the storage of the collector.
	AddItem(s item.Stack)
	// AwardAchievement awards the achievement with the name passed to the collector.
	AwardAchievement(name string)
}

// Ticker is implemented by entities other than items that advance themselves every tick.
type Ticker interface {
	Tick(w *world.World, elapsed int64)
}

// Engine advances entities every world tick. It implements world.EntityTicker.
type Engine struct {
	// ItemDespawnAge is the age in ticks after which item entities despawn. If 0, DefaultItemDespawnAge is
	// used. Values above MaxItemAge are treated as MaxItemAge.
	ItemDespawnAge int
	// PickupRange is the distance by which the bounding box of a collector is grown horizontally when checking
	// if it touches an item. The box is grown by half of it vertically. If 0, 1 is used.
	PickupRange float64
}

// TickEntity advances the entity passed by the amount of ticks elapsed since it was last ticked. Entities
// flagged for despawning are left untouched.
func (eng Engine) TickEntity(w *world.World, e world.Entity, elapsed int64) {
	if e.Despawned() || elapsed <= 0 {
		return
	}
	switch e := e.(type) {
	case *Item:
		eng.tickItem(w, e, int(elapsed))
	case Ticker:
		e.Tick(w, elapsed)
	}
}

// tickItem performs the movement and lifecycle of an item entity.
func (eng Engine) tickItem(w *world.World, it *Item, elapsed int) {
	if vel, stuck := obstructionPush(w, it.pos, it.vel); stuck {
		it.vel = vel
	}
	m := it.mc.TickMovement(w, it.BBox(), it.pos, it.vel)
	it.pos, it.vel = m.Position(), m.Velocity()
	m.Send(w, it.id)

	if it.pos[1] < float64(w.Range().Min()-64) {
		eng.Hurt(w, it, DamageVoid, 4)
		if it.despawned {
			return
		}
	}

	if it.pickupDelay > 0 && it.pickupDelay < InfinitePickupDelay {
		it.pickupDelay = max(it.pickupDelay-elapsed, 0)
	}
	it.age += elapsed

	if it.age > eng.despawnAge() {
		if event.Publish(w.Bus(), &ItemDespawnEvent{Item: it}).Cancelled() {
			it.age = 0
		} else {
			it.despawn()
			return
		}
	}
	eng.collide(w, it)
}

// despawnAge returns the age in ticks after which item entities despawn.
func (eng Engine) despawnAge() int {
	if eng.ItemDespawnAge == 0 {
		return DefaultItemDespawnAge
	}
	return min(eng.ItemDespawnAge, MaxItemAge)
}

// collide lets every collector touching the item attempt to collect it.
func (eng Engine) collide(w *world.World, it *Item) {
	if it.pickupDelay > 0 {
		return
	}
	r := eng.PickupRange
	if r == 0 {
		r = 1
	}
	box := it.BBox().Translate(it.pos)
	for _, e := range w.Entities() {
		c, ok := e.(Collector)
		if !ok || c.Despawned() {
			continue
		}
		if !c.BBox().Translate(c.Position()).GrowVec3(mgl64.Vec3{r, r / 2, r}).IntersectsWith(box) {
			continue
		}
		if eng.Collect(w, it, c) {
			return
		}
	}
}

// Collect makes the collector passed pick up the item entity. It fails if the pickup delay of the item has
// not yet passed, if the item carries nothing, if a survival collector has no room for the item, or if the
// ItemPickupEvent is cancelled. On success, the observers of the item are notified, the collector receives a
// copy of the stack and the item is flagged for despawning.
func (Engine) Collect(w *world.World, it *Item, c Collector) bool {
	if it.despawned || it.pickupDelay > 0 {
		return false
	}
	s := it.stack
	if s.Empty() || (c.Survival() && !c.CanAddItem(s)) {
		return false
	}
	if event.Publish(w.Bus(), &ItemPickupEvent{Item: it, Collector: c}).Cancelled() {
		return false
	}
	switch s.ID() {
	case item.Log:
		c.AwardAchievement("mineWood")
	case item.Diamond:
		c.AwardAchievement("diamond")
	}
	w.Network().NotifyObservers(it.id, &packet.TakeItemActor{
		ItemEntityRuntimeID:  it.id,
		TakerEntityRuntimeID: c.RuntimeID(),
	})
	c.AddItem(s)
	it.despawn()
	return true
}

// Hurt deals damage to the item entity. Items only take damage from the void, fire and explosions. The item
// despawns when its health runs out.
func (Engine) Hurt(w *world.World, it *Item, cause DamageCause, damage float32) bool {
	if it.despawned || damage <= 0 {
		return false
	}
	switch cause {
	case DamageVoid, DamageFireTick, DamageEntityExplosion, DamageBlockExplosion:
	default:
		return false
	}
	ev := event.Publish(w.Bus(), &HurtEvent{Entity: it, Cause: cause, Damage: damage})
	if ev.Cancelled() || ev.Damage <= 0 {
		return false
	}
	it.health -= ev.Damage
	if it.health <= 0 {
		it.health = 0
		it.despawn()
	}
	return true
}

// Types returns the decoders of all entity types implemented in this package, to be passed to
// world.Config.EntityTypes.
func Types() map[string]world.EntityDecoder {
	return map[string]world.EntityDecoder{
		ItemIdentifier: DecodeItem,
	}
}
