package entity

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// ItemIdentifier is the type identifier under which item entities are persisted.
const ItemIdentifier = "minecraft:item"

const (
	// InfinitePickupDelay is the pickup delay of items that can never be picked up. It is never decremented.
	InfinitePickupDelay = 32767
	// DefaultPickupDelay is the pickup delay of items dropped in the world.
	DefaultPickupDelay = 10
	// ItemMaxHealth is the health of an item entity.
	ItemMaxHealth = 5
	// MaxItemAge is the highest age in ticks an item entity can be persisted with. Items never live longer
	// than this.
	MaxItemAge = math.MaxInt16
)

// ErrMissingItem is returned when decoding an item entity without an "Item" compound.
var ErrMissingItem = errors.New("item entity has no item")

var runtimeIDs atomic.Uint64

// nextRuntimeID returns a new runtime ID, unique for the lifetime of the process.
func nextRuntimeID() uint64 {
	return runtimeIDs.Add(1)
}

// Item is an entity carrying an item stack that was dropped in the world. It falls, ages and is collected
// by collectors that touch it once its pickup delay has passed.
type Item struct {
	id  uint64
	uid uuid.UUID

	stack    item.Stack
	pos, vel mgl64.Vec3
	mc       MovementComputer

	health      float32
	age         int
	pickupDelay int
	owner       string
	thrower     string

	despawned bool
}

// NewItem creates a new item entity carrying the stack passed at pos, moving with the velocity passed. The
// item can be picked up after DefaultPickupDelay ticks.
func NewItem(s item.Stack, pos, vel mgl64.Vec3) *Item {
	return &Item{
		id:          nextRuntimeID(),
		uid:         uuid.New(),
		stack:       s,
		pos:         pos,
		vel:         vel,
		mc:          itemMovement(),
		health:      ItemMaxHealth,
		pickupDelay: DefaultPickupDelay,
	}
}

func itemMovement() MovementComputer {
	return MovementComputer{Gravity: 0.04, Drag: 0.02, DragBeforeGravity: true}
}

// RuntimeID ...
func (it *Item) RuntimeID() uint64 { return it.id }

// UUID ...
func (it *Item) UUID() uuid.UUID { return it.uid }

// EncodeEntity ...
func (*Item) EncodeEntity() string { return ItemIdentifier }

// Position returns the current position of the item.
func (it *Item) Position() mgl64.Vec3 { return it.pos }

// Velocity returns the current velocity of the item.
func (it *Item) Velocity() mgl64.Vec3 { return it.vel }

// SetVelocity changes the velocity of the item.
func (it *Item) SetVelocity(v mgl64.Vec3) { it.vel = v }

// BBox ...
func (*Item) BBox() cube.BBox {
	return cube.Box(-0.125, 0, -0.125, 0.125, 0.25, 0.125)
}

// Item returns the item stack carried by the entity.
func (it *Item) Item() item.Stack { return it.stack }

// Health returns the remaining health of the item entity.
func (it *Item) Health() float32 { return it.health }

// Age returns the age of the item in ticks.
func (it *Item) Age() int { return it.age }

// PickupDelay returns the amount of ticks left before the item can be picked up.
func (it *Item) PickupDelay() int { return it.pickupDelay }

// SetPickupDelay changes the pickup delay of the item. A delay of InfinitePickupDelay or more prevents the
// item from ever being picked up. Negative delays are treated as zero.
func (it *Item) SetPickupDelay(d int) { it.pickupDelay = min(max(d, 0), InfinitePickupDelay) }

// Owner returns the name of the owner of the item, if any.
func (it *Item) Owner() string { return it.owner }

// SetOwner sets the name of the owner of the item.
func (it *Item) SetOwner(owner string) { it.owner = owner }

// Thrower returns the name of the entity that threw the item, if any.
func (it *Item) Thrower() string { return it.thrower }

// SetThrower sets the name of the entity that threw the item.
func (it *Item) SetThrower(thrower string) { it.thrower = thrower }

// Despawned ...
func (it *Item) Despawned() bool { return it.despawned }

// despawn flags the item for despawning. The flag is never cleared.
func (it *Item) despawn() { it.despawned = true }

// EncodeNBT ...
func (it *Item) EncodeNBT() map[string]any {
	return map[string]any{
		"UniqueID":    it.uid.String(),
		"Pos":         nbtconv.Vec3ToFloat32Slice(it.pos),
		"Motion":      nbtconv.Vec3ToFloat32Slice(it.vel),
		"Health":      int16(it.health),
		"Age":         int16(min(it.age, MaxItemAge)),
		"PickupDelay": int16(it.pickupDelay),
		"Owner":       it.owner,
		"Thrower":     it.thrower,
		"Item":        it.stack.EncodeNBT(),
	}
}

var _ world.Spawner = (*Item)(nil)

// SpawnPayload returns the packet announcing the item to its observers.
func (it *Item) SpawnPayload() any {
	return &packet.AddItemActor{
		EntityUniqueID:  int64(it.id),
		EntityRuntimeID: it.id,
		Item:            itemInstance(it.stack),
		Position:        vec64To32(it.pos),
		Velocity:        vec64To32(it.vel),
	}
}

// itemInstance converts an item stack to its network representation.
func itemInstance(s item.Stack) protocol.ItemInstance {
	if s.Empty() {
		return protocol.ItemInstance{}
	}
	tag, _ := s.EncodeNBT()["tag"].(map[string]any)
	return protocol.ItemInstance{
		StackNetworkID: 1,
		Stack: protocol.ItemStack{
			ItemType: protocol.ItemType{NetworkID: int32(s.ID()), MetadataValue: uint32(s.Meta())},
			Count:    uint16(s.Count()),
			NBTData:  tag,
		},
	}
}

// DecodeItem decodes an item entity from its persisted compound form. ErrMissingItem is returned if the
// compound holds no item.
func DecodeItem(data map[string]any) (world.Entity, error) {
	itemData := nbtconv.Map(data, "Item")
	if itemData == nil {
		return nil, ErrMissingItem
	}
	uid, err := uuid.Parse(nbtconv.String(data, "UniqueID"))
	if err != nil {
		uid = uuid.New()
	}
	it := &Item{
		id:      nextRuntimeID(),
		uid:     uid,
		stack:   item.DecodeStack(itemData),
		pos:     nbtconv.Vec3(data, "Pos"),
		vel:     nbtconv.Vec3(data, "Motion"),
		mc:      itemMovement(),
		health:  float32(nbtconv.Number(data, "Health", int16(ItemMaxHealth))),
		age:     max(int(nbtconv.Int16(data, "Age")), 0),
		owner:   nbtconv.String(data, "Owner"),
		thrower: nbtconv.String(data, "Thrower"),
	}
	it.SetPickupDelay(int(nbtconv.Int16(data, "PickupDelay")))
	if it.health <= 0 {
		return nil, fmt.Errorf("item entity %v has no health left", uid)
	}
	return it, nil
}
