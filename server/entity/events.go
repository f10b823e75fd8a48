package entity

import (
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/world"
)

// ItemDespawnEvent is published when an item entity reaches its maximum age. Cancelling it resets the age
// of the item to zero.
type ItemDespawnEvent struct {
	event.Context
	Item *Item
}

// Kind ...
func (*ItemDespawnEvent) Kind() event.Kind {
	return event.ItemDespawn
}

// ItemPickupEvent is published before an item entity is collected by a Collector.
type ItemPickupEvent struct {
	event.Context
	Item      *Item
	Collector Collector
}

// Kind ...
func (*ItemPickupEvent) Kind() event.Kind {
	return event.ItemPickup
}

// DamageCause is the source of damage dealt to an entity.
type DamageCause uint8

const (
	DamageAttack DamageCause = iota
	DamageVoid
	DamageFireTick
	DamageEntityExplosion
	DamageBlockExplosion
	DamageFall
)

// HurtEvent is published before an entity takes damage. Handlers may change the damage dealt.
type HurtEvent struct {
	event.Context
	Entity world.Entity
	Cause  DamageCause
	Damage float32
}

// Kind ...
func (*HurtEvent) Kind() event.Kind {
	return event.EntityHurt
}
