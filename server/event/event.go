// Package event implements the synchronous, cancellable event protocol that wraps every observable change to a
// world. Events are published on a Bus before the change they describe is committed. Handlers may cancel an
// event, in which case the publisher skips the commit.
package event

// Kind identifies the type of change an Event proposes. Handlers are registered per Kind.
type Kind uint8

const (
	KindUnknown Kind = iota
	// BlockPlace is published before a block placed by an actor is written.
	BlockPlace
	// BlockBreak is published before a block is broken and its drops are spawned.
	BlockBreak
	// BlockChange is published before a block is changed as the result of an interaction or a tile.
	BlockChange
	// BlockSpread is published before a block spreads to a neighbouring position.
	BlockSpread
	// BlockDecay is published before a block reverts to its decayed form.
	BlockDecay
	// EntitySpawn is published before an entity is added to a world.
	EntitySpawn
	// EntityHurt is published before an entity takes damage.
	EntityHurt
	// ItemDespawn is published when an item entity reaches its maximum age.
	ItemDespawn
	// ItemPickup is published before an item entity is collected.
	ItemPickup

	kindCount
)

// String ...
func (k Kind) String() string {
	switch k {
	case BlockPlace:
		return "block_place"
	case BlockBreak:
		return "block_break"
	case BlockChange:
		return "block_change"
	case BlockSpread:
		return "block_spread"
	case BlockDecay:
		return "block_decay"
	case EntitySpawn:
		return "entity_spawn"
	case EntityHurt:
		return "entity_hurt"
	case ItemDespawn:
		return "item_despawn"
	case ItemPickup:
		return "item_pickup"
	}
	return "unknown"
}

// Event is a record of a proposed mutation. It carries a cancelled flag that handlers may set.
type Event interface {
	// Kind returns the Kind under which the event is delivered.
	Kind() Kind
	// Cancel cancels the event. The change it proposes will not be committed.
	Cancel()
	// Cancelled reports if any handler cancelled the event.
	Cancelled() bool
}

// Context implements the cancellation part of an Event. Event types embed it.
type Context struct {
	cancel bool
}

// Cancel cancels the event.
func (ctx *Context) Cancel() {
	ctx.cancel = true
}

// Cancelled returns whether the event was cancelled.
func (ctx *Context) Cancelled() bool {
	return ctx.cancel
}
