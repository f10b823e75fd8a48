package world

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Entity is a simulated object in a World that is advanced every tick.
type Entity interface {
	// RuntimeID returns the ID used to address the entity in network notifications.
	RuntimeID() uint64
	// UUID returns the persistent unique ID of the entity.
	UUID() uuid.UUID
	// EncodeEntity returns the type identifier under which the entity is persisted.
	EncodeEntity() string
	// Position returns the current position of the entity.
	Position() mgl64.Vec3
	// BBox returns the bounding box of the entity relative to its position.
	BBox() cube.BBox
	// Despawned reports if the entity was flagged for despawning. The flag is terminal.
	Despawned() bool
	// EncodeNBT encodes the entity into its persisted compound form.
	EncodeNBT() map[string]any
}

// Spawner is implemented by entities that announce themselves to their observers when added to a World.
type Spawner interface {
	Entity
	// SpawnPayload returns the payload sent to the observers of the entity.
	SpawnPayload() any
}

// EntityTicker advances a single entity by the amount of ticks passed since it was last ticked. It is never
// called for entities that are despawned.
type EntityTicker interface {
	TickEntity(w *World, e Entity, elapsed int64)
}

// EntityDecoder decodes an entity from its persisted compound form. An error is returned if the data is
// malformed, in which case the entity is not added to the world.
type EntityDecoder func(data map[string]any) (Entity, error)

type nopEntityTicker struct{}

func (nopEntityTicker) TickEntity(*World, Entity, int64) {}

type entityState struct {
	lastTick int64
}
