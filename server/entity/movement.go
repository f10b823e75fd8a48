package entity

import (
	"math"
	"sync"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// MovementComputer is used to compute movement of an entity. When constructed, the Gravity of the entity
// the movement is computed for must be passed.
type MovementComputer struct {
	Gravity, Drag     float64
	DragBeforeGravity bool

	onGround bool
}

// blockBBoxPool caches scratch slices used while collecting collision boxes around an entity.
var blockBBoxPool = sync.Pool{
	New: func() any {
		return make([]cube.BBox, 0, 16)
	},
}

// Movement represents the movement of an entity as a result of a call to MovementComputer.TickMovement.
type Movement struct {
	pos, vel, dpos, dvel mgl64.Vec3
	onGround             bool
}

// Position returns the position as a result of the Movement as an mgl64.Vec3.
func (m Movement) Position() mgl64.Vec3 {
	return m.pos
}

// Velocity returns the velocity after the Movement as an mgl64.Vec3.
func (m Movement) Velocity() mgl64.Vec3 {
	return m.vel
}

// Moved reports if the position or velocity changed noticeably during the Movement.
func (m Movement) Moved() bool {
	return !m.dpos.ApproxEqualThreshold(zeroVec3, epsilon) || !m.dvel.ApproxEqualThreshold(zeroVec3, epsilon)
}

// Send notifies the observers of the entity with the runtime ID passed of the Movement. Nothing is sent if
// the entity did not move noticeably.
func (m Movement) Send(w *world.World, id uint64) {
	if !m.Moved() {
		return
	}
	var flags byte
	if m.onGround {
		flags |= packet.MoveFlagOnGround
	}
	n := w.Network()
	n.NotifyObservers(id, &packet.MoveActorAbsolute{EntityRuntimeID: id, Flags: flags, Position: vec64To32(m.pos)})
	n.NotifyObservers(id, &packet.SetActorMotion{EntityRuntimeID: id, Velocity: vec64To32(m.vel)})
}

// vec64To32 converts a mgl64.Vec3 to a mgl32.Vec3.
func vec64To32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// TickMovement performs a movement tick on an entity with the bounding box passed, relative to its position.
// Velocity is applied and changed according to the values of its Drag and Gravity.
func (c *MovementComputer) TickMovement(w *world.World, box cube.BBox, pos, vel mgl64.Vec3) Movement {
	velBefore := vel
	vel = c.applyHorizontalForces(w, pos, c.applyVerticalForces(vel))
	dPos, vel := c.checkCollision(w, box, pos, vel)

	return Movement{pos: pos.Add(dPos), vel: vel, dpos: dPos, dvel: vel.Sub(velBefore), onGround: c.onGround}
}

// OnGround checks if the entity that this computer calculates is currently on the ground.
func (c *MovementComputer) OnGround() bool {
	return c.onGround
}

// zeroVec3 is a mgl64.Vec3 with zero values.
var zeroVec3 mgl64.Vec3

// epsilon is the epsilon used for thresholds for change used for change in position and velocity.
const epsilon = 0.001

// applyVerticalForces applies gravity and drag on the Y axis, based on the Gravity and Drag values set.
func (c *MovementComputer) applyVerticalForces(vel mgl64.Vec3) mgl64.Vec3 {
	if c.DragBeforeGravity {
		vel[1] *= 1 - c.Drag
	}
	vel[1] -= c.Gravity
	if !c.DragBeforeGravity {
		vel[1] *= 1 - c.Drag
	}
	return vel
}

// applyHorizontalForces applies friction to the velocity based on the Drag value, reducing it on the X and Z
// axes. Entities on the ground are slowed down further.
func (c *MovementComputer) applyHorizontalForces(w *world.World, pos, vel mgl64.Vec3) mgl64.Vec3 {
	friction := 1 - c.Drag
	if c.onGround && w.Block(cube.PosFromVec3(pos).Side(cube.FaceDown)) != world.Air {
		friction *= 0.6
	}
	vel[0] *= friction
	vel[2] *= friction
	return vel
}

// checkCollision handles the collision of the entity with blocks, adapting the velocity of the entity if it
// happens to collide with a block.
// The final velocity and the Vec3 that the entity should move is returned.
func (c *MovementComputer) checkCollision(w *world.World, box cube.BBox, pos, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	deltaX, deltaY, deltaZ := vel[0], vel[1], vel[2]

	entityBBox := box.Translate(pos)
	blocks := blockBBoxesAround(w, entityBBox.Extend(vel))

	if !mgl64.FloatEqualThreshold(deltaY, 0, epsilon) {
		// First we move the entity BBox on the Y axis.
		for _, blockBBox := range blocks {
			deltaY = entityBBox.YOffset(blockBBox, deltaY)
		}
		entityBBox = entityBBox.Translate(mgl64.Vec3{0, deltaY})
	}
	if !mgl64.FloatEqualThreshold(deltaX, 0, epsilon) {
		// Then on the X axis.
		for _, blockBBox := range blocks {
			deltaX = entityBBox.XOffset(blockBBox, deltaX)
		}
		entityBBox = entityBBox.Translate(mgl64.Vec3{deltaX})
	}
	if !mgl64.FloatEqualThreshold(deltaZ, 0, epsilon) {
		// And finally on the Z axis.
		for _, blockBBox := range blocks {
			deltaZ = entityBBox.ZOffset(blockBBox, deltaZ)
		}
	}
	if !mgl64.FloatEqual(vel[1], 0) {
		// The entity is moving either up or down, so it is not on the ground.
		c.onGround = false
	}
	if !mgl64.FloatEqual(deltaX, vel[0]) {
		vel[0] = 0
	}
	if !mgl64.FloatEqual(deltaY, vel[1]) {
		// The entity either hit the ground or hit the ceiling.
		if vel[1] < 0 {
			c.onGround = true
		}
		vel[1] = 0
	}
	if !mgl64.FloatEqual(deltaZ, vel[2]) {
		vel[2] = 0
	}
	blockBBoxPool.Put(blocks[:0])
	return mgl64.Vec3{deltaX, deltaY, deltaZ}, vel
}

// blockBBoxesAround returns the collision boxes of all blocks that the BBox passed may touch.
func blockBBoxesAround(w *world.World, box cube.BBox) []cube.BBox {
	grown := box.Grow(0.25)
	min, max := grown.Min(), grown.Max()
	minX, minY, minZ := int(math.Floor(min[0])), int(math.Floor(min[1])), int(math.Floor(min[2]))
	maxX, maxY, maxZ := int(math.Ceil(max[0])), int(math.Ceil(max[1])), int(math.Ceil(max[2]))

	blockBBoxes := blockBBoxPool.Get().([]cube.BBox)[:0]
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				blockBBoxes = append(blockBBoxes, w.BlockBBoxes(cube.Pos{x, y, z})...)
			}
		}
	}
	return blockBBoxes
}

// solidAt reports if the block at pos has a full collision box.
func solidAt(w *world.World, pos cube.Pos) bool {
	return w.Behaviour(w.Block(pos)).Properties().Solid
}

// obstructionPush returns the velocity that pushes an entity at pos out of the solid block it is stuck in,
// towards the closest side that is not solid. False is returned if the entity is not stuck.
func obstructionPush(w *world.World, pos, vel mgl64.Vec3) (mgl64.Vec3, bool) {
	block := cube.PosFromVec3(pos)
	if !solidAt(w, block) {
		return vel, false
	}
	diff := pos.Sub(block.Vec3())

	face, limit := cube.FaceUp, math.MaxFloat64
	candidates := []struct {
		face cube.Face
		dist float64
	}{
		{cube.FaceWest, diff[0]},
		{cube.FaceEast, 1 - diff[0]},
		{cube.FaceDown, diff[1]},
		{cube.FaceUp, 1 - diff[1]},
		{cube.FaceNorth, diff[2]},
		{cube.FaceSouth, 1 - diff[2]},
	}
	for _, c := range candidates {
		if c.dist < limit && !solidAt(w, block.Side(c.face)) {
			face, limit = c.face, c.dist
		}
	}

	force := w.Rand().Float64()*0.2 + 0.1
	switch face {
	case cube.FaceWest:
		vel[0] = -force
	case cube.FaceEast:
		vel[0] = force
	case cube.FaceDown:
		vel[1] = -force
	case cube.FaceUp:
		vel[1] = force
	case cube.FaceNorth:
		vel[2] = -force
	case cube.FaceSouth:
		vel[2] = force
	}
	return vel, true
}
