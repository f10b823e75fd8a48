package world

import (
	"errors"
	"fmt"

	"github.com/dm-vev/voxeltick/server/block/cube"
)

// ErrInvalidPosition is returned when a Position is used after the World it referenced was closed.
var ErrInvalidPosition = errors.New("position does not reference an open world")

// Position is a block position bound to a World. The reference to the World is revalidated every time it is
// accessed: once the World is closed, the Position drops its reference and is permanently invalid, so that
// it never exposes state of a closed World.
//
// The coordinates of a Position never change. Methods that revalidate the reference take a pointer
// receiver, as they may clear it.
type Position struct {
	pos cube.Pos
	w   *World
}

// NewPosition returns a Position at pos bound to w. ErrClosed is returned if w is closed.
func NewPosition(w *World, pos cube.Pos) (Position, error) {
	if w == nil || w.Closed() {
		return Position{pos: pos}, ErrClosed
	}
	return Position{pos: pos, w: w}, nil
}

// Pos returns the block coordinates of the Position.
func (p Position) Pos() cube.Pos {
	return p.pos
}

// X returns the X coordinate of the Position.
func (p Position) X() int { return p.pos[0] }

// Y returns the Y coordinate of the Position.
func (p Position) Y() int { return p.pos[1] }

// Z returns the Z coordinate of the Position.
func (p Position) Z() int { return p.pos[2] }

// World returns the World the Position is bound to. If that World was closed, the reference is cleared and
// false is returned.
func (p *Position) World() (*World, bool) {
	if p.w == nil {
		return nil, false
	}
	if p.w.Closed() {
		p.w.conf.Log.Debug("Position was holding a reference to a closed world.", "pos", p.pos)
		p.w = nil
		return nil, false
	}
	return p.w, true
}

// Valid reports if the Position still references an open World.
func (p *Position) Valid() bool {
	_, ok := p.World()
	return ok
}

// Side returns the Position n blocks away in the direction of face, bound to the same World. An error is
// returned if the Position is no longer valid.
func (p *Position) Side(face cube.Face, n int) (Position, error) {
	w, ok := p.World()
	if !ok {
		return Position{}, fmt.Errorf("side %v of %v: %w", face, p.pos, ErrInvalidPosition)
	}
	return Position{pos: p.pos.SideN(face, n), w: w}, nil
}

// Block returns the block at the Position. Air is returned if the Position is invalid.
func (p *Position) Block() Block {
	if w, ok := p.World(); ok {
		return w.Block(p.pos)
	}
	return Air
}

// Equal reports if both Positions have the same coordinates and reference the same, still open World.
func (p *Position) Equal(o *Position) bool {
	if o == nil || p.pos != o.pos {
		return false
	}
	w, ok := p.World()
	if !ok {
		return false
	}
	ow, ok := o.World()
	return ok && w == ow
}

// String ...
func (p *Position) String() string {
	name := "null"
	if w, ok := p.World(); ok {
		name = w.Name()
	}
	return fmt.Sprintf("Position(world=%v,x=%v,y=%v,z=%v)", name, p.pos[0], p.pos[1], p.pos[2])
}
