package block

import (
	"math"
	"math/rand/v2"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/tile"
	"github.com/dm-vev/voxeltick/server/world"
)

// signPost is the behaviour of signs standing on top of a block. Placing a sign against the side of a block
// produces a wall sign instead.
type signPost struct {
	basic
}

// TileKind ...
func (signPost) TileKind() world.TileKind {
	return tile.KindSign
}

// Place ...
func (signPost) Place(ctx *world.PlaceContext) bool {
	w, ok := ctx.Pos.World()
	if !ok {
		return false
	}
	var b world.Block
	switch {
	case ctx.Face == cube.FaceDown || !ctx.Face.Valid():
		return false
	case ctx.Face == cube.FaceUp:
		var yaw float64
		if ctx.Actor != nil {
			yaw = ctx.Actor.Yaw()
		}
		b = world.Block{Type: SignPost, Meta: signRotation(yaw)}
	default:
		b = world.Block{Type: WallSign, Meta: uint8(ctx.Face)}
	}
	if !place(ctx, b) {
		return false
	}
	if _, err := w.CreateTile(tile.KindSign, ctx.Pos.Pos(), tileData(ctx.Item)); err != nil {
		w.Logger().Error("Create sign tile.", "pos", ctx.Pos.Pos(), "error", err)
	}
	return true
}

// signRotation returns the 16-step rotation of a sign post placed by an actor with the yaw passed.
func signRotation(yaw float64) uint8 {
	return uint8(int(math.Floor((yaw+180)*16/360+0.5)) & 0x0f)
}

// Update breaks the sign post when the block below it is removed.
func (signPost) Update(pos world.Position, _ world.Block, kind world.UpdateKind, _ *rand.Rand) world.UpdateKind {
	w, ok := pos.World()
	if !ok || kind != world.UpdateNormal {
		return world.UpdateNone
	}
	if _, below := support(pos, w); below != world.Air {
		return world.UpdateNone
	}
	breakBlock(w, pos.Pos(), item.Stack{}, nil)
	return world.UpdateNormal
}

// Drops ...
func (signPost) Drops(world.Position, world.Block, item.Stack) []item.Stack {
	return []item.Stack{item.NewStack(item.Sign, 0, 1)}
}

// wallSign is the behaviour of signs attached to the side of a block. Its meta holds the face of the block
// it is attached to.
type wallSign struct {
	signPost
}

// Update breaks the wall sign when the block it is attached to is removed.
func (wallSign) Update(pos world.Position, b world.Block, kind world.UpdateKind, _ *rand.Rand) world.UpdateKind {
	w, ok := pos.World()
	if !ok || kind != world.UpdateNormal {
		return world.UpdateNone
	}
	if w.Block(pos.Pos().Side(cube.Face(b.Meta).Opposite())) != world.Air {
		return world.UpdateNone
	}
	breakBlock(w, pos.Pos(), item.Stack{}, nil)
	return world.UpdateNormal
}
