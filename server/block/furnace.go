package block

import (
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/tile"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// furnaceWindowID is the window ID under which furnace containers are opened.
const furnaceWindowID = 1

// furnace is the behaviour of furnaces and burning furnaces. Both share the furnace tile that performs the
// smelting.
type furnace struct {
	basic
}

// TileKind ...
func (furnace) TileKind() world.TileKind {
	return tile.KindFurnace
}

// Place places the furnace facing the actor and creates its tile.
func (f furnace) Place(ctx *world.PlaceContext) bool {
	w, ok := ctx.Pos.World()
	if !ok {
		return false
	}
	facing := cube.FaceSouth
	if ctx.Actor != nil {
		facing = cube.DirectionFromYaw(ctx.Actor.Yaw()).Opposite().Face()
	}
	if !place(ctx, world.Block{Type: ctx.Block.Type, Meta: uint8(facing)}) {
		return false
	}
	if _, err := w.CreateTile(tile.KindFurnace, ctx.Pos.Pos(), tileData(ctx.Item)); err != nil {
		w.Logger().Error("Create furnace tile.", "pos", ctx.Pos.Pos(), "error", err)
	}
	return true
}

// Activate opens the furnace container to the actor, unless the furnace is locked with a name other than
// the custom name of the held item.
func (furnace) Activate(pos world.Position, _ world.Block, held *item.Stack, actor world.Actor) bool {
	w, ok := pos.World()
	if !ok || actor == nil {
		return true
	}
	p := pos.Pos()
	t, ok := w.Tile(p)
	f, isFurnace := t.(*tile.Furnace)
	if !ok || !isFurnace {
		created, err := w.CreateTile(tile.KindFurnace, p, nil)
		if err != nil {
			w.Logger().Error("Create furnace tile.", "pos", p, "error", err)
			return true
		}
		f = created.(*tile.Furnace)
	}
	var name string
	if held != nil {
		name = held.CustomName()
	}
	if !f.Unlocks(name) {
		return true
	}
	w.Network().SendToActor(actor.RuntimeID(), &packet.ContainerOpen{
		WindowID:                furnaceWindowID,
		ContainerType:           protocol.ContainerTypeFurnace,
		ContainerPosition:       protocol.BlockPos{int32(p[0]), int32(p[1]), int32(p[2])},
		ContainerEntityUniqueID: -1,
	})
	return true
}

// Drops ...
func (furnace) Drops(_ world.Position, _ world.Block, tool item.Stack) []item.Stack {
	if !tool.ID().IsPickaxe() {
		return nil
	}
	return []item.Stack{item.NewStack(item.Furnace, 0, 1)}
}
