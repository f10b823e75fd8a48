package block

import (
	"math/rand/v2"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

const (
	// grassSpreadTrials is the amount of positions grass tries to spread to on every random update.
	grassSpreadTrials = 4
	// grassFilterThreshold is the light filter at or above which a block suffocates grass below it.
	grassFilterThreshold = 3
)

// grass is the behaviour of grass blocks. Grass spreads to nearby dirt when it receives enough light and
// decays to dirt when covered by a block that filters light.
type grass struct {
	basic
}

// TicksRandomly ...
func (grass) TicksRandomly() bool {
	return true
}

// Update ...
func (g grass) Update(pos world.Position, b world.Block, kind world.UpdateKind, r *rand.Rand) world.UpdateKind {
	w, ok := pos.World()
	if !ok || kind != world.UpdateRandom {
		return world.UpdateNone
	}
	p := pos.Pos()
	above := p.Side(cube.FaceUp)
	light := w.FullLightAt(above)
	if light < 4 && w.Behaviour(w.Block(above)).Properties().LightFilter >= grassFilterThreshold {
		w.ChangeBlock(world.NewBlockEvent(event.BlockDecay, p, b, world.Block{Type: Dirt}), &world.SetOpts{DisableBlockUpdates: true})
		return world.UpdateRandom
	}
	if light < 9 {
		return world.UpdateNone
	}
	for range grassSpreadTrials {
		target := p.Add(cube.Pos{r.IntN(3) - 1, r.IntN(5) - 3, r.IntN(3) - 1})
		if !g.canSpreadTo(w, target) {
			continue
		}
		ev := world.NewBlockEvent(event.BlockSpread, target, w.Block(target), world.Block{Type: Grass})
		ev.Source = p
		w.ChangeBlock(ev, &world.SetOpts{DisableBlockUpdates: true})
	}
	return world.UpdateRandom
}

// canSpreadTo checks if grass can spread to the position passed: the block there must be regular dirt,
// with enough light and no suffocating block above it.
func (grass) canSpreadTo(w *world.World, pos cube.Pos) bool {
	if pos.OutOfBounds(w.Range()) {
		return false
	}
	if b := w.Block(pos); b.Type != Dirt || b.Meta == CoarseDirtMeta {
		return false
	}
	above := pos.Side(cube.FaceUp)
	if w.FullLightAt(above) < 4 {
		return false
	}
	return w.Behaviour(w.Block(above)).Properties().LightFilter < grassFilterThreshold
}

// Activate ...
func (g grass) Activate(pos world.Position, _ world.Block, held *item.Stack, actor world.Actor) bool {
	w, ok := pos.World()
	if !ok || held == nil || held.Empty() {
		return false
	}
	p := pos.Pos()
	switch id := held.ID(); {
	case id == item.Dye && held.Meta() == item.BoneMealMeta:
		*held = held.Grow(-1)
		growTallGrass(w, p, actor, 8, 2)
		return true
	case id.IsHoe():
		change(w, p, world.Block{Type: Farmland}, actor, nil)
		return true
	case id.IsShovel() && w.Block(p.Side(cube.FaceUp)) == world.Air:
		change(w, p, world.Block{Type: GrassPath}, actor, nil)
		return true
	}
	return false
}

// Drops ...
func (grass) Drops(_ world.Position, _ world.Block, tool item.Stack) []item.Stack {
	if tool.Enchantment(item.SilkTouch) > 0 {
		return []item.Stack{item.NewStack(item.Grass, 0, 1)}
	}
	return []item.Stack{item.NewStack(item.Dirt, 0, 1)}
}

// growTallGrass grows tall grass on up to count grass blocks around pos, within the radius passed.
func growTallGrass(w *world.World, pos cube.Pos, actor world.Actor, count, radius int) {
	r := w.Rand()
	for range count {
		target := pos.Add(cube.Pos{r.IntN(radius*2+1) - radius, 0, r.IntN(radius*2+1) - radius})
		above := target.Side(cube.FaceUp)
		if w.Block(target).Type != Grass || above.OutOfBounds(w.Range()) || w.Block(above) != world.Air {
			continue
		}
		change(w, above, world.Block{Type: TallGrass, Meta: 1}, actor, nil)
	}
}
