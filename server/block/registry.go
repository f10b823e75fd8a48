package block

import (
	"github.com/brentp/intintmap"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

// anyMeta is the variant key under which a behaviour shared by all variants of a type is registered.
const anyMeta = 0x100

// Registry maps block types and variants to their behaviour. It implements world.BehaviourRegistry.
// Behaviours are looked up by type and meta first, then by type alone. A Registry must not be modified
// once it is used by a World.
type Registry struct {
	index      *intintmap.Map
	behaviours []world.Behaviour
	fallback   world.Behaviour
}

// NewRegistry returns a Registry holding the behaviours of all block types in this package.
func NewRegistry() *Registry {
	r := &Registry{index: intintmap.New(64, 0.6), fallback: air{}}
	r.Register(Air, air{})
	for _, t := range []world.BlockType{Dirt, Cobblestone, Planks, Sand, Gravel, GoldOre, IronOre, Log} {
		r.Register(t, basic{t: t})
	}
	r.Register(Stone, basic{t: Stone, drops: dropAs(item.Cobblestone, 0)})
	r.Register(CoalOre, basic{t: CoalOre, drops: dropAs(item.Coal, 0)})
	r.Register(Glass, basic{t: Glass, drops: dropNothing})
	r.Register(Leaves, basic{t: Leaves, drops: dropNothing})
	r.Register(Farmland, basic{t: Farmland, drops: dropAs(item.Dirt, 0)})
	r.Register(GrassPath, basic{t: GrassPath, drops: dropAs(item.Dirt, 0)})
	r.Register(Grass, grass{basic: basic{t: Grass}})

	for _, t := range []world.BlockType{Sapling, Dandelion, Poppy} {
		r.Register(t, plant{basic: basic{t: t}, soil: fertile})
	}
	r.Register(TallGrass, plant{basic: basic{t: TallGrass, drops: dropNothing}, soil: fertile})
	r.Register(DeadBush, plant{basic: basic{t: DeadBush, drops: dropNothing}, soil: sandy})
	r.Register(Cactus, plant{basic: basic{t: Cactus}, soil: sandy})
	for _, t := range []world.BlockType{BrownMushroom, RedMushroom} {
		r.Register(t, plant{basic: basic{t: t}, soil: opaque})
	}

	r.Register(Furnace, furnace{basic: basic{t: Furnace}})
	r.Register(BurningFurnace, furnace{basic: basic{t: BurningFurnace}})
	r.Register(SignPost, signPost{basic: basic{t: SignPost}})
	r.Register(WallSign, wallSign{signPost: signPost{basic: basic{t: WallSign}}})
	r.Register(FlowerPot, flowerPot{basic: basic{t: FlowerPot}})
	return r
}

func registryKey(t world.BlockType, meta int) int64 {
	return int64(t)<<9 | int64(meta)
}

// Register registers the behaviour of all variants of the block type passed, replacing any behaviour
// registered for the type before.
func (r *Registry) Register(t world.BlockType, beh world.Behaviour) {
	r.put(registryKey(t, anyMeta), beh)
}

// RegisterVariant registers the behaviour of a single variant of a block type. It takes precedence over the
// behaviour registered for the type using Register.
func (r *Registry) RegisterVariant(b world.Block, beh world.Behaviour) {
	r.put(registryKey(b.Type, int(b.Meta)), beh)
}

func (r *Registry) put(key int64, beh world.Behaviour) {
	if i, ok := r.index.Get(key); ok {
		r.behaviours[i] = beh
		return
	}
	r.behaviours = append(r.behaviours, beh)
	r.index.Put(key, int64(len(r.behaviours)-1))
}

// Behaviour returns the behaviour of the block passed. Blocks of unknown types behave like air.
func (r *Registry) Behaviour(b world.Block) world.Behaviour {
	if i, ok := r.index.Get(registryKey(b.Type, int(b.Meta))); ok {
		return r.behaviours[i]
	}
	if i, ok := r.index.Get(registryKey(b.Type, anyMeta)); ok {
		return r.behaviours[i]
	}
	return r.fallback
}

// ItemBlock returns the block placed by the item stack passed, if any.
func ItemBlock(s item.Stack) (world.Block, bool) {
	if s.Empty() {
		return world.Air, false
	}
	switch s.ID() {
	case item.Sign:
		return world.Block{Type: SignPost}, true
	case item.FlowerPot:
		return world.Block{Type: FlowerPot}, true
	}
	if s.ID() > 0 && s.ID() < 256 {
		if _, ok := propertyTable[world.BlockType(s.ID())]; ok {
			return world.Block{Type: world.BlockType(s.ID()), Meta: uint8(s.Meta())}, true
		}
	}
	return world.Air, false
}

// air is the behaviour of air and of blocks of unknown types.
type air struct {
	basic
}

// Place ...
func (air) Place(*world.PlaceContext) bool { return false }

// Drops ...
func (air) Drops(world.Position, world.Block, item.Stack) []item.Stack { return nil }

// Properties ...
func (air) Properties() world.Properties { return properties(Air) }
