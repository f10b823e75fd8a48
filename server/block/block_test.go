package block

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/entity"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/tile"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

type testActor struct {
	id  uint64
	yaw float64
}

func (a testActor) RuntimeID() uint64 { return a.id }
func (a testActor) Yaw() float64      { return a.yaw }

type recordingNetwork struct {
	world.NopNetwork
	sent []any
}

func (n *recordingNetwork) SendToActor(_ uint64, payload any) {
	n.sent = append(n.sent, payload)
}

func newTestWorld(t *testing.T, conf world.Config) *world.World {
	t.Helper()
	conf.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	conf.Blocks = NewRegistry()
	conf.Entities = entity.Engine{}
	if conf.Rand == nil {
		conf.Rand = rand.New(rand.NewPCG(1, 2))
	}
	conf.RandomTickSpeed = -1
	w := conf.New()
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// countEvents registers a handler counting the block events of the kind passed, cancelling them if cancel
// is true.
func countEvents(w *world.World, kind event.Kind, cancel bool) *[]*world.BlockEvent {
	var events []*world.BlockEvent
	event.Handle(w.Bus(), kind, func(e *world.BlockEvent) {
		events = append(events, e)
		if cancel {
			e.Cancel()
		}
	})
	return &events
}

func update(w *world.World, pos cube.Pos, kind world.UpdateKind, r *rand.Rand) world.UpdateKind {
	b := w.Block(pos)
	return w.Behaviour(b).Update(w.Position(pos), b, kind, r)
}

func droppedItems(w *world.World) []item.Stack {
	var stacks []item.Stack
	for _, e := range w.Entities() {
		if it, ok := e.(*entity.Item); ok {
			stacks = append(stacks, it.Item())
		}
	}
	return stacks
}

func TestGrassDecay(t *testing.T) {
	for _, cancel := range []bool{false, true} {
		w := newTestWorld(t, world.Config{})
		decays := countEvents(w, event.BlockDecay, cancel)
		pos := cube.Pos{0, 10, 0}
		w.SetBlock(pos, world.Block{Type: Grass}, nil)
		w.SetBlock(pos.Side(cube.FaceUp), world.Block{Type: Stone}, nil)

		update(w, pos, world.UpdateRandom, w.Rand())
		if len(*decays) != 1 {
			t.Fatalf("expected exactly one decay event, got %d", len(*decays))
		}
		if ev := (*decays)[0]; ev.Old.Type != Grass || ev.New.Type != Dirt || ev.Pos != pos {
			t.Fatalf("unexpected decay event %+v", ev)
		}
		want := Dirt
		if cancel {
			want = Grass
		}
		if got := w.Block(pos).Type; got != want {
			t.Fatalf("cancelled=%v: expected block %v, got %v", cancel, want, got)
		}
	}
}

func TestGrassDoesNotDecayUnderTransparentBlock(t *testing.T) {
	w := newTestWorld(t, world.Config{Light: func(*world.World, cube.Pos) int { return 0 }})
	decays := countEvents(w, event.BlockDecay, false)
	pos := cube.Pos{0, 10, 0}
	w.SetBlock(pos, world.Block{Type: Grass}, nil)
	w.SetBlock(pos.Side(cube.FaceUp), world.Block{Type: Glass}, nil)

	update(w, pos, world.UpdateRandom, w.Rand())
	if len(*decays) != 0 || w.Block(pos).Type != Grass {
		t.Fatalf("expected grass below glass to survive in the dark")
	}
}

func TestGrassSpread(t *testing.T) {
	pos := cube.Pos{0, 10, 0}
	tests := []struct {
		name   string
		soil   world.Block
		light  int
		spread bool
	}{
		{name: "dirt", soil: world.Block{Type: Dirt}, light: 15, spread: true},
		{name: "coarse dirt", soil: world.Block{Type: Dirt, Meta: CoarseDirtMeta}, light: 15},
		{name: "dim", soil: world.Block{Type: Dirt}, light: 8},
		{name: "stone", soil: world.Block{Type: Stone}, light: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, world.Config{Light: func(*world.World, cube.Pos) int { return tt.light }})
			spreads := countEvents(w, event.BlockSpread, false)
			w.SetBlock(pos, world.Block{Type: Grass}, nil)
			for x := -1; x <= 1; x++ {
				for z := -1; z <= 1; z++ {
					if x != 0 || z != 0 {
						w.SetBlock(pos.Add(cube.Pos{x, 0, z}), tt.soil, nil)
					}
				}
			}

			// Replay the draws of the update to find the positions it tries to spread to.
			expected := map[cube.Pos]bool{}
			replay := rand.New(rand.NewPCG(7, 8))
			for range grassSpreadTrials {
				offset := cube.Pos{replay.IntN(3) - 1, replay.IntN(5) - 3, replay.IntN(3) - 1}
				if offset[1] == 0 && (offset[0] != 0 || offset[2] != 0) {
					expected[pos.Add(offset)] = true
				}
			}
			if !tt.spread {
				expected = map[cube.Pos]bool{}
			}

			update(w, pos, world.UpdateRandom, rand.New(rand.NewPCG(7, 8)))
			if len(*spreads) != len(expected) {
				t.Fatalf("expected %d spread events, got %d", len(expected), len(*spreads))
			}
			for _, ev := range *spreads {
				if !expected[ev.Pos] || ev.Source != pos || ev.New.Type != Grass {
					t.Fatalf("unexpected spread event %+v", ev)
				}
				if w.Block(ev.Pos).Type != Grass {
					t.Fatalf("expected %v to be grass after spreading", ev.Pos)
				}
			}
		})
	}
}

func TestGrassSpreadCancelled(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	spreads := countEvents(w, event.BlockSpread, true)
	pos := cube.Pos{0, 10, 0}
	w.SetBlock(pos, world.Block{Type: Grass}, nil)
	var soil []cube.Pos
	for x := -1; x <= 1; x++ {
		for z := -1; z <= 1; z++ {
			if x != 0 || z != 0 {
				soil = append(soil, pos.Add(cube.Pos{x, 0, z}))
			}
		}
	}
	for _, p := range soil {
		w.SetBlock(p, world.Block{Type: Dirt}, nil)
	}
	for range 20 {
		update(w, pos, world.UpdateRandom, w.Rand())
	}
	if len(*spreads) == 0 {
		t.Fatalf("expected grass to attempt spreading")
	}
	for _, p := range soil {
		if got := w.Block(p).Type; got != Dirt {
			t.Fatalf("expected cancelled spread to leave dirt, got %v", got)
		}
	}
}

func TestGrassActivate(t *testing.T) {
	pos := cube.Pos{0, 10, 0}
	tests := []struct {
		name string
		held item.Stack
		want world.BlockType
	}{
		{name: "hoe", held: item.NewStack(item.DiamondHoe, 0, 1), want: Farmland},
		{name: "shovel", held: item.NewStack(item.DiamondShovel, 0, 1), want: GrassPath},
		{name: "dirt", held: item.NewStack(item.Dirt, 0, 1), want: Grass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, world.Config{})
			w.SetBlock(pos, world.Block{Type: Grass}, nil)
			held := tt.held
			Activate(w, pos, &held, testActor{})
			if got := w.Block(pos).Type; got != tt.want {
				t.Fatalf("expected %v after activation, got %v", tt.want, got)
			}
		})
	}
}

func TestBoneMealGrowsTallGrass(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			w.SetBlock(cube.Pos{x, 10, z}, world.Block{Type: Grass}, nil)
		}
	}
	held := item.NewStack(item.Dye, item.BoneMealMeta, 2)
	if !Activate(w, cube.Pos{0, 10, 0}, &held, nil) {
		t.Fatalf("expected bone meal to be used")
	}
	if held.Count() != 1 {
		t.Fatalf("expected one bone meal to be consumed, got %v left", held.Count())
	}
	grown := 0
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			if w.Block(cube.Pos{x, 11, z}).Type == TallGrass {
				grown++
			}
		}
	}
	if grown == 0 {
		t.Fatalf("expected tall grass to grow")
	}
}

func TestPlaceFurnace(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	places := countEvents(w, event.BlockPlace, false)
	w.SetBlock(cube.Pos{0, 9, 0}, world.Block{Type: Stone}, nil)
	held := item.NewStack(item.Furnace, 0, 2).WithCustomName("Smelter")
	actor := testActor{id: 1, yaw: 0}

	if !UseItemOn(w, cube.Pos{0, 9, 0}, cube.FaceUp, &held, actor) {
		t.Fatalf("expected furnace to be placed")
	}
	pos := cube.Pos{0, 10, 0}
	if got := w.Block(pos); got != (world.Block{Type: Furnace, Meta: uint8(cube.FaceNorth)}) {
		t.Fatalf("expected furnace facing the actor, got %v", got)
	}
	if held.Count() != 1 {
		t.Fatalf("expected one furnace to be consumed, got %v left", held.Count())
	}
	if len(*places) != 1 || (*places)[0].Actor != world.Actor(actor) {
		t.Fatalf("expected a single place event carrying the actor")
	}
	tl, ok := w.Tile(pos)
	if !ok {
		t.Fatalf("expected furnace tile to be created")
	}
	if f := tl.(*tile.Furnace); f.CustomName != "Smelter" {
		t.Fatalf("expected furnace to carry the name of the item, got %q", f.CustomName)
	}
}

func TestPlaceCancelled(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	countEvents(w, event.BlockPlace, true)
	w.SetBlock(cube.Pos{0, 9, 0}, world.Block{Type: Stone}, nil)
	held := item.NewStack(item.Furnace, 0, 1)

	if UseItemOn(w, cube.Pos{0, 9, 0}, cube.FaceUp, &held, testActor{}) {
		t.Fatalf("expected cancelled placement to fail")
	}
	if w.Block(cube.Pos{0, 10, 0}) != world.Air || held.Count() != 1 {
		t.Fatalf("expected cancelled placement to change nothing")
	}
	if _, ok := w.Tile(cube.Pos{0, 10, 0}); ok {
		t.Fatalf("expected no tile after cancelled placement")
	}
}

func TestPlaceSign(t *testing.T) {
	clicked := cube.Pos{0, 10, 0}
	tests := []struct {
		name string
		face cube.Face
		yaw  float64
		pos  cube.Pos
		want world.Block
		ok   bool
	}{
		{name: "post", face: cube.FaceUp, yaw: 90, pos: cube.Pos{0, 11, 0}, want: world.Block{Type: SignPost, Meta: 12}, ok: true},
		{name: "wall", face: cube.FaceNorth, pos: cube.Pos{0, 10, -1}, want: world.Block{Type: WallSign, Meta: uint8(cube.FaceNorth)}, ok: true},
		{name: "ceiling", face: cube.FaceDown, pos: cube.Pos{0, 9, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, world.Config{})
			w.SetBlock(clicked, world.Block{Type: Stone}, nil)
			held := item.NewStack(item.Sign, 0, 1)

			if got := UseItemOn(w, clicked, tt.face, &held, testActor{yaw: tt.yaw}); got != tt.ok {
				t.Fatalf("UseItemOn() = %v, want %v", got, tt.ok)
			}
			if got := w.Block(tt.pos); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			_, hasTile := w.Tile(tt.pos)
			if hasTile != tt.ok {
				t.Fatalf("expected tile present = %v", tt.ok)
			}
		})
	}
}

func TestSignRotation(t *testing.T) {
	tests := []struct {
		yaw  float64
		want uint8
	}{
		{yaw: -180, want: 0},
		{yaw: 0, want: 8},
		{yaw: 90, want: 12},
		{yaw: 180, want: 0},
		{yaw: -90, want: 4},
		{yaw: 10, want: 8},
		{yaw: 12, want: 9},
	}
	for _, tt := range tests {
		if got := signRotation(tt.yaw); got != tt.want {
			t.Fatalf("signRotation(%v) = %v, want %v", tt.yaw, got, tt.want)
		}
	}
}

func TestWallSignBreaksWithoutSupport(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	support := cube.Pos{0, 10, 0}
	w.SetBlock(support, world.Block{Type: Stone}, nil)
	held := item.NewStack(item.Sign, 0, 1)
	if !UseItemOn(w, support, cube.FaceNorth, &held, nil) {
		t.Fatalf("expected wall sign to be placed")
	}
	w.Tick()

	if !Break(w, support, item.Stack{}, nil) {
		t.Fatalf("expected support to break")
	}
	w.Tick()

	sign := support.Side(cube.FaceNorth)
	if w.Block(sign) != world.Air {
		t.Fatalf("expected wall sign to break after its support was removed")
	}
	if _, ok := w.Tile(sign); ok {
		t.Fatalf("expected sign tile to be removed with its block")
	}
	drops := droppedItems(w)
	if len(drops) != 2 {
		t.Fatalf("expected cobblestone and sign to drop, got %v", drops)
	}
	if drops[0].ID() != item.Cobblestone || drops[1].ID() != item.Sign {
		t.Fatalf("unexpected drops %v", drops)
	}
}

func TestPlaceFlowerPot(t *testing.T) {
	for _, support := range []world.BlockType{Stone, Glass} {
		w := newTestWorld(t, world.Config{})
		w.SetBlock(cube.Pos{0, 9, 0}, world.Block{Type: support}, nil)
		held := item.NewStack(item.FlowerPot, 0, 1)

		placed := UseItemOn(w, cube.Pos{0, 9, 0}, cube.FaceUp, &held, nil)
		if want := support == Stone; placed != want {
			t.Fatalf("placing flower pot on %v = %v, want %v", support, placed, want)
		}
		_, hasTile := w.Tile(cube.Pos{0, 10, 0})
		if hasTile != placed {
			t.Fatalf("expected tile present = %v", placed)
		}
	}
}

func TestFlowerPotActivate(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	pos := cube.Pos{0, 10, 0}
	w.SetBlock(pos.Side(cube.FaceDown), world.Block{Type: Stone}, nil)
	w.SetBlock(pos, world.Block{Type: FlowerPot}, nil)
	if _, err := w.CreateTile(tile.KindFlowerPot, pos, nil); err != nil {
		t.Fatalf("create flower pot tile: %v", err)
	}

	dirt := item.NewStack(item.Dirt, 0, 1)
	if !Activate(w, pos, &dirt, nil) || dirt.Count() != 1 {
		t.Fatalf("expected dirt not to be potted")
	}

	poppy := item.NewStack(item.Poppy, 0, 2)
	if !Activate(w, pos, &poppy, nil) {
		t.Fatalf("expected poppy to be potted")
	}
	if poppy.Count() != 1 {
		t.Fatalf("expected one poppy to be consumed, got %v left", poppy.Count())
	}
	if got := w.Block(pos).Meta; got != flowerPotFull {
		t.Fatalf("expected full flower pot meta, got %v", got)
	}
	tl, _ := w.Tile(pos)
	if got := tl.(*tile.FlowerPot).Item(); !got.Equal(item.NewStack(item.Poppy, 0, 1)) {
		t.Fatalf("expected the pot to hold one poppy, got %v", got)
	}

	Activate(w, pos, &poppy, nil)
	if poppy.Count() != 1 {
		t.Fatalf("expected a full pot not to take another poppy")
	}

	if !Break(w, pos, item.Stack{}, nil) {
		t.Fatalf("expected flower pot to break")
	}
	drops := droppedItems(w)
	if len(drops) != 2 || drops[0].ID() != item.FlowerPot || drops[1].ID() != item.Poppy {
		t.Fatalf("expected flower pot and poppy to drop, got %v", drops)
	}
}

func TestFurnaceActivate(t *testing.T) {
	network := &recordingNetwork{}
	w := newTestWorld(t, world.Config{Network: network})
	pos := cube.Pos{3, 10, -2}
	w.SetBlock(pos, world.Block{Type: Furnace}, nil)
	if _, err := w.CreateTile(tile.KindFurnace, pos, map[string]any{"Lock": "key"}); err != nil {
		t.Fatalf("create furnace tile: %v", err)
	}

	held := item.NewStack(item.Coal, 0, 1)
	if !Activate(w, pos, &held, testActor{id: 5}) {
		t.Fatalf("expected locked furnace to handle the activation")
	}
	if len(network.sent) != 0 {
		t.Fatalf("expected locked furnace not to open")
	}

	key := item.NewStack(item.Coal, 0, 1).WithCustomName("key")
	Activate(w, pos, &key, testActor{id: 5})
	if len(network.sent) != 1 {
		t.Fatalf("expected furnace to open, got %d payloads", len(network.sent))
	}
	pk, ok := network.sent[0].(*packet.ContainerOpen)
	if !ok {
		t.Fatalf("expected ContainerOpen, got %T", network.sent[0])
	}
	if pk.ContainerType != protocol.ContainerTypeFurnace || pk.ContainerPosition != (protocol.BlockPos{3, 10, -2}) {
		t.Fatalf("unexpected container %+v", pk)
	}
}

func TestPlaceLockedFurnace(t *testing.T) {
	network := &recordingNetwork{}
	w := newTestWorld(t, world.Config{Network: network})
	w.SetBlock(cube.Pos{0, 9, 0}, world.Block{Type: Stone}, nil)
	held := item.NewStack(item.Furnace, 0, 1).WithValue(BlockEntityTag, map[string]any{
		"id": "Chest", "x": int32(100), "y": int32(100), "z": int32(100), "Lock": "key",
	})
	if !UseItemOn(w, cube.Pos{0, 9, 0}, cube.FaceUp, &held, testActor{id: 2}) {
		t.Fatalf("expected furnace to be placed")
	}
	pos := cube.Pos{0, 10, 0}
	tl, ok := w.Tile(pos)
	if !ok {
		t.Fatalf("expected furnace tile to be created")
	}
	f := tl.(*tile.Furnace)
	if f.Lock != "key" || f.Pos() != pos {
		t.Fatalf("expected tile locked with key at %v, got lock %q at %v", pos, f.Lock, f.Pos())
	}

	coal := item.NewStack(item.Coal, 0, 1)
	Activate(w, pos, &coal, testActor{id: 2})
	if len(network.sent) != 0 {
		t.Fatalf("expected furnace placed from a locked item not to open without the key")
	}
	key := item.NewStack(item.Coal, 0, 1).WithCustomName("key")
	Activate(w, pos, &key, testActor{id: 2})
	if len(network.sent) != 1 {
		t.Fatalf("expected furnace to open with the key, got %d payloads", len(network.sent))
	}
}

func TestPlaceTileData(t *testing.T) {
	tests := []struct {
		name string
		held item.Stack
		face cube.Face
		pos  cube.Pos
		want string
		text string
	}{
		{name: "named sign", held: item.NewStack(item.Sign, 0, 1).WithCustomName("Named"), face: cube.FaceUp, pos: cube.Pos{0, 11, 0}, want: "Named"},
		{name: "written sign", held: item.NewStack(item.Sign, 0, 1).WithValue(BlockEntityTag, map[string]any{"Text1": "hello"}), face: cube.FaceNorth, pos: cube.Pos{0, 10, -1}, text: "hello"},
		{name: "named pot", held: item.NewStack(item.FlowerPot, 0, 1).WithCustomName("Pot"), face: cube.FaceUp, pos: cube.Pos{0, 11, 0}, want: "Pot"},
		{name: "plain pot", held: item.NewStack(item.FlowerPot, 0, 1), face: cube.FaceUp, pos: cube.Pos{0, 11, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, world.Config{})
			w.SetBlock(cube.Pos{0, 10, 0}, world.Block{Type: Stone}, nil)
			held := tt.held
			if !UseItemOn(w, cube.Pos{0, 10, 0}, tt.face, &held, testActor{}) {
				t.Fatalf("expected block to be placed")
			}
			tl, ok := w.Tile(tt.pos)
			if !ok {
				t.Fatalf("expected tile at %v", tt.pos)
			}
			data := tl.EncodeNBT()
			if name, _ := data["CustomName"].(string); name != tt.want {
				t.Fatalf("expected custom name %q, got %q", tt.want, name)
			}
			if s, ok := tl.(*tile.Sign); ok && s.Text() != tt.text {
				t.Fatalf("expected sign text %q, got %q", tt.text, s.Text())
			}
		})
	}
}

func TestBreakDrops(t *testing.T) {
	silk := item.NewStack(item.DiamondShovel, 0, 1).WithEnchantment(item.SilkTouch, 1)
	tests := []struct {
		name  string
		block world.Block
		tool  item.Stack
		want  []item.ID
	}{
		{name: "stone", block: world.Block{Type: Stone}, want: []item.ID{item.Cobblestone}},
		{name: "glass", block: world.Block{Type: Glass}},
		{name: "grass", block: world.Block{Type: Grass}, want: []item.ID{item.Dirt}},
		{name: "grass silk touch", block: world.Block{Type: Grass}, tool: silk, want: []item.ID{item.Grass}},
		{name: "furnace by hand", block: world.Block{Type: Furnace}},
		{name: "furnace", block: world.Block{Type: BurningFurnace}, tool: item.NewStack(item.DiamondPickaxe, 0, 1), want: []item.ID{item.Furnace}},
		{name: "coal ore", block: world.Block{Type: CoalOre}, want: []item.ID{item.Coal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, world.Config{})
			breaks := countEvents(w, event.BlockBreak, false)
			pos := cube.Pos{0, 10, 0}
			w.SetBlock(pos, tt.block, nil)

			if !Break(w, pos, tt.tool, nil) {
				t.Fatalf("expected block to break")
			}
			if len(*breaks) != 1 || w.Block(pos) != world.Air {
				t.Fatalf("expected one break event and air at the position")
			}
			drops := droppedItems(w)
			if len(drops) != len(tt.want) {
				t.Fatalf("expected drops %v, got %v", tt.want, drops)
			}
			for i, id := range tt.want {
				if drops[i].ID() != id {
					t.Fatalf("expected drops %v, got %v", tt.want, drops)
				}
			}
		})
	}
}

func TestBreakCancelled(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	countEvents(w, event.BlockBreak, true)
	pos := cube.Pos{0, 10, 0}
	w.SetBlock(pos, world.Block{Type: Stone}, nil)
	if Break(w, pos, item.Stack{}, nil) {
		t.Fatalf("expected cancelled break to fail")
	}
	if w.Block(pos).Type != Stone || len(droppedItems(w)) != 0 {
		t.Fatalf("expected cancelled break to change nothing")
	}
}

func TestPlantNeedsSoil(t *testing.T) {
	w := newTestWorld(t, world.Config{})
	w.SetBlock(cube.Pos{0, 9, 0}, world.Block{Type: Stone}, nil)
	w.SetBlock(cube.Pos{1, 9, 0}, world.Block{Type: Grass}, nil)

	flower := item.NewStack(item.Dandelion, 0, 2)
	if UseItemOn(w, cube.Pos{0, 9, 0}, cube.FaceUp, &flower, nil) {
		t.Fatalf("expected dandelion not to be placed on stone")
	}
	if !UseItemOn(w, cube.Pos{1, 9, 0}, cube.FaceUp, &flower, nil) {
		t.Fatalf("expected dandelion to be placed on grass")
	}
	w.Tick()

	w.SetBlock(cube.Pos{1, 9, 0}, world.Air, nil)
	w.Tick()
	if w.Block(cube.Pos{1, 10, 0}) != world.Air {
		t.Fatalf("expected dandelion to break without soil")
	}
	if drops := droppedItems(w); len(drops) != 1 || drops[0].ID() != item.Dandelion {
		t.Fatalf("expected dandelion to drop, got %v", drops)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.Behaviour(world.Block{Type: 255}).Properties().Name; got != "Air" {
		t.Fatalf("expected unknown blocks to behave like air, got %q", got)
	}
	if !r.Behaviour(world.Block{Type: Grass}).TicksRandomly() {
		t.Fatalf("expected grass to tick randomly")
	}
	r.RegisterVariant(world.Block{Type: Dirt, Meta: CoarseDirtMeta}, basic{t: Dirt, drops: dropNothing})
	if drops := r.Behaviour(world.Block{Type: Dirt, Meta: CoarseDirtMeta}).Drops(world.Position{}, world.Block{}, item.Stack{}); len(drops) != 0 {
		t.Fatalf("expected variant behaviour to take precedence, got drops %v", drops)
	}
	if drops := r.Behaviour(world.Block{Type: Dirt}).Drops(world.Position{}, world.Block{Type: Dirt}, item.Stack{}); len(drops) != 1 {
		t.Fatalf("expected other variants to keep the type behaviour, got drops %v", drops)
	}
}

func TestItemBlock(t *testing.T) {
	tests := []struct {
		s    item.Stack
		want world.Block
		ok   bool
	}{
		{s: item.NewStack(item.Stone, 0, 1), want: world.Block{Type: Stone}, ok: true},
		{s: item.NewStack(item.Sapling, 2, 1), want: world.Block{Type: Sapling, Meta: 2}, ok: true},
		{s: item.NewStack(item.Sign, 0, 1), want: world.Block{Type: SignPost}, ok: true},
		{s: item.NewStack(item.FlowerPot, 0, 1), want: world.Block{Type: FlowerPot}, ok: true},
		{s: item.NewStack(item.Coal, 0, 1)},
		{s: item.Stack{}},
	}
	for _, tt := range tests {
		got, ok := ItemBlock(tt.s)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ItemBlock(%v) = %v, %v, want %v, %v", tt.s, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseProperties(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{name: "valid", data: "- {id: 1, name: Stone, filter: 15, solid: true}", ok: true},
		{name: "duplicate", data: "- {id: 1, name: Stone}\n- {id: 1, name: Other}"},
		{name: "light out of range", data: "- {id: 1, name: Stone, light: 16}"},
		{name: "malformed", data: "id: ["},
	}
	for _, tt := range tests {
		_, err := parseProperties([]byte(tt.data))
		if (err == nil) != tt.ok {
			t.Fatalf("%v: unexpected error %v", tt.name, err)
		}
	}
	if p := properties(BurningFurnace); p.LightLevel != 13 || !p.Solid {
		t.Fatalf("unexpected burning furnace properties %+v", p)
	}
}
