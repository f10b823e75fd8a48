package world

import (
	"log/slog"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
)

// LightFunc returns the combined sky and block light level at a position, between 0 and 15.
type LightFunc func(w *World, pos cube.Pos) int

// Config may be used to create a new World. It holds configuration that cannot be changed after the World
// was created.
type Config struct {
	// Log is the Logger that will be used to log errors and debug messages to. If set to nil, slog.Default()
	// is used.
	Log *slog.Logger
	// Name is the display name of the World. If empty, "World" is used.
	Name string
	// Range is the height range of the World. If left empty, blocks may be placed from y=0 to y=255.
	Range cube.Range
	// Seed seeds the random source of the World if Rand is nil. If zero, a seed is derived from Name.
	Seed uint64
	// Rand is the random source used for random block ticks and by block behaviours. It is advanced only by
	// the World's tick, so a seeded source makes ticking reproducible.
	Rand *rand.Rand
	// RandomTickSpeed specifies the rate at which blocks should be ticked in the World. By default, each sub
	// chunk has 3 blocks randomly ticked per sub chunk, so the default value is 3. Setting this value to -1
	// or lower will stop random ticking altogether.
	RandomTickSpeed int
	// Blocks resolves the behaviour of blocks. If nil, no block reacts to anything.
	Blocks BehaviourRegistry
	// Entities advances entities every tick. If nil, entities are not advanced.
	Entities EntityTicker
	// EntityTypes holds the decoders of all entity types that may be loaded from the Provider, indexed by
	// the identifier returned by Entity.EncodeEntity.
	EntityTypes map[string]EntityDecoder
	// Network is the observer layer notifications are sent to. If nil, notifications are dropped.
	Network Network
	// Provider is the Provider used to load and save the World. If nil, NopProvider is used.
	Provider Provider
	// Light computes light levels. If nil, a light level derived from the blocks above a position is used.
	Light LightFunc
	// Bus is the event bus all changes to the World are published on. If nil, a new Bus is created.
	Bus *event.Bus
	// Metrics, if not nil, records the work done by the tick scheduler.
	Metrics *Metrics
}

// New creates a new World using the Config conf. The World is loaded from conf.Provider.
func (conf Config) New() *World {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Name == "" {
		conf.Name = "World"
	}
	if conf.Range == (cube.Range{}) {
		conf.Range = cube.Range{0, 255}
	}
	if conf.RandomTickSpeed == 0 {
		conf.RandomTickSpeed = 3
	} else if conf.RandomTickSpeed < 0 {
		conf.RandomTickSpeed = 0
	}
	if conf.Rand == nil {
		seed := conf.Seed
		if seed == 0 {
			seed = xxhash.Sum64String(conf.Name)
		}
		conf.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if conf.Blocks == nil {
		conf.Blocks = nopRegistry{}
	}
	if conf.Entities == nil {
		conf.Entities = nopEntityTicker{}
	}
	if conf.Network == nil {
		conf.Network = NopNetwork{}
	}
	if conf.Provider == nil {
		conf.Provider = NopProvider{}
	}
	if conf.Bus == nil {
		conf.Bus = event.NewBus()
	}
	conf.Log = conf.Log.With("world", conf.Name)

	w := &World{
		conf:        conf,
		ra:          conf.Range,
		r:           conf.Rand,
		columns:     make(map[ChunkPos]*column),
		tiles:       make(map[cube.Pos]Tile),
		entityState: make(map[Entity]*entityState),
		scheduled:   newScheduledQueue(0),
	}
	w.load()
	return w
}
