package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/entity"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/dm-vev/voxeltick/server/world/mcdb"
	"github.com/pelletier/go-toml"
)

// Config contains options for starting a Server.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set to slog.Default().
	Log *slog.Logger
	// Name is the name of the world simulated by the Server. If empty, "World" is used.
	Name string
	// TickInterval is the time between two ticks of the world. If 0, the world is ticked 20 times per
	// second.
	TickInterval time.Duration
	// Range is the height range of the world. If empty, blocks may be placed from y=0 to y=255.
	Range cube.Range
	// Seed seeds the random source of the world. If 0, a seed is derived from Name.
	Seed uint64
	// RandomTickSpeed is the amount of blocks randomly ticked per sub chunk every tick. If 0, 3 is used. A
	// negative value disables random ticking.
	RandomTickSpeed int
	// ItemDespawnAge is the age in ticks after which item entities despawn. If 0, the default of 6000 is
	// used. Values above entity.MaxItemAge are treated as entity.MaxItemAge.
	ItemDespawnAge int
	// Provider is the provider the world is loaded from and saved to. If nil, the world is not persisted.
	Provider world.Provider
	// Network receives notifications sent to observers and actors. If nil, notifications are dropped.
	Network world.Network
	// Bus is the event bus changes to the world are published on. If nil, a new Bus is created.
	Bus *event.Bus
	// QueryAddress is the UDP address a status query responder listens on while the Server runs. If empty,
	// no responder is started.
	QueryAddress string
}

// UserConfig is the user configuration for a server. It holds settings that affect the simulation of the
// world and may be serialised to TOML. It can be converted to a Config by calling UserConfig.Config().
type UserConfig struct {
	World struct {
		// Name is the name of the world.
		Name string
		// SaveData controls whether the world's data will be saved and loaded. If true, the server will use
		// the LevelDB data provider and if false, an empty provider will be used.
		SaveData bool
		// Folder is the folder that the data of the world resides in.
		Folder string
		// Seed seeds the random source of the world. If 0, the seed is derived from the world name.
		Seed uint64
		// MinY and MaxY are the lowest and highest Y coordinate at which blocks may be placed.
		MinY, MaxY int
	}
	Ticks struct {
		// TicksPerSecond is the amount of times the world is ticked every second.
		TicksPerSecond int
		// RandomTickSpeed is the amount of blocks randomly ticked per sub chunk every tick. Setting it to -1
		// disables random ticking.
		RandomTickSpeed int
		// ItemDespawnAge is the age in ticks after which dropped items despawn. It may not exceed 32767.
		ItemDespawnAge int
	}
	Query struct {
		// Enabled controls whether a status query responder is started.
		Enabled bool
		// Address is the UDP address the query responder listens on.
		Address string
	}
}

// Config converts a UserConfig to a Config, so that it may be used for creating a Server. An error is
// returned if the configuration is invalid or if opening the world provider failed.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	if uc.World.MinY > uc.World.MaxY {
		return Config{}, fmt.Errorf("invalid world height: min y %v above max y %v", uc.World.MinY, uc.World.MaxY)
	}
	if uc.Ticks.TicksPerSecond <= 0 || uc.Ticks.TicksPerSecond > 1000 {
		return Config{}, fmt.Errorf("invalid tick rate %v: must be between 1 and 1000", uc.Ticks.TicksPerSecond)
	}
	if uc.Ticks.ItemDespawnAge < 0 || uc.Ticks.ItemDespawnAge > entity.MaxItemAge {
		return Config{}, fmt.Errorf("invalid item despawn age %v: must be between 0 and %v", uc.Ticks.ItemDespawnAge, entity.MaxItemAge)
	}
	conf := Config{
		Log:             log,
		Name:            uc.World.Name,
		TickInterval:    time.Second / time.Duration(uc.Ticks.TicksPerSecond),
		Range:           cube.Range{uc.World.MinY, uc.World.MaxY},
		Seed:            uc.World.Seed,
		RandomTickSpeed: uc.Ticks.RandomTickSpeed,
		ItemDespawnAge:  uc.Ticks.ItemDespawnAge,
	}
	if uc.Query.Enabled {
		conf.QueryAddress = uc.Query.Address
	}
	if uc.World.SaveData {
		db, err := mcdb.Config{Log: log}.Open(uc.World.Folder)
		if err != nil {
			return conf, fmt.Errorf("create world provider: %w", err)
		}
		conf.Provider = db
	}
	return conf, nil
}

// DefaultConfig returns a configuration with the default values filled out.
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.World.Name = "World"
	c.World.SaveData = true
	c.World.Folder = "world"
	c.World.MinY, c.World.MaxY = 0, 255
	c.Ticks.TicksPerSecond = 20
	c.Ticks.RandomTickSpeed = 3
	c.Ticks.ItemDespawnAge = 6000
	c.Query.Address = ":19132"
	return c
}

// ReadConfig reads a UserConfig from the TOML file at path. Fields missing from the file keep their default
// value. If the file does not exist, it is created holding the default configuration.
func ReadConfig(path string) (UserConfig, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		encoded, err := toml.Marshal(c)
		if err != nil {
			return c, fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile(path, encoded, 0644); err != nil {
			return c, fmt.Errorf("create default config: %w", err)
		}
		return c, nil
	} else if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}
