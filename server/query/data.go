package query

import (
	"runtime/debug"
	"strconv"
	"sync/atomic"
)

// ProviderFunc produces Data for the query responder. The host and port values
// represent the address that the responder is bound to. The bool returned is
// false if no up-to-date Data could be produced, in which case the latest
// snapshot is served instead.
type ProviderFunc func(host string, port int) (Data, bool)

// Data summarises the state of a running world returned by the responder.
type Data struct {
	// HostName is the public server name.
	HostName string
	// WorldName holds the name of the world simulated by the server.
	WorldName string
	// Engine identifies the software that powers the server. When empty the
	// package falls back to the compiled engineLabel.
	Engine string
	// Version is the version advertised to clients.
	Version string
	// Tick is the current tick of the world.
	Tick int64
	// TPS is the measured amount of ticks per second.
	TPS float64
	// Entities is the amount of active entities in the world.
	Entities int
	// Failures is the amount of block, tile and entity callbacks that failed
	// since the world was loaded.
	Failures uint64
	// HostIP is the textual representation of the listening IP address.
	HostIP string
	// HostPort is the listening port number.
	HostPort int
	// GameType describes the type of game. Defaults to "SMP" when empty.
	GameType string
	// GameID is the identifier of the game. Defaults to "VOXELTICK" when empty.
	GameID string
}

type keyValue struct {
	key   string
	value string
}

// engineLabel constructs the engine identifier that is shown by query clients.
var engineLabel = buildEngineLabel()

// buildEngineLabel inspects build metadata to determine the engine label that
// is reported through the query interface.
func buildEngineLabel() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "voxeltick"
	}
	version := info.Main.Version
	if version == "" {
		version = "dev"
	}
	return "voxeltick (" + version + ")"
}

// snapshots caches the latest Data produced by a provider.
type snapshots struct {
	last atomic.Pointer[Data]
}

// collect retrieves the latest state, normalises it and updates the cached
// snapshot. When the provider cannot produce Data, the latest cached snapshot
// is used instead. If no snapshot exists yet, defaults are emitted.
func (s *snapshots) collect(provider ProviderFunc, host string, port int) Data {
	host = canonicalHost(host)
	if provider != nil {
		if data, ok := provider(host, port); ok {
			data.HostIP, data.HostPort = host, port
			data.applyDefaults()
			s.last.Store(&data)
			return data
		}
	}
	if snap := s.last.Load(); snap != nil {
		data := *snap
		data.HostIP, data.HostPort = host, port
		return data
	}
	data := Data{HostName: "voxeltick", HostIP: host, HostPort: port}
	data.applyDefaults()
	return data
}

// canonicalHost returns the textual representation of the listening host or a
// safe default when it cannot be determined.
func canonicalHost(host string) string {
	if host == "" {
		return "0.0.0.0"
	}
	return host
}

// applyDefaults ensures that required fields are initialised before the data is
// serialised into key/value pairs.
func (d *Data) applyDefaults() {
	if d.HostIP == "" {
		d.HostIP = "0.0.0.0"
	}
	if d.Engine == "" {
		d.Engine = engineLabel
	}
	if d.Version == "" {
		d.Version = engineLabel
	}
	if d.GameType == "" {
		d.GameType = "SMP"
	}
	if d.GameID == "" {
		d.GameID = "VOXELTICK"
	}
	d.HostPort = int(uint16(d.HostPort))
}

// keyValues converts Data into the ordered key/value pairs required by the
// query protocol.
func (d Data) keyValues() []keyValue {
	values := []keyValue{
		{"hostname", d.HostName},
		{"gametype", d.GameType},
		{"game_id", d.GameID},
		{"version", d.Version},
		{"server_engine", d.Engine},
	}
	if d.WorldName != "" {
		values = append(values, keyValue{"map", d.WorldName})
	}
	return append(values,
		keyValue{"numplayers", "0"},
		keyValue{"maxplayers", "0"},
		keyValue{"hostport", strconv.Itoa(d.HostPort)},
		keyValue{"hostip", d.HostIP},
		keyValue{"tick", strconv.FormatInt(d.Tick, 10)},
		keyValue{"tps", strconv.FormatFloat(d.TPS, 'f', 2, 64)},
		keyValue{"entities", strconv.Itoa(d.Entities)},
		keyValue{"failures", strconv.FormatUint(d.Failures, 10)},
	)
}
