// Package mcdb implements a world.Provider that stores worlds in a LevelDB database. Every record is encoded
// as little-endian NBT and compressed using zstd.
package mcdb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/dm-vev/voxeltick/server/world"
	"github.com/klauspost/compress/zstd"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

const (
	// keyColumn is the prefix of the keys of block columns. It is followed by the little-endian X and Z
	// coordinates of the column.
	keyColumn = "col"
	// keyTiles is the key of the list of all tiles.
	keyTiles = "tiles"
	// keyEntities is the key of the list of all entities.
	keyEntities = "entities"
	// keyScheduled is the key of the list of pending scheduled block updates.
	keyScheduled = "scheduled"
)

// Config holds the settings used to open a DB.
type Config struct {
	// Log is the Logger used to log errors. If nil, slog.Default() is used.
	Log *slog.Logger
	// CompressionLevel is the zstd level records are compressed with. If 0, zstd.SpeedDefault is used.
	CompressionLevel zstd.EncoderLevel
	// BlockSize is the block size of the LevelDB database. If 0, 16KiB is used.
	BlockSize int
	// ReadOnly opens the database without allowing writes. Saving a world to a read-only DB fails.
	ReadOnly bool
}

// DB implements a world.Provider backed by a LevelDB database.
type DB struct {
	conf Config
	ldb  *leveldb.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open creates a new provider reading and writing from/to files under the path passed using default options.
// If a world is present at the path, Open will read the data from it.
func Open(dir string) (*DB, error) {
	var conf Config
	return conf.Open(dir)
}

// Open creates a new DB reading and writing from/to files under the path passed. The directory is created
// if it does not exist yet.
func (conf Config) Open(dir string) (*DB, error) {
	if !conf.ReadOnly {
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return nil, fmt.Errorf("create world directory: %w", err)
		}
	}
	if conf.BlockSize == 0 {
		conf.BlockSize = 16 * opt.KiB
	}
	ldb, err := leveldb.OpenFile(filepath.Join(dir, "db"), &opt.Options{
		Compression: opt.NoCompression,
		BlockSize:   conf.BlockSize,
		ReadOnly:    conf.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db, err := conf.New(ldb)
	if err != nil {
		_ = ldb.Close()
		return nil, err
	}
	return db, nil
}

// New creates a DB using an already opened LevelDB database. Closing the DB closes ldb.
func (conf Config) New(ldb *leveldb.DB) (*DB, error) {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.CompressionLevel == 0 {
		conf.CompressionLevel = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(conf.CompressionLevel))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &DB{conf: conf, ldb: ldb, enc: enc, dec: dec}, nil
}

// LoadColumns ...
func (db *DB) LoadColumns() (map[world.ChunkPos]map[string]any, error) {
	iter := db.ldb.NewIterator(util.BytesPrefix([]byte(keyColumn)), nil)
	defer iter.Release()

	columns := make(map[world.ChunkPos]map[string]any)
	var errs []error
	for iter.Next() {
		pos, ok := decodeColumnKey(iter.Key())
		if !ok {
			continue
		}
		var m map[string]any
		if err := db.decode(iter.Value(), &m); err != nil {
			errs = append(errs, fmt.Errorf("decode column %v: %w", pos, err))
			continue
		}
		columns[pos] = m
	}
	if err := iter.Error(); err != nil {
		errs = append(errs, fmt.Errorf("iterate columns: %w", err))
	}
	return columns, errors.Join(errs...)
}

// SaveColumns ...
func (db *DB) SaveColumns(columns map[world.ChunkPos]map[string]any) error {
	batch := new(leveldb.Batch)

	iter := db.ldb.NewIterator(util.BytesPrefix([]byte(keyColumn)), nil)
	for iter.Next() {
		if pos, ok := decodeColumnKey(iter.Key()); !ok || columns[pos] == nil {
			batch.Delete(bytes.Clone(iter.Key()))
		}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate columns: %w", err)
	}

	for pos, m := range columns {
		data, err := db.encode(m)
		if err != nil {
			return fmt.Errorf("encode column %v: %w", pos, err)
		}
		batch.Put(columnKey(pos), data)
	}
	if err := db.ldb.Write(batch, nil); err != nil {
		return fmt.Errorf("write columns: %w", err)
	}
	return nil
}

// LoadTiles ...
func (db *DB) LoadTiles() ([]map[string]any, error) {
	return db.loadList(keyTiles)
}

// SaveTiles ...
func (db *DB) SaveTiles(tiles []map[string]any) error {
	return db.saveList(keyTiles, tiles)
}

// LoadEntities ...
func (db *DB) LoadEntities() ([]map[string]any, error) {
	return db.loadList(keyEntities)
}

// SaveEntities ...
func (db *DB) SaveEntities(entities []map[string]any) error {
	return db.saveList(keyEntities, entities)
}

// LoadScheduledUpdates ...
func (db *DB) LoadScheduledUpdates() ([]map[string]any, error) {
	return db.loadList(keyScheduled)
}

// SaveScheduledUpdates ...
func (db *DB) SaveScheduledUpdates(updates []map[string]any) error {
	return db.saveList(keyScheduled, updates)
}

// Close closes the LevelDB database.
func (db *DB) Close() error {
	db.dec.Close()
	return errors.Join(db.enc.Close(), db.ldb.Close())
}

// loadList reads a list of compounds stored at key. A missing key is an empty list.
func (db *DB) loadList(key string) ([]map[string]any, error) {
	data, err := db.ldb.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read %v: %w", key, err)
	}
	var m map[string]any
	if err := db.decode(data, &m); err != nil {
		return nil, fmt.Errorf("decode %v: %w", key, err)
	}
	list, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if entry, ok := v.(map[string]any); ok {
			out = append(out, entry)
			continue
		}
		db.conf.Log.Warn("Skipping malformed record.", "key", key, "type", fmt.Sprintf("%T", v))
	}
	return out, nil
}

// saveList stores a list of compounds at key, or deletes the key if the list is empty.
func (db *DB) saveList(key string, list []map[string]any) error {
	if len(list) == 0 {
		if err := db.ldb.Delete([]byte(key), nil); err != nil {
			return fmt.Errorf("delete %v: %w", key, err)
		}
		return nil
	}
	data, err := db.encode(map[string]any{key: list})
	if err != nil {
		return fmt.Errorf("encode %v: %w", key, err)
	}
	if err := db.ldb.Put([]byte(key), data, nil); err != nil {
		return fmt.Errorf("write %v: %w", key, err)
	}
	return nil
}

// encode encodes v as little-endian NBT and compresses the result.
func (db *DB) encode(v any) ([]byte, error) {
	data, err := nbt.MarshalEncoding(v, nbt.LittleEndian)
	if err != nil {
		return nil, err
	}
	return db.enc.EncodeAll(data, nil), nil
}

// decode decompresses data and decodes the little-endian NBT it holds into v.
func (db *DB) decode(data []byte, v any) error {
	raw, err := db.dec.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	return nbt.UnmarshalEncoding(raw, v, nbt.LittleEndian)
}

// columnKey returns the key under which the column at pos is stored.
func columnKey(pos world.ChunkPos) []byte {
	key := make([]byte, len(keyColumn)+8)
	copy(key, keyColumn)
	binary.LittleEndian.PutUint32(key[len(keyColumn):], uint32(pos[0]))
	binary.LittleEndian.PutUint32(key[len(keyColumn)+4:], uint32(pos[1]))
	return key
}

// decodeColumnKey decodes the position of a column from its key.
func decodeColumnKey(key []byte) (world.ChunkPos, bool) {
	if len(key) != len(keyColumn)+8 {
		return world.ChunkPos{}, false
	}
	key = key[len(keyColumn):]
	return world.ChunkPos{int32(binary.LittleEndian.Uint32(key)), int32(binary.LittleEndian.Uint32(key[4:]))}, true
}
