package world

// Provider persists the contents of a World. Data is passed in compound form; the encoding on disk is up to
// the implementation.
type Provider interface {
	// LoadColumns returns the persisted block columns, indexed by their position.
	LoadColumns() (map[ChunkPos]map[string]any, error)
	// SaveColumns persists the columns passed, replacing any previously stored columns.
	SaveColumns(columns map[ChunkPos]map[string]any) error
	// LoadTiles returns all persisted tiles.
	LoadTiles() ([]map[string]any, error)
	// SaveTiles persists the tiles passed, replacing any previously stored tiles.
	SaveTiles(tiles []map[string]any) error
	// LoadEntities returns all persisted entities.
	LoadEntities() ([]map[string]any, error)
	// SaveEntities persists the entities passed, replacing any previously stored entities.
	SaveEntities(entities []map[string]any) error
	// LoadScheduledUpdates returns the persisted scheduled block updates in the order they were scheduled.
	LoadScheduledUpdates() ([]map[string]any, error)
	// SaveScheduledUpdates persists the scheduled block updates passed, replacing any previously stored
	// updates.
	SaveScheduledUpdates(updates []map[string]any) error
	// Close closes the Provider.
	Close() error
}

// NopProvider implements a Provider that does not persist anything.
type NopProvider struct{}

func (NopProvider) LoadColumns() (map[ChunkPos]map[string]any, error) { return nil, nil }
func (NopProvider) SaveColumns(map[ChunkPos]map[string]any) error     { return nil }
func (NopProvider) LoadTiles() ([]map[string]any, error)              { return nil, nil }
func (NopProvider) SaveTiles([]map[string]any) error                  { return nil }
func (NopProvider) LoadEntities() ([]map[string]any, error)           { return nil, nil }
func (NopProvider) SaveEntities([]map[string]any) error               { return nil }
func (NopProvider) LoadScheduledUpdates() ([]map[string]any, error)   { return nil, nil }
func (NopProvider) SaveScheduledUpdates([]map[string]any) error       { return nil }
func (NopProvider) Close() error                                      { return nil }
