package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is a serializable copy of all normalized entities.
type Snapshot map[string]map[string]any

// Extract returns a deep copy of the stored entities.
func (c *InMemoryCache) Extract() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Snapshot, len(c.entities))
	for id, ent := range c.entities {
		out[id] = deepCopy(ent).(map[string]any)
	}
	return out
}

// Restore replaces the cache contents with snap.
func (c *InMemoryCache) Restore(snap Snapshot) {
	entities := make(map[string]map[string]any, len(snap))
	for id, ent := range snap {
		entities[id] = deepCopy(ent).(map[string]any)
	}

	c.mu.Lock()
	c.entities = entities
	c.mu.Unlock()
}

// SaveFile writes the snapshot as JSON to path.
func (c *InMemoryCache) SaveFile(path string) error {
	data, err := json.Marshal(c.Extract())
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadFile restores the cache from a JSON snapshot at path.
// A missing file leaves the cache empty.
func (c *InMemoryCache) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode cache %s: %w", path, err)
	}
	c.Restore(snap)
	return nil
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, fv := range val {
			out[k] = deepCopy(fv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
