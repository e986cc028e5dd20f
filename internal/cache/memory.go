package cache

import (
	"encoding/json"
	"io"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"splitspecs/internal/common"
)

// Root entity IDs.
const (
	RootQuery    = "ROOT_QUERY"
	RootMutation = "ROOT_MUTATION"
)

// refKey marks a stored reference to another entity: {"__ref": "Type:id"}.
const refKey = "__ref"

// Config configures an InMemoryCache.
type Config struct {
	TypePolicies TypePolicies
	Logger       logrus.FieldLogger
}

// InMemoryCache is a normalized store of (entity ID, field) -> value.
//
// Thread-safe: Uses RWMutex for concurrent access. Field read policies run
// outside the lock.
type InMemoryCache struct {
	mu       sync.RWMutex
	entities map[string]map[string]any
	policies TypePolicies
	logger   logrus.FieldLogger
}

// New creates an empty cache.
func New(cfg Config) *InMemoryCache {
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &InMemoryCache{
		entities: make(map[string]map[string]any, 64),
		policies: cfg.TypePolicies,
		logger:   logger,
	}
}

// Ref builds a reference value pointing at id.
func Ref(id string) map[string]any {
	return map[string]any{refKey: id}
}

// IsRef reports whether v is a reference and returns its target.
func IsRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	id, ok := m[refKey].(string)
	return id, ok
}

// Identify returns the entity ID of obj, or false when obj is not an entity.
// Query and Mutation map to the root IDs. Other types use their KeyFields
// policy, then id, then _id.
func (c *InMemoryCache) Identify(obj map[string]any) (string, bool) {
	typeName, _ := obj["__typename"].(string)
	switch typeName {
	case "":
		return "", false
	case "Query":
		return RootQuery, true
	case "Mutation":
		return RootMutation, true
	}

	if tp, ok := c.policies[typeName]; ok && len(tp.KeyFields) > 0 {
		keys := make(map[string]any, len(tp.KeyFields))
		for _, k := range tp.KeyFields {
			v, ok := obj[k]
			if !ok {
				return "", false
			}
			keys[k] = v
		}
		// encoding/json sorts map keys, so the ID is stable.
		data, err := json.Marshal(keys)
		if err != nil {
			return "", false
		}
		return typeName + ":" + string(data), true
	}

	for _, k := range []string{"id", "_id"} {
		if v, ok := obj[k]; ok && v != nil {
			return typeName + ":" + idString(v), true
		}
	}
	return "", false
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// Write merges data into the entity rootID, normalizing nested entities.
// No-op if caching is disabled (SPLITSPECS_CACHE=0).
func (c *InMemoryCache) Write(rootID string, data map[string]any) {
	if Disabled || data == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeEntity(rootID, data)
	c.logger.WithField("entity", rootID).Debug("cache: wrote result")
}

// WriteEntity normalizes obj under its own identity and returns the ID.
func (c *InMemoryCache) WriteEntity(obj map[string]any) (string, error) {
	id, ok := c.Identify(obj)
	if !ok {
		return "", common.ErrNotEntity
	}
	c.Write(id, obj)
	return id, nil
}

func (c *InMemoryCache) writeEntity(id string, obj map[string]any) {
	ent, ok := c.entities[id]
	if !ok {
		ent = make(map[string]any, len(obj))
		c.entities[id] = ent
	}
	for k, v := range obj {
		ent[k] = c.normalize(v)
	}
}

func (c *InMemoryCache) normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if id, ok := c.Identify(val); ok {
			c.writeEntity(id, val)
			return Ref(id)
		}
		out := make(map[string]any, len(val))
		for k, fv := range val {
			out[k] = c.normalize(fv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = c.normalize(item)
		}
		return out
	default:
		return v
	}
}

// typeNameLocked returns the __typename of a stored entity. Caller holds mu.
func (c *InMemoryCache) typeNameLocked(id string) string {
	switch id {
	case RootQuery:
		return "Query"
	case RootMutation:
		return "Mutation"
	}
	if ent, ok := c.entities[id]; ok {
		if tn, ok := ent["__typename"].(string); ok {
			return tn
		}
	}
	return ""
}

// ReadField returns the value of field on entity id.
// A read policy for the field always wins over stored data; otherwise the
// stored (normalized) value is returned.
func (c *InMemoryCache) ReadField(id, field string) (any, bool) {
	c.mu.RLock()
	existing, stored := c.entities[id][field]
	typeName := c.typeNameLocked(id)
	c.mu.RUnlock()

	if read := c.policies.readFunc(typeName, field); read != nil {
		return read(existing, FieldContext{EntityID: id, TypeName: typeName, FieldName: field}), true
	}
	return existing, stored
}

// Read returns entity id with references resolved and field policies applied.
// Root entities with read policies exist even before anything is written.
func (c *InMemoryCache) Read(id string) (map[string]any, bool) {
	return c.read(id, map[string]bool{})
}

func (c *InMemoryCache) read(id string, visiting map[string]bool) (map[string]any, bool) {
	c.mu.RLock()
	ent, ok := c.entities[id]
	fields := make(map[string]any, len(ent))
	for k, v := range ent {
		fields[k] = v
	}
	typeName := c.typeNameLocked(id)
	c.mu.RUnlock()

	tp, hasPolicy := c.policies[typeName]
	if !ok && (!hasPolicy || len(tp.Fields) == 0) {
		return nil, false
	}

	visiting[id] = true
	defer delete(visiting, id)

	out := make(map[string]any, len(fields)+len(tp.Fields))
	for k, v := range fields {
		out[k] = c.resolve(v, visiting)
	}
	for name, fp := range tp.Fields {
		if fp.Read == nil {
			continue
		}
		out[name] = fp.Read(fields[name], FieldContext{EntityID: id, TypeName: typeName, FieldName: name})
	}
	return out, true
}

// resolve replaces references by their entities. A reference back to an
// entity currently being read is left as a reference.
func (c *InMemoryCache) resolve(v any, visiting map[string]bool) any {
	if ref, ok := IsRef(v); ok {
		if visiting[ref] {
			return v
		}
		if obj, ok := c.read(ref, visiting); ok {
			return obj
		}
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, fv := range val {
			out[k] = c.resolve(fv, visiting)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = c.resolve(item, visiting)
		}
		return out
	default:
		return v
	}
}

// Evict removes entity id. Returns false if it was not stored.
func (c *InMemoryCache) Evict(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entities[id]; !ok {
		return false
	}
	delete(c.entities, id)
	c.logger.WithField("entity", id).Debug("cache: evicted")
	return true
}

// EvictField removes a single field of entity id.
func (c *InMemoryCache) EvictField(id, field string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entities[id]
	if !ok {
		return false
	}
	if _, ok := ent[field]; !ok {
		return false
	}
	delete(ent, field)
	return true
}

// Invalidate clears all entries from the cache.
func (c *InMemoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entities) > 0 {
		c.entities = make(map[string]map[string]any, 64)
	}
}

// Len returns the number of stored entities.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities)
}

var _ Invalidator = (*InMemoryCache)(nil)
