package snapdb

import (
	"fmt"
)

// Create stores entry as a new document and returns its id, or "" when a
// declared unique field collides with an existing document, in which case
// nothing is mutated. The entry itself is stored, not a copy; a generated
// id is written to its _id field.
func (c *Collection) Create(entry Value) string {
	if entry.Kind() != KindObject {
		panic(fmt.Errorf("snapdb: %s: Create requires an object, got %v", c.name, entry.Kind()))
	}
	c.emit(EventPreCreate, []Value{entry})

	for _, f := range c.unique {
		key, ok := entry.Get(f).indexKey()
		if !ok {
			continue
		}
		if c.uniqueTaken(f, key) {
			if c.db.verbose {
				c.db.logf("db: CREATE.DUP %s %s=%q", c.name, f, key)
			}
			return ""
		}
	}

	for _, f := range c.unique {
		if key, ok := entry.Get(f).indexKey(); ok {
			c.registerUnique(f, key)
		}
	}

	id := c.resolveID(entry)
	c.db.Set(c.dataPath(id), entry)

	for _, f := range c.indexes {
		if key, ok := entry.Get(f).indexKey(); ok {
			c.registerIndex(f, key, id)
		}
	}

	if c.db.verbose {
		c.db.logf("db: CREATE %s/%s => %s", c.name, id, loggableValue(entry))
	}
	c.emit(EventCreate, []Value{entry})
	return id
}
