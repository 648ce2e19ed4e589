package snapdb

import (
	"fmt"
)

// Update applies transform to a copy of every document matching filter and
// stores the results, keeping each document's _id. If any transformed
// document's unique field value collides with another record's existing
// registration, the whole batch is abandoned with zero net mutation and
// Update returns false. An empty match set is a successful update of zero
// documents.
func (c *Collection) Update(filter Filter, transform func(doc Value) Value) bool {
	c.emit(EventPreUpdate, nil)

	var ids []string
	var matched, replacements []Value
	for _, orig := range c.findMatches(filter) {
		id, ok := c.docID(orig)
		if !ok {
			continue
		}
		repl := transform(orig.Clone())
		if repl.Kind() != KindObject {
			panic(fmt.Errorf("snapdb: %s: update transform must return an object, got %v", c.name, repl.Kind()))
		}
		repl.Object().Set("_id", orig.Get("_id"))
		ids = append(ids, id)
		matched = append(matched, orig)
		replacements = append(replacements, repl)
	}

	// The matched documents' own registrations come out before the check:
	// an unchanged unique value must not collide with itself.
	for _, orig := range matched {
		for _, f := range c.unique {
			if key, ok := orig.Get(f).indexKey(); ok {
				c.deregisterUnique(f, key)
			}
		}
	}

	for _, repl := range replacements {
		for _, f := range c.unique {
			key, ok := repl.Get(f).indexKey()
			if !ok {
				continue
			}
			if c.uniqueTaken(f, key) {
				for _, orig := range matched {
					for _, f := range c.unique {
						if key, ok := orig.Get(f).indexKey(); ok {
							c.registerUnique(f, key)
						}
					}
				}
				if c.db.verbose {
					c.db.logf("db: UPDATE.DUP %s %s=%q", c.name, f, key)
				}
				return false
			}
		}
	}

	for i, repl := range replacements {
		id, orig := ids[i], matched[i]
		for _, f := range c.unique {
			if key, ok := repl.Get(f).indexKey(); ok {
				c.registerUnique(f, key)
			}
		}
		for _, f := range c.indexes {
			if key, ok := orig.Get(f).indexKey(); ok {
				c.deregisterIndex(f, key, id)
			}
			if key, ok := repl.Get(f).indexKey(); ok {
				c.registerIndex(f, key, id)
			}
		}
		c.db.Set(c.dataPath(id), repl)
	}

	if c.db.verbose {
		c.db.logf("db: UPDATE %s => %d docs", c.name, len(replacements))
	}
	c.emit(EventUpdate, replacements)
	return true
}
