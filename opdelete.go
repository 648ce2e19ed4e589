package snapdb

// Delete removes every document matching filter: unique and index entries
// are deregistered, and each document slot is set to the absent marker
// rather than structurally removed, following the tree store's deletion
// convention.
func (c *Collection) Delete(filter Filter) {
	c.emit(EventPreDelete, nil)

	matches := c.findMatches(filter)
	for _, doc := range matches {
		id, ok := c.docID(doc)
		if !ok {
			continue
		}
		for _, f := range c.unique {
			if key, ok := doc.Get(f).indexKey(); ok {
				c.deregisterUnique(f, key)
			}
		}
		for _, f := range c.indexes {
			if key, ok := doc.Get(f).indexKey(); ok {
				c.deregisterIndex(f, key, id)
			}
		}
		c.db.Set(c.dataPath(id), Value{})
	}

	if c.db.verbose {
		if len(matches) == 0 {
			c.db.logf("db: DELETE.NOOP %s", c.name)
		} else {
			c.db.logf("db: DELETE %s => %d docs", c.name, len(matches))
		}
	}
	c.emit(EventDelete, matches)
}
