package snapdb

import (
	"fmt"
	"slices"
)

// GetByID returns the document stored under id, or the absent marker if it
// was never created or has been deleted.
func (c *Collection) GetByID(id string) Value {
	return c.db.Get(c.dataPath(id))
}

// GetByIndex returns the documents whose indexName field equals value, in
// bucket order. indexName must be one of the declared indexed fields;
// asking for an undeclared one is a programmer error and panics.
func (c *Collection) GetByIndex(value any, indexName string) []Value {
	if !slices.Contains(c.indexes, indexName) {
		panic(fmt.Errorf("snapdb: %s: index %q is not declared", c.name, indexName))
	}
	return c.lookupIndex(indexName, ValueOf(value))
}

// Exists reports whether a live document is stored under id.
func (c *Collection) Exists(id string) bool {
	found := !treeGet(c.db.root, c.dataPath(id)).IsAbsent()
	c.db.ReadCount.Add(1)
	if c.db.verbose {
		c.db.logf("db: EXISTS.%s %s/%s", map[bool]string{false: "NO", true: "YES"}[found], c.name, id)
	}
	return found
}
