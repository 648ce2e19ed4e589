package snapdb

import (
	"fmt"
	"slices"
	"strings"
)

// CollectionConfig declares the unique and secondary-indexed fields of a
// collection. The declared sets are fixed for the lifetime of the
// Collection object.
type CollectionConfig struct {
	Unique  []string
	Indexes []string
}

// Collection binds a named subtree of a DB to document CRUD with
// uniqueness and secondary-index maintenance. The subtree has the shape
//
//	{__meta: {unique: {field: {value: true}},
//	          indexes: {field: {value: [id, ...]}}},
//	 data: {id: document}}
//
// and is created on first construction with that name. An existing subtree
// is left untouched, so a config passed on a later open does not
// retroactively index existing data.
type Collection struct {
	db       *DB
	name     string
	unique   []string
	indexes  []string
	handlers [eventCount][]EventHandler
}

func (db *DB) Collection(name string, cfg CollectionConfig) *Collection {
	if name == "" || strings.ContainsRune(name, '.') {
		panic(fmt.Errorf("snapdb: invalid collection name %q", name))
	}
	c := &Collection{
		db:      db,
		name:    name,
		unique:  slices.Clone(cfg.Unique),
		indexes: slices.Clone(cfg.Indexes),
	}
	c.ensureSubtree()
	return c
}

func (c *Collection) Name() string {
	return c.name
}

// Unique returns the declared unique field names.
func (c *Collection) Unique() []string {
	return slices.Clone(c.unique)
}

// Indexes returns the declared indexed field names.
func (c *Collection) Indexes() []string {
	return slices.Clone(c.indexes)
}

func (c *Collection) ensureSubtree() {
	root := c.db.root.Object()
	if root.Has(c.name) {
		return
	}

	uniq := NewObject()
	for _, f := range c.unique {
		uniq.Object().Set(f, NewObject())
	}
	idx := NewObject()
	for _, f := range c.indexes {
		idx.Object().Set(f, NewObject())
	}
	meta := NewObject()
	meta.Object().Set("unique", uniq)
	meta.Object().Set("indexes", idx)

	sub := NewObject()
	sub.Object().Set("__meta", meta)
	sub.Object().Set("data", NewObject())
	root.Set(c.name, sub)

	if c.db.verbose {
		c.db.logf("db: COLL %s unique=%v indexes=%v", c.name, c.unique, c.indexes)
	}
}

// subtree returns the collection's raw root value, bypassing the empty
// object normalization of DB.Get.
func (c *Collection) subtree() Value {
	return c.db.root.Object().Get(c.name)
}

func (c *Collection) dataPath(id string) string {
	return c.name + ".data." + id
}

// resolveID picks the id for a new entry: a truthy _id field wins,
// otherwise a fresh id is generated and stored on the entry.
func (c *Collection) resolveID(entry Value) string {
	idv := entry.Get("_id")
	if idv.Truthy() {
		key, _ := idv.indexKey()
		if strings.ContainsRune(key, '.') {
			panic(fmt.Errorf("snapdb: %s: document id %q must not contain dots", c.name, key))
		}
		return key
	}
	id := newID()
	entry.Object().Set("_id", ValueOf(id))
	return id
}

// docID extracts the stored id of a document, for documents that went
// through Create. Documents injected into the tree by other means may
// lack one.
func (c *Collection) docID(doc Value) (string, bool) {
	idv := doc.Get("_id")
	if !idv.Truthy() {
		return "", false
	}
	key, _ := idv.indexKey()
	return key, true
}
