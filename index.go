package snapdb

import (
	"fmt"
	"slices"
)

// Index bookkeeping. The unique section maps field -> stringified value ->
// true; the indexes section maps field -> stringified value -> ordered id
// array. Both live under the collection's __meta subtree and are owned
// entirely by the Collection; the tree store itself knows nothing about
// them.

// metaSection returns the live __meta.unique or __meta.indexes object.
func (c *Collection) metaSection(section string) *Object {
	meta := c.subtree().Get("__meta")
	if meta.Kind() != KindObject {
		panic(fmt.Errorf("snapdb: %s: __meta is not an object", c.name))
	}
	v := meta.Get(section)
	if v.Kind() != KindObject {
		panic(fmt.Errorf("snapdb: %s: __meta.%s is not an object", c.name, section))
	}
	return v.Object()
}

// fieldMap returns the per-field value map inside a section, creating it
// on demand when create is set. Field maps are seeded at subtree creation
// but may be missing for fields declared only by a later config.
func (c *Collection) fieldMap(section, field string, create bool) *Object {
	sec := c.metaSection(section)
	v := sec.Get(field)
	if v.Kind() != KindObject {
		if !create {
			return nil
		}
		v = NewObject()
		sec.Set(field, v)
	}
	return v.Object()
}

func (c *Collection) uniqueTaken(field, key string) bool {
	fm := c.fieldMap("unique", field, false)
	return fm != nil && fm.Get(key).Truthy()
}

func (c *Collection) registerUnique(field, key string) {
	c.fieldMap("unique", field, true).Set(key, ValueOf(true))
}

func (c *Collection) deregisterUnique(field, key string) {
	if fm := c.fieldMap("unique", field, false); fm != nil {
		fm.Delete(key)
	}
}

// registerIndex appends id to the field's value bucket unless it is
// already there, preserving append order.
func (c *Collection) registerIndex(field, key, id string) {
	fm := c.fieldMap("indexes", field, true)
	bucket := fm.Get(key)
	if bucket.Kind() != KindArray {
		fm.Set(key, Arr(id))
		return
	}
	for _, e := range bucket.Array() {
		if e.Str() == id {
			return
		}
	}
	fm.Set(key, NewArray(append(bucket.Array(), ValueOf(id))...))
}

// deregisterIndex removes id from the field's value bucket by value, so
// the order of unrelated entries is never perturbed. An emptied bucket
// stays in place.
func (c *Collection) deregisterIndex(field, key, id string) {
	fm := c.fieldMap("indexes", field, false)
	if fm == nil {
		return
	}
	bucket := fm.Get(key)
	if bucket.Kind() != KindArray {
		return
	}
	arr := bucket.Array()
	for i, e := range arr {
		if e.Str() == id {
			fm.Set(key, NewArray(slices.Delete(slices.Clone(arr), i, i+1)...))
			return
		}
	}
}

// lookupIndex maps value through the field's bucket to live documents,
// skipping ids whose slot has since been deleted.
func (c *Collection) lookupIndex(field string, value Value) []Value {
	result := []Value{}
	key, ok := value.indexKey()
	if !ok {
		return result
	}
	fm := c.fieldMap("indexes", field, false)
	if fm == nil {
		return result
	}
	bucket := fm.Get(key)
	for _, idv := range bucket.Array() {
		doc := c.db.Get(c.dataPath(idv.Str()))
		if doc.IsAbsent() {
			continue
		}
		result = append(result, doc)
	}
	return result
}
