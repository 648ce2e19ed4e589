package snapdb

import (
	"slices"
)

// Find returns the documents matching filter. A single-field equality
// filter on _id or on a declared indexed field resolves through a direct
// lookup instead of scanning; every other filter, including nil (which
// matches everything), scans the collection in creation order.
func (c *Collection) Find(filter Filter) []Value {
	c.emit(EventPreRead, nil)
	docs := c.findMatches(filter)
	if c.db.verbose {
		c.db.logf("db: FIND %s => %d docs", c.name, len(docs))
	}
	c.emit(EventRead, docs)
	return docs
}

// Get returns the first document matching filter, or the absent marker.
func (c *Collection) Get(filter Filter) Value {
	docs := c.Find(filter)
	if len(docs) == 0 {
		return Value{}
	}
	return docs[0]
}

// findMatches resolves filter without emitting events. Index-backed paths
// trust their buckets: matching documents are returned as found, without
// re-applying the filter, so a numeric and a string value that stringify
// alike resolve to the same bucket.
func (c *Collection) findMatches(filter Filter) []Value {
	if field, value, ok := singleEq(filter); ok {
		if field == "_id" {
			key, ok := value.indexKey()
			if !ok {
				return []Value{}
			}
			doc := c.db.Get(c.dataPath(key))
			if doc.IsAbsent() {
				return []Value{}
			}
			return []Value{doc}
		}
		if slices.Contains(c.indexes, field) {
			return c.lookupIndex(field, value)
		}
	}

	result := []Value{}
	data := c.db.Get(c.name + ".data")
	if data.Kind() != KindObject {
		return result
	}
	obj := data.Object()
	for _, id := range obj.Keys() {
		doc := obj.Get(id)
		if filter == nil || filter.Match(doc) {
			result = append(result, doc)
		}
	}
	return result
}
