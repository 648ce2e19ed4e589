package snapdb

import (
	"encoding/json"
)

type CollectionStats struct {
	Docs    int
	Deleted int

	UniqueFields int
	UniqueValues int
	IndexFields  int
	IndexEntries int
}

func (cs *CollectionStats) TotalKeys() int {
	return cs.UniqueValues + cs.IndexEntries
}

// Stats walks the collection's subtree and tallies its documents and
// bookkeeping entries. Deleted counts tombstoned document slots.
func (c *Collection) Stats() CollectionStats {
	return subtreeStats(c.subtree())
}

func subtreeStats(sub Value) CollectionStats {
	var result CollectionStats
	if sub.Kind() != KindObject {
		return result
	}

	if data := sub.Object().Get("data"); data.Kind() == KindObject {
		obj := data.Object()
		result.Docs = obj.live
		result.Deleted = len(obj.keys) - obj.live
	}

	meta := sub.Object().Get("__meta")
	if meta.Kind() != KindObject {
		return result
	}
	if unique := meta.Object().Get("unique"); unique.Kind() == KindObject {
		for _, field := range unique.Object().Keys() {
			result.UniqueFields++
			if fm := unique.Object().Get(field); fm.Kind() == KindObject {
				result.UniqueValues += fm.Object().Len()
			}
		}
	}
	if indexes := meta.Object().Get("indexes"); indexes.Kind() == KindObject {
		for _, field := range indexes.Object().Keys() {
			result.IndexFields++
			fm := indexes.Object().Get(field)
			if fm.Kind() != KindObject {
				continue
			}
			for _, key := range fm.Object().Keys() {
				result.IndexEntries += fm.Object().Get(key).Len()
			}
		}
	}
	return result
}

func loggableValue(v Value) string {
	if v.IsAbsent() {
		return "<none>"
	}
	return string(must(json.Marshal(v)))
}
