package snapdb

import (
	"fmt"
	"strings"
)

type DumpFlags uint64

const (
	DumpCollectionHeaders = DumpFlags(1 << iota)
	DumpDocs
	DumpStats
	DumpUniques
	DumpIndexes
	DumpIndexEntries

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the tree's collections in a readable multi-line form, for
// debugging and tests. Root keys without the collection shape are skipped.
func (db *DB) Dump(f DumpFlags) string {
	var buf strings.Builder
	root := db.root.Object()
	for _, name := range root.Keys() {
		sub := root.Get(name)
		if !isCollectionShaped(sub) {
			continue
		}
		db.dumpCollection(&buf, f, name, sub)
	}
	return buf.String()
}

func isCollectionShaped(sub Value) bool {
	if sub.Kind() != KindObject {
		return false
	}
	return sub.Object().Get("__meta").Kind() == KindObject && sub.Object().Get("data").Kind() == KindObject
}

func (db *DB) dumpCollection(w *strings.Builder, f DumpFlags, name string, sub Value) {
	s := subtreeStats(sub)

	if f.Contains(DumpCollectionHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s (%d docs)\n", name, s.Docs)
	}
	if f.Contains(DumpStats) {
		fmt.Fprintf(w, "%s.stats: deleted = %d, unique_fields = %d, unique_values = %d, index_fields = %d, index_entries = %d\n", name, s.Deleted, s.UniqueFields, s.UniqueValues, s.IndexFields, s.IndexEntries)
	}

	if f.Contains(DumpDocs) {
		if f.Contains(DumpStats) {
			fmt.Fprintln(w, dumpSep2)
		}
		data := sub.Object().Get("data").Object()
		var pos int
		for _, id := range data.Keys() {
			pos++
			fmt.Fprintf(w, "%s.%d = %s %s\n", name, pos, id, loggableValue(data.Get(id)))
		}
	}

	meta := sub.Object().Get("__meta").Object()
	if f.Contains(DumpUniques) {
		if unique := meta.Get("unique"); unique.Kind() == KindObject {
			for _, field := range unique.Object().Keys() {
				dumpUniqueField(w, f, name, field, unique.Object().Get(field))
			}
		}
	}
	if f.Contains(DumpIndexes) {
		if indexes := meta.Get("indexes"); indexes.Kind() == KindObject {
			for _, field := range indexes.Object().Keys() {
				dumpIndexField(w, f, name, field, indexes.Object().Get(field))
			}
		}
	}
}

func dumpUniqueField(w *strings.Builder, f DumpFlags, name, field string, fm Value) {
	fmt.Fprintln(w, dumpSep2)
	prefix := name + ".u." + field
	fmt.Fprintf(w, "%s (%d values)\n", prefix, fm.Len())

	if f.Contains(DumpIndexEntries) && fm.Kind() == KindObject {
		var pos int
		for _, key := range fm.Object().Keys() {
			pos++
			fmt.Fprintf(w, "%s.%d: %s\n", prefix, pos, key)
		}
	}
}

func dumpIndexField(w *strings.Builder, f DumpFlags, name, field string, fm Value) {
	fmt.Fprintln(w, dumpSep2)
	prefix := name + ".i." + field
	fmt.Fprintf(w, "%s (%d values)\n", prefix, fm.Len())

	if f.Contains(DumpIndexEntries) && fm.Kind() == KindObject {
		var pos int
		for _, key := range fm.Object().Keys() {
			pos++
			ids := fm.Object().Get(key)
			strs := make([]string, 0, ids.Len())
			for i := 0; i < ids.Len(); i++ {
				strs = append(strs, ids.At(i).Str())
			}
			fmt.Fprintf(w, "%s.%d: %s => %s\n", prefix, pos, key, strings.Join(strs, " "))
		}
	}
}
