package snapdb

import (
	"strconv"
	"strings"
)

// Paths address locations in a value tree as dot-separated segments,
// e.g. "users.data.42.name". A segment made of decimal digits indexes
// into arrays; all segments index objects by key.

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// treeGet resolves path against root without mutating the tree. Traversal
// through a scalar or a missing key proceeds as if through an empty object,
// yielding the absent marker. An empty object result is itself normalized
// to the absent marker.
func treeGet(root Value, path string) Value {
	cur := root
	for _, seg := range splitPath(path) {
		switch cur.kind {
		case KindArray:
			if i, ok := parseIndex(seg); ok && i < len(cur.arr) {
				cur = cur.arr[i]
			} else {
				cur = Value{}
			}
		case KindObject:
			cur = cur.obj.Get(seg)
		default:
			cur = Value{}
		}
	}
	if cur.kind == KindObject && len(cur.obj.keys) == 0 {
		return Value{}
	}
	return cur
}

// treeSet assigns v at path, descending only through containers that
// already exist. Missing intermediates are never materialized; when the
// parent of the final segment is not an object, the call reports false
// and the tree is left unchanged. Assigning the absent marker tombstones
// the final key.
func treeSet(root Value, path string, v Value) bool {
	segs := splitPath(path)
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		switch cur.kind {
		case KindArray:
			i, ok := parseIndex(seg)
			if !ok || i >= len(cur.arr) {
				return false
			}
			cur = cur.arr[i]
		case KindObject:
			cur = cur.obj.Get(seg)
		default:
			return false
		}
	}
	if cur.kind != KindObject {
		return false
	}
	cur.obj.Set(segs[len(segs)-1], v)
	return true
}
