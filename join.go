package snapdb

// JoinSide describes one input of an equi-join: already-fetched documents,
// the field supplying the join key, and whether rows without a truthy key
// are kept (outer) or dropped.
type JoinSide struct {
	Docs  []Value
	Key   string
	Outer bool
}

// Combiner merges one pair of rows sharing a join key. Either argument may
// be the absent marker when the key is populated on one side only.
type Combiner func(left, right Value) Value

// Join combines two document sequences by equality of their per-side key
// fields, producing one row per join-key value present on either side. A
// row without a truthy key value is dropped unless its side is marked
// Outer, in which case it joins under a freshly generated placeholder key
// and therefore appears alone. When combine is nil, rows merge shallowly
// with the left side winning on field name clashes. Duplicate key values
// within one side collapse to the last row.
func Join(left, right JoinSide, combine Combiner) []Value {
	leftRows, leftOrder := bucketJoinSide(left)
	rightRows, rightOrder := bucketJoinSide(right)

	result := []Value{}
	emit := func(key string) {
		l, r := leftRows[key], rightRows[key]
		if combine != nil {
			result = append(result, combine(l, r))
		} else {
			result = append(result, mergeShallow(l, r))
		}
	}
	for _, key := range leftOrder {
		emit(key)
	}
	for _, key := range rightOrder {
		if _, both := leftRows[key]; !both {
			emit(key)
		}
	}
	return result
}

func bucketJoinSide(side JoinSide) (map[string]Value, []string) {
	rows := make(map[string]Value, len(side.Docs))
	order := make([]string, 0, len(side.Docs))
	for _, doc := range side.Docs {
		v := doc.Get(side.Key)
		var key string
		if v.Truthy() {
			key, _ = v.indexKey()
		} else if side.Outer {
			key = newID()
		} else {
			continue
		}
		if _, exists := rows[key]; !exists {
			order = append(order, key)
		}
		rows[key] = doc
	}
	return rows, order
}

// mergeShallow copies the right row's fields, then overlays the left
// row's. Field values are shared with the source rows, not cloned.
func mergeShallow(left, right Value) Value {
	out := NewObject()
	for _, src := range []Value{right, left} {
		if src.Kind() != KindObject {
			continue
		}
		obj := src.Object()
		for _, k := range obj.Keys() {
			out.Object().Set(k, obj.Get(k))
		}
	}
	return out
}
