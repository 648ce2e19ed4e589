package snapdb

import (
	"testing"
)

func TestTreeGetSetRoundTrip(t *testing.T) {
	root := Obj("a", Obj("b", Obj("c", 1)), "arr", Arr(Obj("x", "y")))

	for _, path := range []string{"a.b.c", "a.b", "arr.0.x"} {
		want := treeGet(root, path)
		if !treeSet(root, path, want) {
			t.Fatalf("treeSet(%s) = false, wanted true", path)
		}
		valEqual(t, treeGet(root, path), want)
	}

	// Array slots can be read but not assigned; only plain objects accept
	// new values.
	valEqual(t, treeGet(root, "arr.0"), root.Get("arr").At(0))
	if treeSet(root, "arr.0", ValueOf(1)) {
		t.Fatalf("treeSet(arr.0) = true, wanted no-op")
	}

	v := ValueOf("fresh")
	if !treeSet(root, "a.b.d", v) {
		t.Fatalf("treeSet(a.b.d) = false, wanted true")
	}
	valEqual(t, treeGet(root, "a.b.d"), v)
}

func TestTreeGetMissingIntermediates(t *testing.T) {
	root := Obj("a", Obj("s", "scalar", "n", 5))

	isabsent(t, treeGet(root, "a.missing"))
	isabsent(t, treeGet(root, "a.missing.deeper.still"))
	isabsent(t, treeGet(root, "a.s.through.scalar"))
	isabsent(t, treeGet(root, "a.n.0"))
	isabsent(t, treeGet(root, "b"))
}

func TestTreeSetNeverMaterializes(t *testing.T) {
	root := Obj("a", Obj("s", "scalar"))
	before := root.String()

	for _, path := range []string{
		"missing.x",
		"a.missing.x",
		"a.s.x",
		"a.s",
	} {
		ok := treeSet(root, path, ValueOf(1))
		if path == "a.s" {
			if !ok {
				t.Fatalf("treeSet(%s) = false, wanted true (parent is an object)", path)
			}
			treeSet(root, path, ValueOf("scalar"))
			continue
		}
		if ok {
			t.Fatalf("treeSet(%s) = true, wanted no-op", path)
		}
	}
	if got := root.String(); got != before {
		t.Fatalf("tree changed by no-op sets: %s, wanted %s", got, before)
	}
}

func TestTreeEmptyObjectReadsAsAbsent(t *testing.T) {
	root := Obj("empty", NewObject(), "full", Obj("k", 1))

	isabsent(t, treeGet(root, "empty"))
	if treeGet(root, "full").IsAbsent() {
		t.Fatalf("treeGet(full) is absent, wanted object")
	}

	// A tombstoned key keeps the object structurally non-empty, so the
	// normalization does not kick in.
	treeSet(root, "full.k", Value{})
	got := treeGet(root, "full")
	if got.IsAbsent() {
		t.Fatalf("treeGet(full) is absent after tombstoning, wanted object with zero live fields")
	}
	if got.Len() != 0 {
		t.Fatalf("treeGet(full).Len() = %d, wanted 0", got.Len())
	}
}

func TestTreeSetAbsentHidesKey(t *testing.T) {
	root := Obj("a", Obj("b", 1, "c", 2))

	treeSet(root, "a.b", Value{})
	isabsent(t, treeGet(root, "a.b"))
	valEqual(t, treeGet(root, "a.c"), ValueOf(2))
	deepEqual(t, root.Get("a").Object().Keys(), []string{"c"})

	// The slot is hidden, not removed: assigning again restores it at its
	// original position.
	treeSet(root, "a.b", ValueOf(3))
	deepEqual(t, root.Get("a").Object().Keys(), []string{"b", "c"})
}

func TestParseIndex(t *testing.T) {
	for _, c := range []struct {
		seg string
		n   int
		ok  bool
	}{
		{"0", 0, true},
		{"7", 7, true},
		{"42", 42, true},
		{"", 0, false},
		{"-1", 0, false},
		{"1x", 0, false},
		{"x", 0, false},
		{"1.5", 0, false},
	} {
		n, ok := parseIndex(c.seg)
		if n != c.n || ok != c.ok {
			t.Fatalf("parseIndex(%q) = (%d, %v), wanted (%d, %v)", c.seg, n, ok, c.n, c.ok)
		}
	}
}
