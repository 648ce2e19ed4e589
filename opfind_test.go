package snapdb

import (
	"testing"
)

func TestFindAll(t *testing.T) {
	db := setup(t)
	notes := db.Collection("notes", CollectionConfig{})

	e1 := Obj("text", "first")
	e2 := Obj("text", "second")
	e3 := Obj("text", "third")
	for _, e := range []Value{e1, e2, e3} {
		if notes.Create(e) == "" {
			t.Fatalf("Create failed")
		}
	}

	docsEqual(t, notes.Find(nil), e1, e2, e3)
	docsEqual(t, notes.Find(And()), e1, e2, e3)
	docsEqual(t, notes.Find(Eq("text", "second")), e2)
	docsEqual(t, notes.Find(Eq("text", "nope")))
}

func TestFindByID(t *testing.T) {
	db := setup(t)
	users := db.Collection("users", CollectionConfig{})

	alice := Obj("name", "alice")
	id := users.Create(alice)
	users.Create(Obj("name", "bob"))

	docsEqual(t, users.Find(Eq("_id", id)), alice)
	docsEqual(t, users.Find(Eq("_id", "nope")))
	docsEqual(t, users.Find(Eq("_id", nil)))

	// The id lookup resolves through the document's slot, not a scan.
	// Rewriting the stored _id field behind the collection's back leaves
	// the slot lookup working while an equivalent scan comes up empty.
	db.Set("users.data."+id+"._id", ValueOf("poisoned"))
	docsEqual(t, users.Find(Eq("_id", id)), alice)
	docsEqual(t, users.Find(Where(func(doc Value) bool {
		return doc.Get("_id").Str() == id
	})))
}

func TestFindByIndex(t *testing.T) {
	db := setup(t)
	users := db.Collection("users", CollectionConfig{Indexes: []string{"team"}})

	d1 := Obj("name", "alice", "team", "red")
	d2 := Obj("name", "bob", "team", "red")
	d3 := Obj("name", "carol", "team", "blue")
	id1 := users.Create(d1)
	users.Create(d2)
	users.Create(d3)

	docsEqual(t, users.Find(Eq("team", "red")), d1, d2)
	docsEqual(t, users.Find(Eq("team", "blue")), d3)
	docsEqual(t, users.Find(Eq("team", "green")))

	// Index buckets are trusted as is. Rewriting the stored field behind
	// the collection's back does not move the document to another bucket.
	db.Set("users.data."+id1+".team", ValueOf("blue"))
	docsEqual(t, users.Find(Eq("team", "red")), d1, d2)
	docsEqual(t, users.Find(Eq("team", "blue")), d3)

	// A single-element conjunction unwraps to the same index lookup.
	docsEqual(t, users.Find(And(And(Eq("team", "red")))), d1, d2)
	// A two-element one does not; the scan sees the rewritten field.
	docsEqual(t, users.Find(And(Eq("team", "red"), nil)), d2)
}

func TestFindIndexStringifiesValues(t *testing.T) {
	db := setup(t)
	events := db.Collection("events", CollectionConfig{Indexes: []string{"code"}})

	numeric := Obj("kind", "numeric", "code", 42)
	text := Obj("kind", "text", "code", "42")
	events.Create(numeric)
	events.Create(text)

	// Values that stringify alike share a bucket.
	docsEqual(t, events.Find(Eq("code", 42)), numeric, text)
	docsEqual(t, events.Find(Eq("code", "42")), numeric, text)
}

func TestFindScan(t *testing.T) {
	db := setup(t)
	users := db.Collection("users", CollectionConfig{})

	d1 := Obj("name", "alice", "team", "red", "admin", true)
	d2 := Obj("name", "bob", "team", "red", "admin", false)
	d3 := Obj("name", "carol", "team", "blue", "admin", true)
	for _, d := range []Value{d1, d2, d3} {
		users.Create(d)
	}

	docsEqual(t, users.Find(And(Eq("team", "red"), Eq("admin", true))), d1)
	docsEqual(t, users.Find(Eq("team", "red")), d1, d2)
	docsEqual(t, users.Find(Where(func(doc Value) bool {
		return doc.Get("admin").Bool()
	})), d1, d3)
	docsEqual(t, users.Find(And(Eq("team", "blue"), Where(func(doc Value) bool {
		return doc.Get("name").Str() == "carol"
	}))), d3)
}

func TestGetFirstMatch(t *testing.T) {
	db := setup(t)
	users := db.Collection("users", CollectionConfig{})

	d1 := Obj("name", "alice", "team", "red")
	d2 := Obj("name", "bob", "team", "red")
	users.Create(d1)
	users.Create(d2)

	valEqual(t, users.Get(Eq("team", "red")), d1)
	valEqual(t, users.Get(nil), d1)
	isabsent(t, users.Get(Eq("team", "green")))
}
