package snapdb

import "testing"

func TestRegisterIndex(t *testing.T) {
	db := setup(t)
	c := db.Collection("users", CollectionConfig{Indexes: []string{"team"}})

	c.registerIndex("team", "red", "id1")
	c.registerIndex("team", "red", "id2")
	c.registerIndex("team", "red", "id1")
	c.registerIndex("team", "blue", "id3")

	valEqual(t, db.Get("users.__meta.indexes.team.red"), Arr("id1", "id2"))
	valEqual(t, db.Get("users.__meta.indexes.team.blue"), Arr("id3"))
}

func TestDeregisterIndex(t *testing.T) {
	db := setup(t)
	c := db.Collection("users", CollectionConfig{Indexes: []string{"team"}})

	for _, id := range []string{"id1", "id2", "id3"} {
		c.registerIndex("team", "red", id)
	}

	c.deregisterIndex("team", "red", "id2")
	valEqual(t, db.Get("users.__meta.indexes.team.red"), Arr("id1", "id3"))

	c.deregisterIndex("team", "red", "missing")
	valEqual(t, db.Get("users.__meta.indexes.team.red"), Arr("id1", "id3"))

	c.deregisterIndex("team", "green", "id1")
	c.deregisterIndex("color", "red", "id1")

	c.deregisterIndex("team", "red", "id1")
	c.deregisterIndex("team", "red", "id3")
	valEqual(t, db.Get("users.__meta.indexes.team.red"), Arr())
}

func TestLookupIndexSkipsDeletedDocs(t *testing.T) {
	db := setup(t)
	c := db.Collection("users", CollectionConfig{Indexes: []string{"team"}})

	id1 := c.Create(Obj("name", "alice", "team", "red"))
	c.Create(Obj("name", "bob", "team", "red"))

	// A stale bucket entry whose slot is gone is skipped on lookup.
	db.Set("users.data."+id1, Value{})
	docs := c.lookupIndex("team", ValueOf("red"))
	if len(docs) != 1 || docs[0].Get("name").Str() != "bob" {
		t.Fatalf("lookupIndex = %v, wanted only bob", docs)
	}

	docsEqual(t, c.lookupIndex("team", ValueOf("green")))
	docsEqual(t, c.lookupIndex("other", ValueOf("red")))
	docsEqual(t, c.lookupIndex("team", Value{}))
}

func TestFieldMapCreatedOnDemand(t *testing.T) {
	db := setup(t)
	db.Collection("users", CollectionConfig{})

	// The subtree was created without this index; a second construction
	// with a wider config does not reseed it, so the field map appears
	// only when the first entry is registered.
	c := db.Collection("users", CollectionConfig{Indexes: []string{"team"}})
	isabsent(t, db.Get("users.__meta.indexes.team"))

	id := c.Create(Obj("name", "alice", "team", "red"))
	valEqual(t, db.Get("users.__meta.indexes.team.red"), Arr(id))
}

func TestUniqueRegistration(t *testing.T) {
	db := setup(t)
	c := db.Collection("users", CollectionConfig{Unique: []string{"email"}})

	if c.uniqueTaken("email", "alice@example") {
		t.Fatalf("uniqueTaken = true on empty map")
	}
	c.registerUnique("email", "alice@example")
	if !c.uniqueTaken("email", "alice@example") {
		t.Fatalf("uniqueTaken = false after registration")
	}
	valEqual(t, db.Get("users.__meta.unique.email.alice@example"), ValueOf(true))

	// Deregistration removes the key structurally, not via a tombstone.
	c.deregisterUnique("email", "alice@example")
	if c.uniqueTaken("email", "alice@example") {
		t.Fatalf("uniqueTaken = true after deregistration")
	}
	fm := c.fieldMap("unique", "email", false)
	if len(fm.keys) != 0 {
		t.Fatalf("unique map keys = %v, wanted none", fm.keys)
	}

	c.deregisterUnique("email", "never-there")
	c.deregisterUnique("phone", "555")
}

func TestMetaSectionClobbered(t *testing.T) {
	db := setup(t)
	c := db.Collection("users", CollectionConfig{Unique: []string{"email"}})

	db.Set("users.__meta.unique", ValueOf("broken"))
	mustPanic(t, "clobbered section", func() {
		c.uniqueTaken("email", "x")
	})

	db.Set("users.__meta", ValueOf(42))
	mustPanic(t, "clobbered meta", func() {
		c.uniqueTaken("email", "x")
	})
}
