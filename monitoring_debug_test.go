package snapdb

import (
	"strings"
	"testing"
)

func TestCollectionStats(t *testing.T) {
	db := setup(t)
	users := db.Collection("users", CollectionConfig{Unique: []string{"email"}, Indexes: []string{"team"}})

	users.Create(Obj("name", "alice", "email", "a@x", "team", "red"))
	users.Create(Obj("name", "bob", "email", "b@x", "team", "red"))
	users.Create(Obj("name", "carol", "email", "c@x", "team", "blue"))
	users.Delete(Eq("name", "bob"))

	s := users.Stats()
	if s.Docs != 2 {
		t.Errorf("Docs = %d, wanted 2", s.Docs)
	}
	if s.Deleted != 1 {
		t.Errorf("Deleted = %d, wanted 1", s.Deleted)
	}
	if s.UniqueFields != 1 {
		t.Errorf("UniqueFields = %d, wanted 1", s.UniqueFields)
	}
	if s.UniqueValues != 2 {
		t.Errorf("UniqueValues = %d, wanted 2", s.UniqueValues)
	}
	if s.IndexFields != 1 {
		t.Errorf("IndexFields = %d, wanted 1", s.IndexFields)
	}
	if s.IndexEntries != 2 {
		t.Errorf("IndexEntries = %d, wanted 2", s.IndexEntries)
	}
	if got := s.TotalKeys(); got != 4 {
		t.Errorf("TotalKeys = %d, wanted 4", got)
	}
}

func TestCollectionStatsEmpty(t *testing.T) {
	db := setup(t)
	users := db.Collection("users", CollectionConfig{})

	s := users.Stats()
	if s != (CollectionStats{}) {
		t.Fatalf("Stats = %+v, wanted zero", s)
	}
}

func TestLoggableValue(t *testing.T) {
	if got := loggableValue(Value{}); got != "<none>" {
		t.Fatalf("loggableValue(absent) = %q, wanted <none>", got)
	}
	if got := loggableValue(Obj("a", 1)); got != `{"a":1}` {
		t.Fatalf("loggableValue = %q", got)
	}
	if got := loggableValue(ValueOf("x")); got != `"x"` {
		t.Fatalf("loggableValue = %q", got)
	}
}

func TestDumpFlags(t *testing.T) {
	if !DumpCollectionHeaders.Contains(DumpCollectionHeaders) || DumpCollectionHeaders.Contains(DumpDocs) {
		t.Fatalf("DumpFlags.Contains returned unexpected results")
	}
	both := DumpDocs | DumpStats
	if !both.Contains(DumpDocs) || !both.Contains(DumpStats) || both.Contains(DumpUniques) {
		t.Fatalf("DumpFlags.Contains returned unexpected results for a combination")
	}
	if !DumpAll.Contains(DumpIndexEntries) {
		t.Fatalf("DumpAll does not contain DumpIndexEntries")
	}
}

func TestDump(t *testing.T) {
	db := setup(t)
	db.Set("config", Obj("host", "localhost"))
	users := db.Collection("users", CollectionConfig{Unique: []string{"email"}, Indexes: []string{"team"}})
	users.Create(Obj("name", "alice", "email", "a@x", "team", "red"))
	users.Create(Obj("name", "bob", "email", "b@x", "team", "red"))

	out := db.Dump(DumpAll)
	for _, want := range []string{
		"users (2 docs)",
		"users.stats: deleted = 0",
		`"name":"alice"`,
		"users.u.email (2 values)",
		"users.u.email.1: a@x",
		"users.i.team (1 values)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump output missing %q; got:\n%s", want, out)
		}
	}

	// The index entry line lists the bucket's ids in order.
	alice := users.Get(Eq("name", "alice")).Get("_id").Str()
	bob := users.Get(Eq("name", "bob")).Get("_id").Str()
	if want := "users.i.team.1: red => " + alice + " " + bob; !strings.Contains(out, want) {
		t.Errorf("Dump output missing %q; got:\n%s", want, out)
	}

	// Non-collection root keys are skipped.
	if strings.Contains(out, "config") {
		t.Errorf("Dump included a non-collection subtree:\n%s", out)
	}

	if got := db.Dump(DumpCollectionHeaders); !strings.Contains(got, "users (2 docs)") || strings.Contains(got, "users.stats") {
		t.Errorf("Dump(DumpCollectionHeaders) = %q", got)
	}
}
