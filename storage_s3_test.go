package snapdb

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

// Exercises a real bucket; set SNAPDB_TEST_S3_BUCKET (and the usual AWS
// environment) to run.
func TestS3Storage(t *testing.T) {
	bucket := os.Getenv("SNAPDB_TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("SNAPDB_TEST_S3_BUCKET not set")
	}

	key := "snapdb-test/" + newID()
	st, err := OpenS3Storage(t.Context(), bucket, key)
	if err != nil {
		t.Fatalf("OpenS3Storage failed: %v", err)
	}
	defer st.Close()

	if _, err := st.Load(t.Context()); !errors.Is(err, ErrNotExist) {
		t.Fatalf("Load on missing key = %v, wanted ErrNotExist", err)
	}
	if exists := must(st.Exists(t.Context())); exists {
		t.Fatalf("Exists = true for missing key")
	}

	if err := st.Save(t.Context(), []byte("abc")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if data := must(st.Load(t.Context())); !bytes.Equal(data, []byte("abc")) {
		t.Fatalf("Load = %q, wanted abc", data)
	}
	if exists := must(st.Exists(t.Context())); !exists {
		t.Fatalf("Exists = false after save")
	}
}
