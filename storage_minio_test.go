package snapdb

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

// Exercises a real MinIO server; set SNAPDB_TEST_MINIO_ENDPOINT,
// SNAPDB_TEST_MINIO_BUCKET and the MINIO_* credentials to run.
func TestMinioStorage(t *testing.T) {
	endpoint := os.Getenv("SNAPDB_TEST_MINIO_ENDPOINT")
	bucket := os.Getenv("SNAPDB_TEST_MINIO_BUCKET")
	if endpoint == "" || bucket == "" {
		t.Skip("SNAPDB_TEST_MINIO_ENDPOINT or SNAPDB_TEST_MINIO_BUCKET not set")
	}

	key := "snapdb-test/" + newID()
	st, err := OpenMinioStorageEnv(endpoint, bucket, key)
	if err != nil {
		t.Fatalf("OpenMinioStorageEnv failed: %v", err)
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

	// A DB opened over the same object sees the saved snapshot.
	if err := st.Save(t.Context(), encodeSnapshot(Obj("k", "v"), false)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	db, err := Open("minio://"+endpoint+"/"+bucket+"/"+key, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	valEqual(t, db.Get("k"), ValueOf("v"))
}
