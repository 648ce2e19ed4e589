package snapdb

import (
	"github.com/maruel/ksid"
)

// newID returns a fresh globally unique, time-sortable document id. The
// base32hex encoding keeps ids safe to embed in dot-paths.
func newID() string {
	return ksid.NewID().String()
}
