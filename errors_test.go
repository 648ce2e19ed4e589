package snapdb

import (
	"errors"
	"strings"
	"testing"
)

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		err := dataErrf([]byte{0xAA, 0xBB}, 1, inner, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "oops") || !strings.Contains(s, "inner") || !strings.Contains(s, "(2)") || !strings.Contains(s, "aabb") {
			t.Fatalf("err.Error() = %q, wanted message with oops/inner/(2)/aabb", s)
		}
	})

	t.Run("no inner error", func(t *testing.T) {
		err := dataErrf([]byte{0xAA}, 0, nil, "oops %d", 7)
		s := err.Error()
		if !strings.Contains(s, "oops 7") || !strings.Contains(s, "(1)") {
			t.Fatalf("err.Error() = %q, wanted message with oops 7/(1)", s)
		}
	})

	t.Run("large data includes prefix+suffix", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		err := dataErrf(data, 0, nil, "oops")
		s := err.Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "...") {
			t.Fatalf("err.Error() = %q, wanted message with (200) and ...", s)
		}
	})
}
