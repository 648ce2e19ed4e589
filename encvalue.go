package snapdb

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// The tree payload is plain msgpack: objects encode as maps holding their
// live fields in order, arrays as arrays, the absent marker as nil. Numbers
// encode as int64 when integral to keep snapshots small; decoding widens
// every numeric code back to float64, so the round trip is exact for the
// value model even though the wire codes differ.

func appendTreeValue(buf []byte, v Value) []byte {
	bb := bytesBuilder{buf}
	enc := msgpack.GetEncoder()
	enc.ResetDict(&bb, nil)
	err := encodeTreeValue(enc, v)
	msgpack.PutEncoder(enc)
	if err != nil {
		panic(fmt.Errorf("failed to encode value tree using MsgPack: %w", err))
	}
	return bb.Buf
}

func parseTreeValue(buf []byte) (Value, error) {
	var r bytes.Reader
	r.Reset(buf)
	dec := msgpack.GetDecoder()
	dec.ResetDict(&r, nil)
	v, err := decodeTreeValue(dec)
	msgpack.PutDecoder(dec)
	if err != nil {
		return Value{}, dataErrf(buf, 0, err, "failed to decode msgpack value tree")
	}
	return v, nil
}

func encodeTreeValue(enc *msgpack.Encoder, v Value) error {
	switch v.kind {
	case KindAbsent:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) <= 1<<53 {
			return enc.EncodeInt(int64(v.num))
		}
		return enc.EncodeFloat64(v.num)
	case KindString:
		return enc.EncodeString(v.str)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
		for _, e := range v.arr {
			if err := encodeTreeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	case KindObject:
		if err := enc.EncodeMapLen(v.obj.live); err != nil {
			return err
		}
		for _, k := range v.obj.keys {
			e := v.obj.entries[k]
			if e.IsAbsent() {
				continue
			}
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encodeTreeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid value kind %d", int(v.kind))
	}
}

func decodeTreeValue(dec *msgpack.Decoder) (Value, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return Value{}, err
	}
	switch {
	case c == msgpcode.Nil:
		return Value{}, dec.DecodeNil()
	case c == msgpcode.True || c == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return Value{}, err
		}
		return ValueOf(b), nil
	case msgpcode.IsFixedNum(c) || isIntCode(c) || c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return Value{}, err
		}
		return ValueOf(f), nil
	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return Value{}, err
		}
		return ValueOf(s), nil
	case msgpcode.IsBin(c):
		b, err := dec.DecodeBytes()
		if err != nil {
			return Value{}, err
		}
		return ValueOf(string(b)), nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, err
		}
		arr := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			e, err := decodeTreeValue(dec)
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, e)
		}
		return NewArray(arr...), nil
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, err
		}
		obj := NewObject()
		for i := 0; i < n; i++ {
			k, err := dec.DecodeString()
			if err != nil {
				return Value{}, err
			}
			e, err := decodeTreeValue(dec)
			if err != nil {
				return Value{}, err
			}
			obj.obj.Set(k, e)
		}
		return obj, nil
	default:
		return Value{}, fmt.Errorf("unsupported msgpack code %x", c)
	}
}

func isIntCode(c byte) bool {
	switch c {
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64,
		msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return true
	default:
		return false
	}
}
