package snapdb

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Snapshot envelope: flags (uvarint), payload size (uvarint), xxhash64 of
// the stored payload (8 bytes big-endian), payload. The payload is the
// msgpack value tree, optionally zstd-compressed per the flags.

const (
	snapshotFormatVer1      = 1
	snapshotFormatVerLatest = snapshotFormatVer1
)

type snapshotFlags uint64

const (
	sfVerBit0 = snapshotFlags(1 << iota)
	sfVerBit1
	sfVerBit2
	sfVerBit3
	sfCompressionBit0

	sfVerMask       = (sfVerBit0 | sfVerBit1 | sfVerBit2 | sfVerBit3)
	sfVer1          = sfVerBit0
	sfZstd          = sfCompressionBit0
	sfSupportedMask = (sfVer1 | sfZstd)
	sfDefault       = sfVer1

	minSnapshotSize = 11
)

func (sf snapshotFlags) ver() snapshotFlags {
	return sf & sfVerMask
}

func encodeSnapshot(root Value, compress bool) []byte {
	payload := appendTreeValue(nil, root)
	flags := sfDefault
	if compress {
		flags |= sfZstd
		payload = zstdCompress(payload)
	}
	sum := xxhash.Sum64(payload)

	buf := make([]byte, 0, 2*binary.MaxVarintLen64+8+len(payload))
	buf = appendUvarint(buf, uint64(flags))
	buf = appendUvarint(buf, uint64(len(payload)))
	buf = binary.BigEndian.AppendUint64(buf, sum)
	buf = appendRaw(buf, payload)
	return buf
}

func decodeSnapshot(data []byte) (Value, error) {
	orig := data
	if len(data) < minSnapshotSize {
		return Value{}, dataErrf(orig, 0, nil, "invalid snapshot: at least %d bytes required", minSnapshotSize)
	}

	v, n := binary.Uvarint(data)
	if n <= 0 {
		return Value{}, dataErrf(orig, len(orig)-len(data), nil, "invalid snapshot: bad flags")
	}
	if (v & ^uint64(sfSupportedMask)) != 0 {
		return Value{}, dataErrf(orig, len(orig)-len(data), nil, "invalid snapshot: unsupported flags %x", v)
	}
	flags := snapshotFlags(v)
	data = data[n:]
	if flags.ver() != sfVer1 {
		return Value{}, dataErrf(orig, 0, nil, "invalid snapshot: unsupported version %x", uint64(flags.ver()))
	}

	payloadSize, n := binary.Uvarint(data)
	if n <= 0 {
		return Value{}, dataErrf(orig, len(orig)-len(data), nil, "invalid snapshot: bad payload size")
	}
	data = data[n:]

	if len(data) < 8 {
		return Value{}, dataErrf(orig, len(orig)-len(data), nil, "invalid snapshot: bad checksum")
	}
	sum := binary.BigEndian.Uint64(data)
	data = data[8:]

	if uint64(len(data)) != payloadSize {
		return Value{}, dataErrf(orig, len(orig)-len(data), nil, "invalid snapshot: got %d payload bytes, expected %d", len(data), payloadSize)
	}
	if actual := xxhash.Sum64(data); actual != sum {
		return Value{}, dataErrf(orig, len(orig)-len(data), nil, "invalid snapshot: checksum mismatch: computed %016x, expected %016x", actual, sum)
	}

	if flags&sfZstd != 0 {
		var err error
		data, err = zstdDecompress(data)
		if err != nil {
			return Value{}, dataErrf(orig, 0, err, "invalid snapshot: bad zstd payload")
		}
	}

	root, err := parseTreeValue(data)
	if err != nil {
		return Value{}, err
	}
	if root.Kind() != KindObject {
		return Value{}, dataErrf(orig, 0, nil, "invalid snapshot: root is %v, expected object", root.Kind())
	}
	return root, nil
}
