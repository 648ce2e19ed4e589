/*
Package snapdb implements an embedded document store persisted as a single
snapshot blob (in memory, in a plain file, in Bolt, or in object storage).

We implement:

1. A value tree addressable by dot-separated paths, holding ordered
mappings, arrays, strings, numbers and booleans.

2. Collections, named subtrees of the snapshot exposing document CRUD with
unique fields and secondary value indexes.

3. An equi-join operator combining the results of two finds.

4. Events, per-collection notifications fired around every operation.

# Technical Details

**Absent marker.**
The zero Value means “nothing here”. Reading a missing path returns it,
assigning it to a key deletes the key, and DB.Get collapses an empty
mapping into it, so an empty mapping and a missing path read the same.
The conflation is part of the contract.

**Ids.**
Document ids are either taken from the entry's _id field or generated as
time-sortable unique strings. Ids become path segments under data, so
they must not contain dots.

**Bookkeeping.**
Each collection subtree holds its documents under data and its index
state under __meta: unique fields map stringified values to a presence
flag, indexed fields map stringified values to the ordered list of ids
carrying that value.

## Binary encoding

**Snapshot**: header, then payload.

**Header**:
1. Flags (uvarint): format version in the low bits, compression bit above.
2. Payload size (uvarint).
3. xxHash64 of the payload (8 bytes, big-endian).

**Payload**: msgpack of the root mapping, zstd-compressed when the
compression bit is set.
*/
package snapdb
