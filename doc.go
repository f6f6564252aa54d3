/*
Package avrotuple exposes schema-described records as positional tuples and
streams them as binary encoded records.

Records, schemas and tuples

A record holds one value per field of its record schema, in declaration order.
Schemas are parsed once from their JSON text and are immutable.

A Tuple is a view over exactly one record: position i of the tuple is field i
of the record. Reading a position returns the canonical representation of the
field value and writing a position converts the value back to the native
representation stored in the record. The conversions are performed by a
coercion Registry:

  bytes, fixed       *types.Blob wrapping the record's []byte
  array              []any
  map                *types.Map, with keys in lexicographic order
  timestamp-millis   time.Time
  timestamp-micros   time.Time

Other values are returned as stored. A Tuple never copies its record: changes
made through the tuple are visible through the record and the other way around.

The shape of a Tuple is fixed by its schema. Appending, removing or clearing
values fails with ErrUnsupportedMutation.

Ordering

Two tuples backed by records are ordered using the sort order of their schema:
field order attributes are honoured, ignored fields are skipped and nulls are
ordered by the position of the null branch in their union. Any other tuple is
compared value by value, with nulls first. Both orders may disagree for the
same values.

Streaming

A Writer encodes one record at a time to a sink and flushes it immediately.
A Reader decodes records from a source without reading ahead, into a single
record reused from one call to the next:

  r, err := avrotuple.NewReader(s)
  ...
  for {
      t, err := r.ReadRecord(nil)
      if err == io.EOF {
          break
      }
      ...
  }

A tuple returned by ReadRecord is only valid until the next call. Use Copy, or
clone its record, to keep it.
*/
package avrotuple
