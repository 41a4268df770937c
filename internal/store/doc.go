// Package store provides SQLite-backed durable storage for captured mesh
// packets.
//
// The store is a single append-only table, packets, with one column per
// PacketRecord field and the implicit SQLite rowid as the record identity.
// The rowid is the only ordering key: application packet ids repeat over
// time and receive timestamps collide, so every query orders by rowid ASC.
//
// # Invariants
//
//   - Rows are written once by Append and never updated or deleted, so a
//     rowid is never reused and increases with insertion order.
//   - The port column always equals the portnum embedded in decoded;
//     Append rejects a record where they differ.
//   - A returned Append is committed and durable (synchronous=FULL).
//
// # Handles
//
//   - Open: the single writer. Creates the file and schema if needed and
//     holds one connection.
//   - OpenReadOnly: a reader pool for the query service. WAL mode lets any
//     number of readers scan committed rows while the writer appends.
//
// The columns match packets tables written before the indexes existed, so
// older packets.db files open unchanged. Those tables declare no INTEGER
// PRIMARY KEY, and that is kept: the rowid stays implicit. VACUUM may
// renumber an implicit rowid, which would break every client cursor, so a
// packets.db must never be vacuumed. Copy it with the backup API or
// VACUUM INTO a new file that no client has read from.
package store
