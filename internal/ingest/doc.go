// Package ingest turns received mesh packets into stored records.
//
// The Ingestor is the store's only writer. For each event it either drops
// the packet (its port is not one of the four decoded kinds) or normalizes
// it and appends exactly one record, waiting for the commit before taking
// the next event. A failed append is fatal: the radio will not resend the
// packet, so Run stops and returns a *FaultError instead of skipping it.
package ingest
