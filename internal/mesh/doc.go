// Package mesh models packets received from a Meshtastic radio network.
//
// A received packet is an Event: the radio envelope (sender, recipient,
// signal quality, hop budget) plus the decoded Data section, whose payload
// is a closed variant selected by the application port:
//
//   - POSITION_APP     → Position
//   - NODEINFO_APP     → User
//   - TELEMETRY_APP    → Telemetry
//   - TEXT_MESSAGE_APP → Text
//   - anything else    → Unrecognized
//
// Events reach the ingestor through a Feed. The radio bridge publishes into
// the feed; Pump is the bridge used by the CLI, decoding newline-delimited
// JSON packets in the shape the meshtastic tooling emits.
package mesh
