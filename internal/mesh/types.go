package mesh

// Port is the application-type tag carried in a packet's Data section.
type Port string

// Recognized application ports. Every other tag is carried as Unrecognized.
const (
	PortPosition    Port = "POSITION_APP"
	PortNodeInfo    Port = "NODEINFO_APP"
	PortTelemetry   Port = "TELEMETRY_APP"
	PortTextMessage Port = "TEXT_MESSAGE_APP"
)

// Default enum names for envelope fields left unset by the radio.
const (
	DefaultPriority = "UNSET"
	DefaultDelayed  = "NO_DELAY"
)

// BroadcastAddr is the node number used as the recipient of broadcasts.
const BroadcastAddr uint32 = 0xFFFFFFFF

// Envelope holds the MeshPacket fields surrounding the decoded payload.
type Envelope struct {
	From     uint32  `json:"from"`
	To       uint32  `json:"to"`
	ID       uint32  `json:"id"`
	RxTime   int64   `json:"rxTime"`
	RxSnr    float64 `json:"rxSnr"`
	HopLimit uint32  `json:"hopLimit"`
	RxRssi   int32   `json:"rxRssi"`
	Channel  uint32  `json:"channel"`
	WantAck  bool    `json:"wantAck"`
	Priority string  `json:"priority"`
	Delayed  string  `json:"delayed"`
}

// WithDefaults returns a copy with empty enum fields set to their
// default names.
func (e Envelope) WithDefaults() Envelope {
	if e.Priority == "" {
		e.Priority = DefaultPriority
	}
	if e.Delayed == "" {
		e.Delayed = DefaultDelayed
	}
	return e
}

// DataHeader holds the Data section fields other than the port and payload.
type DataHeader struct {
	WantResponse bool   `json:"wantResponse"`
	Dest         uint32 `json:"dest"`
	Source       uint32 `json:"source"`
	RequestID    uint32 `json:"requestId"`
	ReplyID      uint32 `json:"replyId"`
	Emoji        uint32 `json:"emoji"`
	Bitfield     uint32 `json:"bitfield"`
}

// Payload is the decoded application payload of a packet.
//
// The set of implementations is closed: Position, User, Telemetry, Text
// and Unrecognized.
type Payload interface {
	// Port reports the application tag the payload was decoded from.
	Port() Port
	isPayload()
}

// Event is one packet as delivered by the radio transport.
type Event struct {
	Envelope
	Header  DataHeader
	Payload Payload
}

// Port returns the event's application tag, or "" when it has no payload.
func (e Event) Port() Port {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Port()
}
