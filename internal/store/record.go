package store

// PacketRecord is one stored packet. The db tags name the packets columns;
// the json tags are the query service's wire keys.
type PacketRecord struct {
	From     int64   `db:"packet_from" json:"from"`
	To       int64   `db:"packet_to" json:"to"`
	Decoded  string  `db:"decoded" json:"decoded"`
	ID       int64   `db:"id" json:"id"`
	RxTime   int64   `db:"rx_time" json:"rxTime"`
	RxSnr    float64 `db:"rx_snr" json:"rxSnr"`
	HopLimit int64   `db:"hop_limit" json:"hopLimit"`
	RxRssi   int64   `db:"rx_rssi" json:"rxRssi"`
	Channel  int64   `db:"channel" json:"channel"`
	WantAck  bool    `db:"want_ack" json:"wantAck"`
	Priority string  `db:"priority" json:"priority"`
	Delayed  string  `db:"delayed" json:"delayed"`
	Port     string  `db:"port" json:"port"`

	// RowID is assigned by Append; it is ignored on input.
	RowID int64 `db:"rowid" json:"rowId"`
}
