package ipc

// Session and outbound message types.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeSnapshot = "snapshot"
	TypeEvent    = "event"
	TypeRejected = "rejected"
	TypeAlert    = "alert"
)

// HelloMessage opens a session. Observers receive snapshots and events but
// their intents are rejected.
type HelloMessage struct {
	Client   string `json:"client"`
	Observer bool   `json:"observer,omitempty"`
}

type AckMessage struct {
	Status  string `json:"status"`
	MatchID string `json:"matchId"`
	Paused  bool   `json:"paused,omitempty"`
}

// RejectedMessage tells the sender an intent was a no-op, and why.
type RejectedMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// AlertMessage is a coarse notification derived from comparing successive
// snapshots, e.g. "base under attack".
type AlertMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
