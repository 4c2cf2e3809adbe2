package ipc

// Inbound intent types.
const (
	TypePurchase = "purchase"
	TypePlace    = "place"
	TypeCancel   = "cancel"
	TypeMove     = "move"
	TypeAttack   = "attack"
	TypeActivate = "activate"
	TypeAddTime  = "add_time"
	TypeNewGame  = "new_game"
	TypePause    = "pause"
	TypeResume   = "resume"
)

// PurchaseCommand arms a purchase; Item is the snake_case kind name.
type PurchaseCommand struct {
	Item string `json:"item"`
}

// PlaceCommand completes an armed purchase at (X, Z).
type PlaceCommand struct {
	Item string  `json:"item"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}

type MoveCommand struct {
	ActorID uint32  `json:"actor_id"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
}

type AttackCommand struct {
	ActorID  uint32 `json:"actor_id"`
	TargetID uint32 `json:"target_id"`
}

type ActivateCommand struct {
	ActorID uint32 `json:"actor_id"`
}

type AddTimeCommand struct {
	Seconds float64 `json:"seconds"`
}
