package rival

import "github.com/zappabad/stockpick/internal/market"

// RivalID uniquely identifies a computer opponent.
type RivalID int64

// Rival is a computer opponent that locks in a pick alongside the player.
type Rival struct {
	ID       RivalID
	Name     string
	Strategy string
}

// Pick represents a rival's choice for one round.
type Pick struct {
	RivalID RivalID
	Name    string
	Key     market.AssetKey
	Reason  string
	Time    int64
}
