package dto

import "time"

type CountdownItem struct {
	ID               int64  `json:"id"`
	Tier             string `json:"tier"`
	RemainingSeconds *int64 `json:"remaining_seconds"`
	Countdown        string `json:"countdown,omitempty"`
}

// Payload of one countdown stream message, sent after every tick.
type CountdownEvent struct {
	At    time.Time       `json:"at"`
	Sites []CountdownItem `json:"sites"`
}
