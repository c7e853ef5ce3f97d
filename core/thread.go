package core

import "time"

// Thread is an ordered conversational container. Messages are appended via
// Service.CreateMessage and runs execute an agent against the accumulated
// history.
type Thread struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
