package types

import "time"

// QuotaInfo is the user-facing daily quota snapshot.
// Remaining is always Limit-Used, floored at zero.
type QuotaInfo struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}
