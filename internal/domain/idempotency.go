package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Operation names used to scope idempotency records. A key only collides
// with a prior use of the same key for the same operation.
const (
	OpConsume = "consume"
	OpReserve = "reserve"
	OpRelease = "release"
	OpCredit  = "credit"
	OpRefund  = "refund"
	OpAdjust  = "adjust"
)

// IdempotencyRecord stores the outcome of a keyed mutation. Repeat calls
// with the same (operation, key) and payload replay Response verbatim;
// a different payload is rejected.
type IdempotencyRecord struct {
	Operation   string
	Key         string
	RequestHash string
	Response    []byte
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the record has passed its retention window.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// HashPayload computes the canonical hash of a request payload for
// mismatched-replay detection. encoding/json sorts map keys and emits
// struct fields in declaration order, so equal payloads hash equally.
func HashPayload(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// Unmarshalable payloads never match anything.
		data = []byte(err.Error())
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}
