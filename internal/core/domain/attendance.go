package domain

import "time"

// Permanency is the durable trace of an operator's presence at a counter.
// It is produced exclusively by session-registry eviction (explicit logout or
// idle timeout) and is append-only. End is never before Start.
type Permanency struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	OperatorID string    `json:"operator_id" bson:"operator_id"`
	CounterID  string    `json:"counter_id" bson:"counter_id"`
	Start      time.Time `json:"start" bson:"start"`
	End        time.Time `json:"end" bson:"end"`
}
