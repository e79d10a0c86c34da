package outbox

import (
	"time"
)

// OutboxMessage is a pending notification written in the same transaction
// as the change it announces, published later by the outbox worker.
type OutboxMessage struct {
	ID           int64
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
