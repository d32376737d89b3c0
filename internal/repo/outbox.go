package repo

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

type OutboxPG struct{}

// Enqueue writes an event into outbox_events within the given transaction.
func (o *OutboxPG) Enqueue(ctx context.Context, tx pgx.Tx, eventID, orderNumber, eventType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		insert into outbox_events(
			id, order_number, event_type, payload,
			attempts, next_attempt_at, created_at
		)
		values ($1::uuid, $2, $3, $4::jsonb, 0, now(), now())
	`, eventID, orderNumber, eventType, string(b))
	return err
}
