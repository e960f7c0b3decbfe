package audit

import (
	"context"
	"time"

	id "paynroll/pkg/domain"
)

// Store persists audit events. Append-only: nothing updates or deletes.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]Event, error)
}

// Publisher hands audit events to the background Worker through its inbox,
// keeping persistence off the request path. Emit stamps a missing timestamp
// before handing off.
type Publisher struct {
	inbox chan<- Event
}

func NewPublisher(inbox chan<- Event) *Publisher {
	return &Publisher{inbox: inbox}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	select {
	case p.inbox <- base:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
