package relationship

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/pkg/composables"
)

// EventMeta is attached to every relationship event.
type EventMeta struct {
	EventID    uuid.UUID `json:"event_id"`
	RequestID  string    `json:"request_id,omitempty"`
	ActorID    uuid.UUID `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEventMeta(ctx context.Context) EventMeta {
	meta := EventMeta{
		EventID:    uuid.New(),
		RequestID:  composables.UseRequestID(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if s, err := composables.UseSession(ctx); err == nil {
		meta.ActorID = s.UserID
	}
	return meta
}

type ManagerAssignedEvent struct {
	EventMeta
	EdgeID    uuid.UUID `json:"edge_id"`
	ClientID  uuid.UUID `json:"client_id"`
	ManagerID uuid.UUID `json:"manager_id"`
}

type ManagerReplacedEvent struct {
	EventMeta
	EdgeID            uuid.UUID `json:"edge_id"`
	ClientID          uuid.UUID `json:"client_id"`
	PreviousManagerID uuid.UUID `json:"previous_manager_id"`
	ManagerID         uuid.UUID `json:"manager_id"`
}

type EmployeeAddedEvent struct {
	EventMeta
	EdgeID     uuid.UUID `json:"edge_id"`
	ClientID   uuid.UUID `json:"client_id"`
	ManagerID  uuid.UUID `json:"manager_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
}

type EmployeeReplacedEvent struct {
	EventMeta
	EdgeID             uuid.UUID `json:"edge_id"`
	ClientID           uuid.UUID `json:"client_id"`
	ManagerID          uuid.UUID `json:"manager_id"`
	PreviousEmployeeID uuid.UUID `json:"previous_employee_id"`
	EmployeeID         uuid.UUID `json:"employee_id"`
}

type EmployeeRemovedEvent struct {
	EventMeta
	EdgeID     uuid.UUID `json:"edge_id"`
	ClientID   uuid.UUID `json:"client_id"`
	ManagerID  uuid.UUID `json:"manager_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
}

type RelationshipCreatedEvent struct {
	EventMeta
	EdgeID      uuid.UUID   `json:"edge_id"`
	ClientID    uuid.UUID   `json:"client_id"`
	ManagerID   uuid.UUID   `json:"manager_id"`
	EmployeeIDs []uuid.UUID `json:"employee_ids"`
}
