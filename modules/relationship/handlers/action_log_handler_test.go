package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/eventbus"
)

func TestActionLogHandler_LogsEveryEventType(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	bus := eventbus.NewEventPublisher(logger)
	app := application.New(&application.ApplicationOptions{EventBus: bus, Logger: logger})

	RegisterActionLogHandlers(app)
	require.Equal(t, 6, bus.SubscribersCount())

	actor := uuid.New()
	meta := relationship.EventMeta{EventID: uuid.New(), RequestID: "req-7", ActorID: actor}
	bus.Publish(&relationship.ManagerAssignedEvent{EventMeta: meta, ClientID: uuid.New(), ManagerID: uuid.New()})
	bus.Publish(&relationship.ManagerReplacedEvent{EventMeta: meta})
	bus.Publish(&relationship.EmployeeAddedEvent{EventMeta: meta})
	bus.Publish(&relationship.EmployeeReplacedEvent{EventMeta: meta})
	bus.Publish(&relationship.EmployeeRemovedEvent{EventMeta: meta})
	bus.Publish(&relationship.RelationshipCreatedEvent{EventMeta: meta, EmployeeIDs: []uuid.UUID{uuid.New()}})

	entries := hook.AllEntries()
	require.Len(t, entries, 6)

	actions := make([]any, 0, len(entries))
	for _, e := range entries {
		assert.Equal(t, logrus.InfoLevel, e.Level)
		assert.Equal(t, "req-7", e.Data["request-id"])
		assert.Equal(t, actor.String(), e.Data["actor-id"])
		actions = append(actions, e.Data["action"])
	}
	assert.Equal(t, []any{
		"manager.assigned",
		"manager.replaced",
		"employee.added",
		"employee.replaced",
		"employee.removed",
		"relationship.created",
	}, actions)
	assert.Len(t, entries[5].Data["employee-ids"], 1)
}

func TestActionLogHandler_OmitsAnonymousActor(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	h := NewActionLogHandler(logger)

	h.onEmployeeRemoved(&relationship.EmployeeRemovedEvent{EventMeta: relationship.EventMeta{EventID: uuid.New()}})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.NotContains(t, entry.Data, "actor-id")
	assert.NotContains(t, entry.Data, "request-id")
}
