package handlers

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
)

// ActionLogHandler writes one structured line per committed relationship mutation.
type ActionLogHandler struct {
	log *logrus.Logger
}

func NewActionLogHandler(log *logrus.Logger) *ActionLogHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ActionLogHandler{log: log}
}

func RegisterActionLogHandlers(app application.Application) {
	h := NewActionLogHandler(app.Logger())
	bus := app.EventPublisher()
	bus.Subscribe(h.onManagerAssigned)
	bus.Subscribe(h.onManagerReplaced)
	bus.Subscribe(h.onEmployeeAdded)
	bus.Subscribe(h.onEmployeeReplaced)
	bus.Subscribe(h.onEmployeeRemoved)
	bus.Subscribe(h.onRelationshipCreated)
}

func (h *ActionLogHandler) entry(action string, meta relationship.EventMeta) *logrus.Entry {
	fields := logrus.Fields{
		"action":   action,
		"event-id": meta.EventID.String(),
	}
	if meta.RequestID != "" {
		fields["request-id"] = meta.RequestID
	}
	if meta.ActorID != uuid.Nil {
		fields["actor-id"] = meta.ActorID.String()
	}
	return h.log.WithFields(fields).WithTime(meta.OccurredAt)
}

func (h *ActionLogHandler) onManagerAssigned(ev *relationship.ManagerAssignedEvent) {
	h.entry("manager.assigned", ev.EventMeta).WithFields(logrus.Fields{
		"edge-id":    ev.EdgeID.String(),
		"client-id":  ev.ClientID.String(),
		"manager-id": ev.ManagerID.String(),
	}).Info("relationship action")
}

func (h *ActionLogHandler) onManagerReplaced(ev *relationship.ManagerReplacedEvent) {
	h.entry("manager.replaced", ev.EventMeta).WithFields(logrus.Fields{
		"edge-id":             ev.EdgeID.String(),
		"client-id":           ev.ClientID.String(),
		"manager-id":          ev.ManagerID.String(),
		"previous-manager-id": ev.PreviousManagerID.String(),
	}).Info("relationship action")
}

func (h *ActionLogHandler) onEmployeeAdded(ev *relationship.EmployeeAddedEvent) {
	h.entry("employee.added", ev.EventMeta).WithFields(logrus.Fields{
		"edge-id":     ev.EdgeID.String(),
		"client-id":   ev.ClientID.String(),
		"manager-id":  ev.ManagerID.String(),
		"employee-id": ev.EmployeeID.String(),
	}).Info("relationship action")
}

func (h *ActionLogHandler) onEmployeeReplaced(ev *relationship.EmployeeReplacedEvent) {
	h.entry("employee.replaced", ev.EventMeta).WithFields(logrus.Fields{
		"edge-id":              ev.EdgeID.String(),
		"client-id":            ev.ClientID.String(),
		"manager-id":           ev.ManagerID.String(),
		"employee-id":          ev.EmployeeID.String(),
		"previous-employee-id": ev.PreviousEmployeeID.String(),
	}).Info("relationship action")
}

func (h *ActionLogHandler) onEmployeeRemoved(ev *relationship.EmployeeRemovedEvent) {
	h.entry("employee.removed", ev.EventMeta).WithFields(logrus.Fields{
		"edge-id":     ev.EdgeID.String(),
		"client-id":   ev.ClientID.String(),
		"manager-id":  ev.ManagerID.String(),
		"employee-id": ev.EmployeeID.String(),
	}).Info("relationship action")
}

func (h *ActionLogHandler) onRelationshipCreated(ev *relationship.RelationshipCreatedEvent) {
	ids := make([]string, len(ev.EmployeeIDs))
	for i, id := range ev.EmployeeIDs {
		ids[i] = id.String()
	}
	h.entry("relationship.created", ev.EventMeta).WithFields(logrus.Fields{
		"edge-id":      ev.EdgeID.String(),
		"client-id":    ev.ClientID.String(),
		"manager-id":   ev.ManagerID.String(),
		"employee-ids": ids,
	}).Info("relationship action")
}
