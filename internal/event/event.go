package event

type Type string

const (
	TypeUserRegistered           Type = "user.registered"
	TypeUserRoleChanged          Type = "user.role_changed"
	TypeUserDeleted              Type = "user.deleted"
	TypeAppointmentCreated       Type = "appointment.created"
	TypeAppointmentStatusChanged Type = "appointment.status_changed"
	TypeAppointmentDeleted       Type = "appointment.deleted"
	TypeServiceCreated           Type = "service.created"
	TypeServiceUpdated           Type = "service.updated"
	TypeServiceDeleted           Type = "service.deleted"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Resource  string `json:"resource,omitempty"` // id of the record the event is about
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
