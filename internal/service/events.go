package service

import "booking-api/internal/event"

func publish(bus event.Bus, typ event.Type, resource string, actorID string, payload any) {
	if bus == nil {
		return
	}
	bus.Publish(event.Event{Type: typ, Resource: resource, ActorID: actorID, Payload: payload})
}
