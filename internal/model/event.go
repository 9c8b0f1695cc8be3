package model

// EventType is an open vocabulary; exporters map it to the target format's
// fixed vocabulary and warn when no equivalent exists.
type EventType string

const (
	EventBirth     EventType = "birth"
	EventDeath     EventType = "death"
	EventMarriage  EventType = "marriage"
	EventDivorce   EventType = "divorce"
	EventBurial    EventType = "burial"
	EventBaptism   EventType = "baptism"
	EventCensus    EventType = "census"
	EventResidence EventType = "residence"
)

// Event is a dated occurrence, optionally placed, with zero or more
// participants. Consumers must accept the list form of PersonIDs; an event is
// not limited to a single participant.
type Event struct {
	CrID      string
	Type      EventType
	Date      string
	PlaceID   string
	PersonIDs []string
}
