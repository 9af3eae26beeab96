package quill

import (
	"slices"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/constraint"
	"github.com/akmonengine/quill/obstacle"
	"github.com/samber/lo"
)

const (
	CONTACT_ENTER EventType = iota
	CONTACT_STAY
	CONTACT_EXIT
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// ContactEnterEvent is sent the first frame the body penetrates an obstacle
type ContactEnterEvent struct {
	Body          *actor.RigidBody
	ObstacleIndex int
	Obstacle      obstacle.Obstacle
	Contact       *constraint.ContactConstraint
}

func (e ContactEnterEvent) Type() EventType { return CONTACT_ENTER }

type ContactStayEvent struct {
	Body          *actor.RigidBody
	ObstacleIndex int
	Obstacle      obstacle.Obstacle
	Contact       *constraint.ContactConstraint
}

func (e ContactStayEvent) Type() EventType { return CONTACT_STAY }

// ContactExitEvent is sent the first frame the body no longer penetrates an obstacle
type ContactExitEvent struct {
	Body          *actor.RigidBody
	ObstacleIndex int
	Obstacle      obstacle.Obstacle
}

func (e ContactExitEvent) Type() EventType { return CONTACT_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Contacts by obstacle index, for Enter/Stay/Exit detection
	previousContacts map[int]*constraint.ContactConstraint
	currentContacts  map[int]*constraint.ContactConstraint
}

func NewEvents() Events {
	return Events{
		listeners:        make(map[EventType][]EventListener),
		buffer:           make([]Event, 0, 16),
		previousContacts: make(map[int]*constraint.ContactConstraint),
		currentContacts:  make(map[int]*constraint.ContactConstraint),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts is called once per frame with the obstacles the body penetrates
func (e *Events) recordContacts(contacts []*constraint.ContactConstraint) {
	for _, c := range contacts {
		e.currentContacts[c.ObstacleIndex] = c
	}
}

// processContactEvents compares current and previous contacts to detect Enter/Stay/Exit.
// Events are emitted in ascending obstacle order.
func (e *Events) processContactEvents() {
	current := lo.Keys(e.currentContacts)
	slices.Sort(current)

	for _, index := range current {
		c := e.currentContacts[index]
		if _, ok := e.previousContacts[index]; ok {
			e.buffer = append(e.buffer, ContactStayEvent{
				Body:          c.Body,
				ObstacleIndex: index,
				Obstacle:      c.Obstacle,
				Contact:       c,
			})
		} else {
			e.buffer = append(e.buffer, ContactEnterEvent{
				Body:          c.Body,
				ObstacleIndex: index,
				Obstacle:      c.Obstacle,
				Contact:       c,
			})
		}
	}

	previous := lo.Keys(e.previousContacts)
	slices.Sort(previous)

	for _, index := range previous {
		if _, ok := e.currentContacts[index]; !ok {
			c := e.previousContacts[index]
			e.buffer = append(e.buffer, ContactExitEvent{
				Body:          c.Body,
				ObstacleIndex: index,
				Obstacle:      c.Obstacle,
			})
		}
	}

	// Swap for next frame and clear current
	e.previousContacts, e.currentContacts = e.currentContacts, e.previousContacts
	clear(e.currentContacts)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processContactEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
