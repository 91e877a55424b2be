package audit

import (
	"log"

	"github.com/google/uuid"
)

type Event struct {
	BusinessID uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	Entity     string
	EntityID   *uuid.UUID
	Metadata   any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

// NewNopDispatcher descarta todos los eventos. Para pruebas.
func NewNopDispatcher() *Dispatcher {
	d := &Dispatcher{queue: make(chan Event, 100)}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if d.logger == nil {
			continue
		}
		if err := d.logger.Log(
			ev.BusinessID,
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// cola llena: se descarta el evento antes que bloquear la API
		log.Println("audit queue full, dropping event")
	}
}
