// Package delivery contiene la máquina de estados de las entregas.
//
//	pending ──complete──▶ completed
//	   │
//	   └────cancel─────▶ cancelled
//
// completed y cancelled son terminales: ningún evento sale de ellos.
package delivery

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// Eventos de la máquina de estados.
const (
	EventComplete = "complete"
	EventCancel   = "cancel"
)

func newMachine(current string) *fsm.FSM {
	return fsm.NewFSM(
		current,
		fsm.Events{
			{Name: EventComplete, Src: []string{entity.DeliveryStatusPending}, Dst: entity.DeliveryStatusCompleted},
			{Name: EventCancel, Src: []string{entity.DeliveryStatusPending}, Dst: entity.DeliveryStatusCancelled},
		},
		fsm.Callbacks{},
	)
}

// Transition aplica event sobre el estado current y devuelve el estado destino.
// Devuelve ErrInvalidTransition si el evento no está permitido desde current.
func Transition(ctx context.Context, current, event string) (string, error) {
	if !entity.IsValidDeliveryStatus(current) {
		return current, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, current)
	}
	m := newMachine(current)
	if err := m.Event(ctx, event); err != nil {
		return current, fmt.Errorf("%w: %s desde %s: %v", domain.ErrInvalidTransition, event, current, err)
	}
	return m.Current(), nil
}

// Can indica si event puede aplicarse desde current.
func Can(current, event string) bool {
	if !entity.IsValidDeliveryStatus(current) {
		return false
	}
	return newMachine(current).Can(event)
}
