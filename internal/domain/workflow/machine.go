// Package workflow define las máquinas de estado de cada documento como tablas
// de transición explícitas. Ningún documento usa el estado de otro para
// representar su propio resultado.
package workflow

import "github.com/jhoicas/replenishment-api/internal/domain"

// Action es un evento que dispara una transición.
type Action string

// Transition una fila de la tabla: desde From, la acción Action lleva a To.
type Transition[S ~string] struct {
	From   S
	Action Action
	To     S
}

// Machine tabla de transiciones de un tipo de documento.
type Machine[S ~string] struct {
	entity   string
	table    map[S]map[Action]S
	failKind map[Action]error
}

// NewMachine construye la máquina a partir de sus transiciones.
// failKind permite refinar el error devuelto por acción (por defecto ErrInvalidState).
func NewMachine[S ~string](entity string, transitions []Transition[S], failKind map[Action]error) *Machine[S] {
	m := &Machine[S]{
		entity:   entity,
		table:    make(map[S]map[Action]S),
		failKind: failKind,
	}
	for _, t := range transitions {
		if m.table[t.From] == nil {
			m.table[t.From] = make(map[Action]S)
		}
		m.table[t.From][t.Action] = t.To
	}
	return m
}

// Next devuelve el estado destino o un *domain.Error con el estado actual.
func (m *Machine[S]) Next(from S, action Action) (S, error) {
	if to, ok := m.table[from][action]; ok {
		return to, nil
	}
	kind := domain.ErrInvalidState
	if k, ok := m.failKind[action]; ok {
		kind = k
	}
	return from, domain.StateError(kind, m.entity, string(from))
}

// Can indica si la acción es válida desde el estado dado.
func (m *Machine[S]) Can(from S, action Action) bool {
	_, ok := m.table[from][action]
	return ok
}

// Terminal indica si desde el estado no sale ninguna transición.
func (m *Machine[S]) Terminal(s S) bool {
	return len(m.table[s]) == 0
}
