package statemachine

import (
	"fmt"

	"zapshift-backend/models"
)

// Transition defines a valid delivery status change
type Transition struct {
	From string
	To   string
}

// validTransitions is the authoritative lifecycle definition: a parcel only
// advances not_collected -> assigned -> in_transit -> delivered.
var validTransitions = []Transition{
	{From: models.DeliveryNotCollected, To: models.DeliveryAssigned},
	{From: models.DeliveryAssigned, To: models.DeliveryInTransit},
	{From: models.DeliveryInTransit, To: models.DeliveryDelivered},
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool)
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// IsStatus reports whether s is a known delivery status value.
func IsStatus(s string) bool {
	switch s {
	case models.DeliveryNotCollected, models.DeliveryAssigned,
		models.DeliveryInTransit, models.DeliveryDelivered:
		return true
	}
	return false
}

// NextFrom returns the valid next statuses from a given status
func NextFrom(status string) []string {
	var nexts []string
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks whether a parcel may move between two statuses.
// Every mutation path (status updates, rider assignment, generic PATCH)
// goes through this single validator.
func CanTransition(from, to string) error {
	if !IsStatus(to) {
		return fmt.Errorf("unknown delivery status %q", to)
	}
	if transitionMap[Transition{From: from, To: to}] {
		return nil
	}
	nexts := NextFrom(from)
	if len(nexts) == 0 {
		return fmt.Errorf("invalid transition: %s is a terminal status", from)
	}
	return fmt.Errorf("invalid transition %s -> %s, valid next: %v", from, to, nexts)
}
