package domain

import "fmt"

// GroupKeyKind identifies how a reservation group was correlated
type GroupKeyKind string

const (
	// GroupKeyOrder groups by an explicit order number (authoritative)
	GroupKeyOrder GroupKeyKind = "order"
	// GroupKeyPackage groups by the (packageTourId, customerName,
	// customerPhone) tuple - heuristic fallback for manual package bookings
	GroupKeyPackage GroupKeyKind = "package"
	// GroupKeyNone marks a standalone reservation without any group key
	GroupKeyNone GroupKeyKind = "none"
)

// GroupKey is the correlation key of a logical booking
type GroupKey struct {
	Kind  GroupKeyKind
	Value string
}

// ReservationGroup is one logical booking: all reservation rows sharing a
// group key, folded together for display and group-wide cancellation
type ReservationGroup struct {
	Key     GroupKey
	Members []*Reservation
}

// TotalQuantity returns the combined headcount of the group
func (g *ReservationGroup) TotalQuantity() int {
	total := 0
	for _, r := range g.Members {
		total += r.Quantity
	}
	return total
}

// IsStandalone returns true for groups of a single reservation
func (g *ReservationGroup) IsStandalone() bool {
	return len(g.Members) == 1
}

// GroupKeyOf derives the group key of a reservation.
// Precedence: explicit order number, then the package+customer tuple,
// then no key at all
func GroupKeyOf(r *Reservation) GroupKey {
	if r.OrderNumber != nil && *r.OrderNumber != "" {
		return GroupKey{Kind: GroupKeyOrder, Value: *r.OrderNumber}
	}
	if r.PackageTourID != nil {
		name, phone := "", ""
		if r.CustomerName != nil {
			name = *r.CustomerName
		}
		if r.CustomerPhone != nil {
			phone = *r.CustomerPhone
		}
		return GroupKey{
			Kind:  GroupKeyPackage,
			Value: fmt.Sprintf("%d|%s|%s", *r.PackageTourID, name, phone),
		}
	}
	return GroupKey{Kind: GroupKeyNone, Value: fmt.Sprintf("reservation:%d", r.ID)}
}
