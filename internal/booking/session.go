package booking

import (
	"sync"

	"github.com/smarttransit/route-booking/internal/models"
)

// Session is the in-progress ticket purchase: the bound route, its fare, the
// ordered seat selection and the last seat map fetched for the route.
//
// A non-empty selection always has a bound route. Every change of route
// (BindRoute or Clear) advances the generation so that responses to requests
// issued for an earlier route can be recognized and discarded.
type Session struct {
	mu         sync.RWMutex
	route      *models.Route
	fare       float64
	selected   []string
	seats      []models.Seat
	seatIndex  map[string]models.SeatStatus
	generation uint64
}

// Snapshot is an immutable copy of the session state
type Snapshot struct {
	Route      *models.Route
	Fare       float64
	SeatIDs    []string
	Total      float64
	Generation uint64
}

// NewSession creates an empty session with no bound route
func NewSession() *Session {
	return &Session{}
}

// BindRoute makes route the current route, computes its fare and resets the
// selection and seat map. Rebinding the route already bound also resets.
func (s *Session) BindRoute(route models.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := route
	s.route = &r
	s.fare = r.Fare()
	s.selected = nil
	s.seats = nil
	s.seatIndex = nil
	s.generation++
}

// Clear unbinds the route and drops the selection in one step
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = nil
	s.fare = 0
	s.selected = nil
	s.seats = nil
	s.seatIndex = nil
	s.generation++
}

// Route returns a copy of the bound route
func (s *Session) Route() (models.Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.route == nil {
		return models.Route{}, false
	}
	return *s.route, true
}

// Fare returns the per-seat price of the bound route, zero when unbound
func (s *Session) Fare() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fare
}

// ToggleSeat adds seatID to the selection, or removes it if already selected.
// Booked and Reserved seats are refused with ErrInvalidSelection, as are seats
// that the last fetched seat map shows as taken or does not list.
func (s *Session) ToggleSeat(seatID string, status models.SeatStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.route == nil {
		return false, &ValidationError{Field: "route", Msg: "select a route before choosing seats"}
	}
	if seatID == "" {
		return false, &ValidationError{Field: "seat", Msg: "seat id is required"}
	}
	if !status.Selectable() {
		return false, ErrInvalidSelection
	}
	if s.seatIndex != nil {
		known, ok := s.seatIndex[seatID]
		if !ok || !known.Selectable() {
			return false, ErrInvalidSelection
		}
	}

	for i, id := range s.selected {
		if id == seatID {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return false, nil
		}
	}
	s.selected = append(s.selected, seatID)
	return true, nil
}

// ReconcileSeats records snapshot as the current seat map and drops every
// selected seat that is not Available in it, including seats it no longer
// lists. The dropped ids are returned in selection order.
func (s *Session) ReconcileSeats(snapshot []models.Seat) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]models.SeatStatus, len(snapshot))
	for _, seat := range snapshot {
		index[seat.SeatID] = seat.Status
	}
	s.seats = append([]models.Seat(nil), snapshot...)
	s.seatIndex = index

	var kept, dropped []string
	for _, id := range s.selected {
		if status, ok := index[id]; ok && status.Selectable() {
			kept = append(kept, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	s.selected = kept
	return dropped
}

// ComputeTotal returns fare times the number of selected seats
func (s *Session) ComputeTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalLocked()
}

func (s *Session) totalLocked() float64 {
	if s.route == nil || len(s.selected) == 0 {
		return 0
	}
	return s.fare * float64(len(s.selected))
}

// Selected returns the selected seat ids in the order they were chosen
func (s *Session) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.selected...)
}

// IsSelected reports whether seatID is in the selection
func (s *Session) IsSelected(seatID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.selected {
		if id == seatID {
			return true
		}
	}
	return false
}

// Seats returns the last seat map passed to ReconcileSeats
func (s *Session) Seats() []models.Seat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Seat(nil), s.seats...)
}

// SeatStatus looks a seat up in the last seat map
func (s *Session) SeatStatus(seatID string) (models.SeatStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.seatIndex[seatID]
	return status, ok
}

// Generation identifies the current route binding
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// IsCurrent reports whether gen still identifies the current route binding
func (s *Session) IsCurrent(gen uint64) bool {
	return s.Generation() == gen
}

// Snapshot returns a consistent copy of the session state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Fare:       s.fare,
		SeatIDs:    append([]string(nil), s.selected...),
		Total:      s.totalLocked(),
		Generation: s.generation,
	}
	if s.route != nil {
		r := *s.route
		snap.Route = &r
	}
	return snap
}
