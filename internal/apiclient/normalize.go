package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smarttransit/route-booking/internal/models"
)

// The backend has shipped several response shapes for the same concepts over
// time. The raw* types below accept every known alias; the normalize* funcs
// collapse them into the internal models so nothing past this file has to
// care which revision of the backend answered.

// flexString decodes a JSON string or number into its textual form
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat decodes a number, a numeric string, "" or null. Set is false for
// the empty forms so optional prices stay absent.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = flexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", string(s), err)
	}
	*f = flexFloat{Value: v, Set: true}
	return nil
}

func (f flexFloat) orElse(other flexFloat) flexFloat {
	if f.Set {
		return f
	}
	return other
}

// flexInt decodes an integer given as a number or numeric string
type flexInt struct {
	Value int64
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var v flexFloat
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexInt{Value: int64(v.Value), Set: v.Set}
	return nil
}

func (f flexInt) orElse(other flexInt) flexInt {
	if f.Set {
		return f
	}
	return other
}

// flexSeats decodes either a list of seat ids or a plain seat count
type flexSeats struct {
	IDs   []string
	Count int
}

func (f *flexSeats) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var ids []flexString
		if err := json.Unmarshal(b, &ids); err != nil {
			return err
		}
		f.IDs = make([]string, 0, len(ids))
		for _, id := range ids {
			f.IDs = append(f.IDs, string(id))
		}
		f.Count = len(f.IDs)
		return nil
	}
	var n flexInt
	if err := n.UnmarshalJSON(b); err != nil {
		return err
	}
	f.Count = int(n.Value)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime decodes RFC3339, naive ISO timestamps and unix seconds
type flexTime struct {
	Value time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if secs, err := strconv.ParseFloat(string(s), 64); err == nil {
		f.Value = time.Unix(int64(secs), 0).UTC()
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, string(s)); err == nil {
			f.Value = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", string(s))
}

// flexCoords accepts a coordinate array or the same array encoded as a string
type flexCoords models.Coordinates

func (f *flexCoords) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexCoords{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*f = flexCoords{}
			return nil
		}
		b = []byte(s)
	}
	var coords models.Coordinates
	if err := json.Unmarshal(b, &coords); err != nil {
		return err
	}
	*f = flexCoords(coords)
	return nil
}

type rawRoute struct {
	ID          flexInt    `json:"id"`
	RouteID     flexInt    `json:"route_id"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	Distance    flexFloat  `json:"distance"`
	TicketPrice flexFloat  `json:"ticket_price"`
	Price       flexFloat  `json:"price"`
	Coords      flexCoords `json:"coords"`
}

func normalizeRoute(r rawRoute) models.Route {
	route := models.Route{
		ID:       r.ID.orElse(r.RouteID).Value,
		From:     strings.TrimSpace(r.From),
		To:       strings.TrimSpace(r.To),
		Distance: r.Distance.Value,
		Coords:   models.Coordinates(r.Coords),
	}
	if route.Coords == nil {
		route.Coords = models.Coordinates{}
	}
	if price := r.TicketPrice.orElse(r.Price); price.Set && price.Value > 0 {
		v := price.Value
		route.TicketPrice = &v
	}
	return route
}

type rawSeat struct {
	SeatID    flexString `json:"seatID"`
	SeatIDAlt flexString `json:"seat_id"`
	ID        flexString `json:"id"`
	Status    string     `json:"status"`
}

// normalizeSeat maps a seat record. A missing or unrecognized status makes the
// seat Booked so it can never be selected; known reports whether the status
// was recognized.
func normalizeSeat(r rawSeat) (seat models.Seat, known bool, err error) {
	id := firstNonEmpty(string(r.SeatID), string(r.SeatIDAlt), string(r.ID))
	if id == "" {
		return models.Seat{}, false, fmt.Errorf("seat record without id")
	}
	status, err := models.ParseSeatStatus(r.Status)
	if err != nil {
		return models.Seat{SeatID: id, Status: models.SeatStatusBooked}, false, nil
	}
	return models.Seat{SeatID: id, Status: status}, true, nil
}

type rawUser struct {
	UserID           flexString `json:"userID"`
	UserIDAlt        flexString `json:"user_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	TotalBookings    flexInt    `json:"totalBookings"`
	TotalBookingsAlt flexInt    `json:"total_bookings"`
	TotalSpent       flexFloat  `json:"totalSpent"`
	TotalSpentAlt    flexFloat  `json:"total_spent"`
}

func normalizeUser(r rawUser) models.User {
	return models.User{
		UserID:        firstNonEmpty(string(r.UserID), string(r.UserIDAlt)),
		Name:          r.Name,
		Email:         r.Email,
		TotalBookings: int(r.TotalBookings.orElse(r.TotalBookingsAlt).Value),
		TotalSpent:    r.TotalSpent.orElse(r.TotalSpentAlt).Value,
	}
}

type rawBooking struct {
	BookingID    flexString `json:"bookingID"`
	BookingIDAlt flexString `json:"booking_id"`
	ID           flexString `json:"id"`
	RouteID      flexInt    `json:"routeID"`
	RouteIDAlt   flexInt    `json:"route_id"`
	RouteInfo    string     `json:"route_info"`
	RouteInfoAlt string     `json:"routeInfo"`
	Route        string     `json:"route"`
	UserID       flexString `json:"userID"`
	UserIDAlt    flexString `json:"user_id"`
	UserName     string     `json:"user_name"`
	SeatIDs      flexSeats  `json:"seatIDs"`
	Seats        flexSeats  `json:"seats"`
	SeatsBooked  flexInt    `json:"seats_booked"`
	TotalPrice   flexFloat  `json:"totalPrice"`
	TotalAlt     flexFloat  `json:"total_price"`
	Price        flexFloat  `json:"price"`
	Timestamp    flexTime   `json:"timestamp"`
	BookedAt     flexTime   `json:"booked_at"`
	CreatedAt    flexTime   `json:"created_at"`
	Status       string     `json:"status"`
}

func normalizeBooking(r rawBooking) models.Booking {
	b := models.Booking{
		BookingID:  firstNonEmpty(string(r.BookingID), string(r.BookingIDAlt), string(r.ID)),
		RouteID:    r.RouteID.orElse(r.RouteIDAlt).Value,
		RouteInfo:  firstNonEmpty(r.RouteInfo, r.RouteInfoAlt, r.Route),
		UserID:     firstNonEmpty(string(r.UserID), string(r.UserIDAlt), r.UserName),
		TotalPrice: r.TotalPrice.orElse(r.TotalAlt).orElse(r.Price).Value,
		Status:     models.BookingStatusActive,
	}

	switch {
	case len(r.SeatIDs.IDs) > 0:
		b.SeatIDs = models.SeatIDArray(r.SeatIDs.IDs)
	case len(r.Seats.IDs) > 0:
		b.SeatIDs = models.SeatIDArray(r.Seats.IDs)
	default:
		b.SeatIDs = models.SeatIDArray{}
	}

	b.SeatCount = len(b.SeatIDs)
	if b.SeatCount == 0 {
		switch {
		case r.SeatsBooked.Set:
			b.SeatCount = int(r.SeatsBooked.Value)
		case r.Seats.Count > 0:
			b.SeatCount = r.Seats.Count
		}
	}

	for _, ts := range []flexTime{r.Timestamp, r.BookedAt, r.CreatedAt} {
		if !ts.Value.IsZero() {
			b.Timestamp = ts.Value
			break
		}
	}

	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "cancelled", "canceled":
		b.Status = models.BookingStatusCancelled
	}
	return b
}

type rawStats struct {
	Total     flexInt `json:"total"`
	Available flexInt `json:"available"`
	Booked    flexInt `json:"booked"`
	Reserved  flexInt `json:"reserved"`
}

func normalizeStats(r rawStats) models.SeatStats {
	return models.SeatStats{
		Total:     int(r.Total.Value),
		Available: int(r.Available.Value),
		Booked:    int(r.Booked.Value),
		Reserved:  int(r.Reserved.Value),
	}
}

type rawJourney struct {
	Path     []string   `json:"path"`
	Distance flexFloat  `json:"distance"`
	Time     flexFloat  `json:"time"`
	Fare     flexFloat  `json:"fare"`
	Coords   flexCoords `json:"coords"`
	RouteID  flexInt    `json:"route_id"`
	Error    string     `json:"error"`
}

func normalizeJourney(r rawJourney) models.Journey {
	j := models.Journey{
		Path:     r.Path,
		Distance: r.Distance.Value,
		Time:     r.Time.Value,
		Fare:     r.Fare.Value,
		Coords:   models.Coordinates(r.Coords),
		RouteID:  r.RouteID.Value,
	}
	if j.Coords == nil {
		j.Coords = models.Coordinates{}
	}
	return j
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
