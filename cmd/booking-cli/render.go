package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/smarttransit/route-booking/internal/models"
)

const seatsPerRow = 4

// formatMoney keeps consistent decimal formatting for prices
func formatMoney(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

func renderRoutes(routes []models.Route) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tTO\tDISTANCE\tFARE")
	for _, r := range routes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f km\t%s\n", r.ID, r.From, r.To, r.Distance, formatMoney(r.Fare()))
	}
	w.Flush()
	return b.String()
}

// renderSeatMap draws seats four to a row with an aisle in the middle:
// [S1] free, [*S2] selected, [xS3] booked, [~S4] reserved
func renderSeatMap(seats []models.Seat, selected []string) string {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}

	var b strings.Builder
	for i, seat := range seats {
		mark := " "
		switch {
		case chosen[seat.SeatID]:
			mark = "*"
		case seat.Status == models.SeatStatusBooked:
			mark = "x"
		case seat.Status == models.SeatStatusReserved:
			mark = "~"
		}
		fmt.Fprintf(&b, "[%s%-3s]", mark, seat.SeatID)

		switch {
		case (i+1)%seatsPerRow == 0 || i == len(seats)-1:
			b.WriteString("\n")
		case (i+1)%seatsPerRow == seatsPerRow/2:
			b.WriteString("   ")
		default:
			b.WriteString(" ")
		}
	}
	b.WriteString("* selected  x booked  ~ reserved\n")
	return b.String()
}

func renderBookings(bookings []models.Booking) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOOKING\tROUTE\tSEATS\tTOTAL\tDATE\tSTATUS")
	for _, bk := range bookings {
		seats := strings.Join(bk.SeatIDs, ",")
		if seats == "" {
			seats = fmt.Sprintf("%d seat(s)", bk.SeatCount)
		}
		date := "-"
		if !bk.Timestamp.IsZero() {
			date = bk.Timestamp.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", bk.BookingID, bk.RouteInfo, seats, formatMoney(bk.TotalPrice), date, bk.Status)
	}
	w.Flush()
	return b.String()
}

func renderUsers(users []models.User) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tNAME\tEMAIL\tBOOKINGS\tSPENT")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", u.UserID, u.Name, u.Email, u.TotalBookings, formatMoney(u.TotalSpent))
	}
	w.Flush()
	return b.String()
}
