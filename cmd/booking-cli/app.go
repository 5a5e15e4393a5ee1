package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/booking"
	"github.com/smarttransit/route-booking/internal/controller"
	"github.com/smarttransit/route-booking/internal/models"
)

// app is the terminal renderer over the controller. It never keeps booking
// state of its own.
type app struct {
	ctrl *controller.Controller
	in   *bufio.Reader
	out  io.Writer
}

func newApp(ctrl *controller.Controller, in *bufio.Reader, out io.Writer) *app {
	return &app{ctrl: ctrl, in: in, out: out}
}

func (a *app) run(ctx context.Context) error {
	user, err := a.ctrl.Start(ctx)
	if err != nil {
		a.notify(err)
	}
	if user != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.Name)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		a.printMenu()
		choice, ok := a.prompt("Select option: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			a.listRoutes()
		case "2":
			a.search(ctx)
		case "3":
			a.selectRoute(ctx)
		case "4":
			a.seatMap(ctx)
		case "5":
			a.toggleSeats()
		case "6":
			a.book(ctx)
		case "7":
			a.myBookings(ctx)
		case "8":
			a.cancelBooking(ctx)
		case "9":
			a.account(ctx)
		case "a":
			a.adminMenu(ctx)
		case "q", "0":
			fmt.Fprintln(a.out, "Bye")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option")
		}
		fmt.Fprintln(a.out)
	}
}

func (a *app) printMenu() {
	fmt.Fprintln(a.out, "==== Route Booking ====")
	if u := a.ctrl.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "Logged in as %s (%d bookings, %s spent)\n", u.Name, u.TotalBookings, formatMoney(u.TotalSpent))
	}
	sel := a.ctrl.Selection()
	if sel.Route != nil {
		fmt.Fprintf(a.out, "Route: %s  fare %s  seats [%s]  total %s\n",
			sel.Route.Info(), formatMoney(sel.Fare), strings.Join(sel.SeatIDs, ", "), formatMoney(sel.Total))
	}
	fmt.Fprintln(a.out, "1) List routes")
	fmt.Fprintln(a.out, "2) Search route")
	fmt.Fprintln(a.out, "3) Select route by id")
	fmt.Fprintln(a.out, "4) Show seat map")
	fmt.Fprintln(a.out, "5) Toggle seats")
	fmt.Fprintln(a.out, "6) Book selected seats")
	fmt.Fprintln(a.out, "7) My bookings")
	fmt.Fprintln(a.out, "8) Cancel a booking")
	fmt.Fprintln(a.out, "9) Register / login / logout")
	fmt.Fprintln(a.out, "a) Admin")
	fmt.Fprintln(a.out, "q) Exit")
}

func (a *app) listRoutes() {
	routes := a.ctrl.Routes()
	if len(routes) == 0 {
		fmt.Fprintln(a.out, "No routes available")
		return
	}
	fmt.Fprint(a.out, renderRoutes(routes))
	stats := a.ctrl.RouteStats()
	if stats.PricedRoutes > 0 {
		fmt.Fprintf(a.out, "%d routes, average ticket %s\n", stats.Routes, formatMoney(stats.AvgTicket))
	}
}

func (a *app) search(ctx context.Context) {
	from, _ := a.prompt("From: ")
	to, _ := a.prompt("To: ")

	result, err := a.ctrl.Search(ctx, from, to)
	if err != nil {
		a.notify(err)
		return
	}
	if result.Bookable() {
		r := result.Route
		fmt.Fprintf(a.out, "Direct route #%d %s, %.0f km, fare %s\n", r.ID, r.Info(), r.Distance, formatMoney(r.Fare()))
		a.seatMap(ctx)
		return
	}
	j := result.Journey
	fmt.Fprintf(a.out, "No direct route. Suggested path: %s\n", j.PathString())
	fmt.Fprintf(a.out, "%.0f km, about %s, estimated fare %s\n", j.Distance, j.Duration(), formatMoney(j.Fare))
	fmt.Fprintln(a.out, "Book each leg separately from the route list.")
}

func (a *app) selectRoute(ctx context.Context) {
	raw, _ := a.prompt("Route id: ")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Route id must be a number")
		return
	}
	if _, err := a.ctrl.SelectRoute(id); err != nil {
		a.notify(err)
		return
	}
	a.seatMap(ctx)
}

func (a *app) seatMap(ctx context.Context) {
	seatMap, err := a.ctrl.LoadSeats(ctx)
	if err != nil {
		a.notify(err)
		return
	}
	if seatMap.Synthesized {
		fmt.Fprintln(a.out, "(seat records unavailable, showing default layout)")
	}
	fmt.Fprint(a.out, renderSeatMap(seatMap.Seats, seatMap.Selected))
	if len(seatMap.Dropped) > 0 {
		fmt.Fprintf(a.out, "No longer available and removed from your selection: %s\n", strings.Join(seatMap.Dropped, ", "))
	}
	if stats, err := a.ctrl.SeatStats(ctx); err == nil {
		fmt.Fprintf(a.out, "%d available, %d booked, %d reserved of %d\n", stats.Available, stats.Booked, stats.Reserved, stats.Total)
	}
}

func (a *app) toggleSeats() {
	raw, _ := a.prompt("Seat ids (e.g. S1 S3): ")
	for _, id := range strings.Fields(strings.ReplaceAll(raw, ",", " ")) {
		id = strings.ToUpper(id)
		if _, err := a.ctrl.ToggleSeat(id); err != nil {
			if errors.Is(err, booking.ErrInvalidSelection) {
				fmt.Fprintf(a.out, "%s is not available\n", id)
				continue
			}
			a.notify(err)
			return
		}
	}
	sel := a.ctrl.Selection()
	fmt.Fprintf(a.out, "Selected [%s], total %s\n", strings.Join(sel.SeatIDs, ", "), formatMoney(sel.Total))
}

func (a *app) book(ctx context.Context) {
	outcome, err := a.ctrl.Book(ctx)
	if err != nil {
		a.notify(err)
		return
	}
	fmt.Fprintf(a.out, "Booking confirmed: %s, seats %s, total %s\n",
		outcome.BookingID, strings.Join(outcome.SeatIDs, ", "), formatMoney(outcome.Total))
	if outcome.Stale {
		fmt.Fprintln(a.out, "(you changed route while booking; your new selection was kept)")
	}
}

func (a *app) myBookings(ctx context.Context) {
	bookings, err := a.ctrl.MyBookings(ctx)
	if err != nil {
		a.notify(err)
		return
	}
	if len(bookings) == 0 {
		fmt.Fprintln(a.out, "No bookings yet")
		return
	}
	fmt.Fprint(a.out, renderBookings(bookings))
}

func (a *app) cancelBooking(ctx context.Context) {
	id, _ := a.prompt("Booking id: ")
	if err := a.ctrl.CancelBooking(ctx, id); err != nil {
		a.notify(err)
		return
	}
	fmt.Fprintln(a.out, "Booking cancelled")
}

func (a *app) account(ctx context.Context) {
	if u := a.ctrl.CurrentUser(); u != nil {
		answer, _ := a.prompt(fmt.Sprintf("Log out %s? [y/N]: ", u.Name))
		if strings.EqualFold(answer, "y") {
			if err := a.ctrl.Logout(); err != nil {
				a.notify(err)
				return
			}
			fmt.Fprintln(a.out, "Logged out")
		}
		return
	}

	answer, _ := a.prompt("Existing user id (blank to register): ")
	if answer != "" {
		user, err := a.ctrl.Login(ctx, answer)
		if err != nil {
			a.notify(err)
			return
		}
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.Name)
		return
	}

	name, _ := a.prompt("Name: ")
	email, _ := a.prompt("Email: ")
	user, err := a.ctrl.Register(ctx, name, email)
	if err != nil {
		a.notify(err)
		return
	}
	fmt.Fprintf(a.out, "Registered %s, your user id is %s\n", user.Name, user.UserID)
}

func (a *app) adminMenu(ctx context.Context) {
	if !a.ctrl.IsAdmin() {
		password, _ := a.prompt("Admin password: ")
		if err := a.ctrl.AdminLogin(ctx, password); err != nil {
			a.notify(err)
			return
		}
	}

	fmt.Fprintln(a.out, "1) Add route  2) Remove route  3) All bookings  4) All users  5) Admin logout")
	choice, _ := a.prompt("Admin option: ")
	switch choice {
	case "1":
		a.addRoute(ctx)
	case "2":
		raw, _ := a.prompt("Route id: ")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Fprintln(a.out, "Route id must be a number")
			return
		}
		if err := a.ctrl.RemoveRoute(ctx, id); err != nil {
			a.notify(err)
			return
		}
		fmt.Fprintln(a.out, "Route removed")
	case "3":
		bookings, err := a.ctrl.AdminBookings(ctx)
		if err != nil {
			a.notify(err)
			return
		}
		fmt.Fprint(a.out, renderBookings(bookings))
	case "4":
		users, err := a.ctrl.AdminUsers(ctx)
		if err != nil {
			a.notify(err)
			return
		}
		fmt.Fprint(a.out, renderUsers(users))
	case "5":
		if err := a.ctrl.AdminLogout(); err != nil {
			a.notify(err)
		}
	default:
		fmt.Fprintln(a.out, "Invalid option")
	}
}

func (a *app) addRoute(ctx context.Context) {
	from, _ := a.prompt("From: ")
	to, _ := a.prompt("To: ")
	rawDistance, _ := a.prompt("Distance (km): ")
	rawPrice, _ := a.prompt("Ticket price (blank for distance based): ")

	distance, err := strconv.ParseFloat(rawDistance, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Distance must be a number")
		return
	}
	req := models.AddRouteRequest{From: from, To: to, Distance: distance, Coords: models.Coordinates{}}
	if rawPrice != "" {
		p, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			fmt.Fprintln(a.out, "Ticket price must be a number")
			return
		}
		req.TicketPrice = &p
	}

	id, err := a.ctrl.AddRoute(ctx, req)
	if err != nil {
		a.notify(err)
		return
	}
	fmt.Fprintf(a.out, "Route #%d added\n", id)
}

// notify renders an error as a user-facing message
func (a *app) notify(err error) {
	var (
		vErr     *booking.ValidationError
		rejected *booking.RejectedError
		netErr   *apiclient.NetworkError
		apiErr   *apiclient.APIError
	)
	switch {
	case errors.As(err, &vErr):
		fmt.Fprintf(a.out, "! %s\n", vErr.Msg)
	case errors.As(err, &rejected):
		fmt.Fprintf(a.out, "! Booking failed: %s\n", rejected.Message)
	case errors.As(err, &netErr):
		fmt.Fprintln(a.out, "! Could not reach the booking service, please try again")
	case errors.Is(err, controller.ErrStaleResponse):
		fmt.Fprintln(a.out, "! Route changed, please retry")
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "! %s\n", apiErr.Message)
	default:
		fmt.Fprintf(a.out, "! %v\n", err)
	}
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
