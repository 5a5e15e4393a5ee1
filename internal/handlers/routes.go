package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers served under /api
type Handlers struct {
	Routes   *RouteHandler
	Seats    *SeatHandler
	Bookings *BookingHandler
	Users    *UserHandler
	Admin    *AdminHandler
}

// Register mounts the booking API on group. adminAuth guards the admin
// endpoints.
func (h *Handlers) Register(api *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	api.GET("/listRoutes", h.Routes.ListRoutes)
	api.POST("/findRoute", h.Routes.FindRoute)

	api.GET("/getSeats/:routeID", h.Seats.GetSeats)
	api.GET("/getSeatStats/:routeID", h.Seats.GetSeatStats)
	api.GET("/getAvailableSeats/:routeID", h.Seats.GetAvailableSeats)
	api.GET("/getBookedSeats", h.Seats.GetBookedSeats)
	api.POST("/initSeats", h.Seats.InitSeats)
	api.POST("/reserveSeat", h.Seats.ReserveSeat)
	api.POST("/releaseSeat", h.Seats.ReleaseSeat)

	api.POST("/bookSeats", h.Bookings.BookSeats)
	api.POST("/book", h.Bookings.Book)
	api.POST("/cancelBooking", h.Bookings.CancelBooking)
	api.GET("/getBooking/:bookingID", h.Bookings.GetBooking)
	api.GET("/getUserBookings/:userID", h.Bookings.GetUserBookings)

	api.POST("/createUser", h.Users.CreateUser)
	api.GET("/getUser/:userID", h.Users.GetUser)
	api.POST("/updateUser", h.Users.UpdateUser)

	api.POST("/adminLogin", h.Admin.Login)

	admin := api.Group("")
	admin.Use(adminAuth)
	{
		admin.POST("/addRoute", h.Routes.AddRoute)
		admin.POST("/removeRoute", h.Routes.RemoveRoute)
		admin.GET("/listUsers", h.Users.ListUsers)
		admin.GET("/listBookings", h.Bookings.ListBookings)
	}
}
