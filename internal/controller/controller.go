package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/booking"
	"github.com/smarttransit/route-booking/internal/catalog"
	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/internal/session"
)

var (
	// ErrRouteNotFound is returned when a route id or city pair is unknown
	ErrRouteNotFound = errors.New("route not found")

	// ErrStaleResponse is returned when a response arrives for a route that
	// is no longer selected. Its effect has been discarded.
	ErrStaleResponse = errors.New("response discarded: route selection changed")
)

// API is the subset of the backend the controller drives
type API interface {
	catalog.RouteLister
	booking.SeatBooker

	FindRoute(ctx context.Context, from, to string) (*models.Journey, error)
	GetSeats(ctx context.Context, routeID int64) ([]models.Seat, error)
	GetSeatStats(ctx context.Context, routeID int64) (*models.SeatStats, error)

	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) error

	AdminLogin(ctx context.Context, password string) (*models.AdminLoginResponse, error)
	AddRoute(ctx context.Context, creds apiclient.AdminCredentials, req models.AddRouteRequest) (int64, error)
	RemoveRoute(ctx context.Context, creds apiclient.AdminCredentials, routeID int64) error
	ListBookings(ctx context.Context, creds apiclient.AdminCredentials) ([]models.Booking, error)
	ListUsers(ctx context.Context, creds apiclient.AdminCredentials) ([]models.User, error)
}

// Options configures a Controller
type Options struct {
	API          API
	UserStorage  session.Storage // persistent
	AdminStorage session.Storage // session-scoped
	Logger       logrus.FieldLogger
	SeatCount    int           // seats synthesized when the backend has none
	NewUserID    func() string // defaults to a random UUID
}

// Controller is the single owner of the booking session, the route catalog
// and the user and admin sessions. Renderers call its methods and display
// the results or errors; no state lives outside it.
type Controller struct {
	api       API
	logger    logrus.FieldLogger
	users     *session.Store
	admin     *session.AdminSession
	routes    *catalog.Catalog
	booking   *booking.Session
	submitter *booking.Submitter
	seatCount int
	newUserID func() string
}

// New creates a controller
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if opts.UserStorage == nil {
		opts.UserStorage = session.NewMemoryStorage()
	}
	if opts.AdminStorage == nil {
		opts.AdminStorage = session.NewMemoryStorage()
	}
	if opts.SeatCount <= 0 {
		opts.SeatCount = models.DefaultSeatCount
	}
	if opts.NewUserID == nil {
		opts.NewUserID = func() string { return uuid.New().String() }
	}

	return &Controller{
		api:       opts.API,
		logger:    logger,
		users:     session.NewStore(opts.UserStorage, logger.WithField("component", "session")),
		admin:     session.NewAdminSession(opts.AdminStorage),
		routes:    catalog.New(opts.API, logger.WithField("component", "catalog")),
		booking:   booking.NewSession(),
		submitter: booking.NewSubmitter(opts.API, logger.WithField("component", "submitter")),
		seatCount: opts.SeatCount,
		newUserID: opts.NewUserID,
	}
}

// Start restores the stored user and loads the route catalog. The user is
// returned even when the catalog load fails.
func (c *Controller) Start(ctx context.Context) (*models.User, error) {
	user, _ := c.users.Load()
	if err := c.routes.Refresh(ctx); err != nil {
		return user, err
	}
	return user, nil
}

// Register creates (or looks up) a backend user and makes it the current user
func (c *Controller) Register(ctx context.Context, name, email string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" {
		return nil, &booking.ValidationError{Field: "name", Msg: "name is required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &booking.ValidationError{Field: "email", Msg: "a valid email is required"}
	}

	user, err := c.api.CreateUser(ctx, models.CreateUserRequest{
		UserID: c.newUserID(),
		Name:   name,
		Email:  email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	if err := c.users.Save(*user); err != nil {
		return nil, err
	}

	c.logger.WithField("user_id", user.UserID).Info("User registered")
	return user, nil
}

// Login restores an existing backend user by id
func (c *Controller) Login(ctx context.Context, userID string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &booking.ValidationError{Field: "userID", Msg: "user id is required"}
	}

	user, err := c.api.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if err := c.users.Save(*user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout forgets the current user and the in-progress booking
func (c *Controller) Logout() error {
	c.booking.Clear()
	return c.users.Clear()
}

// CurrentUser returns the logged in user, or nil
func (c *Controller) CurrentUser() *models.User {
	return c.users.Current()
}

// RefreshUser reloads the current user's totals from the backend
func (c *Controller) RefreshUser(ctx context.Context) (*models.User, error) {
	current := c.users.Current()
	if current == nil {
		return nil, errNotLoggedIn()
	}

	user, err := c.api.GetUser(ctx, current.UserID)
	if err != nil {
		return current, fmt.Errorf("failed to refresh user: %w", err)
	}
	if !user.Valid() {
		// older backends omit identity fields on lookup
		user.UserID, user.Name, user.Email = current.UserID, current.Name, current.Email
	}
	if err := c.users.Save(*user); err != nil {
		return current, err
	}
	return user, nil
}

func errNotLoggedIn() error {
	return &booking.ValidationError{Field: "user", Msg: "please log in first"}
}
