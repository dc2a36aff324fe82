package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sergey-oreshkin/shareit/internal/api"
	"github.com/sergey-oreshkin/shareit/internal/auth"
	"github.com/sergey-oreshkin/shareit/internal/booking"
	"github.com/sergey-oreshkin/shareit/internal/item"
	"github.com/sergey-oreshkin/shareit/internal/pkg/clock"
	"github.com/sergey-oreshkin/shareit/internal/pkg/metrics"
	"github.com/sergey-oreshkin/shareit/internal/request"
	"github.com/sergey-oreshkin/shareit/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *zap.Logger
	Clock        clock.Clock
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}

	metrics.Register()

	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User module. The service doubles as the user directory for the other
	// modules via its Exists method.
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Booking repository is shared with the item module's booking directory.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Item module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, &bookingDirectory{repo: bookingRepo}, userService, cfg.Clock)

	// Request module
	requestRepo := request.NewPgxRepository(cfg.DBPool)
	requestService := request.NewService(requestRepo, userService)

	// Booking module
	bookingService := booking.NewService(bookingRepo, &itemDirectory{items: itemService}, userService, cfg.Clock)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
		JWTManager:     jwtManager,
		Logger:         cfg.Logger,
		Clock:          cfg.Clock,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}

// itemDirectory bridges the item service into the booking module's view of items.
type itemDirectory struct {
	items item.Service
}

func (d *itemDirectory) Get(ctx context.Context, id int64) (*booking.ItemInfo, error) {
	// Actor id 0 is a system lookup: never the owner, so no owner-only
	// booking data gets attached.
	it, err := d.items.GetByID(ctx, 0, id)
	if err != nil {
		return nil, err
	}
	return &booking.ItemInfo{
		ID:        it.ID,
		Name:      it.Name,
		OwnerID:   it.OwnerID,
		Available: it.Available,
	}, nil
}

func (d *itemDirectory) ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	return d.items.ListIDsByOwner(ctx, ownerID)
}

// bookingDirectory bridges the booking store into the item module: last/next
// bookings for owner views and the finished-booking gate for comments.
type bookingDirectory struct {
	repo booking.Repository
}

func (d *bookingDirectory) LastAndNext(ctx context.Context, itemID int64, now time.Time) (*item.BookingRef, *item.BookingRef, error) {
	bookings, err := d.repo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	last, next := booking.LastAndNext(bookings, now)
	return toBookingRef(last), toBookingRef(next), nil
}

func (d *bookingDirectory) HasFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	return d.repo.HasFinished(ctx, bookerID, itemID, now)
}

func toBookingRef(b *booking.Booking) *item.BookingRef {
	if b == nil {
		return nil
	}
	return &item.BookingRef{
		ID:        b.ID,
		BookerID:  b.BookerID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
