package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itemshare/backend/internal/api"
	"github.com/itemshare/backend/internal/booking"
	"github.com/itemshare/backend/internal/item"
	"github.com/itemshare/backend/internal/pkg/clock"
	"github.com/itemshare/backend/internal/request"
	"github.com/itemshare/backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := clock.System()

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Booking repository comes first: the item module consumes its summaries.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, booking.NewSummaryProvider(bookingRepo), clk)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, itemService, userService, clk)

	// Request Module
	requestRepo := request.NewPgxRepository(cfg.DBPool)
	requestService := request.NewService(requestRepo, itemService, userService, clk)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		RequestService: requestService,
	})

	return &Container{Router: router}
}
