// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bloodlink/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler        *handler.UserHandler
	DeviceHandler      *handler.DeviceHandler
	InventoryHandler   *handler.InventoryHandler
	WatchlistHandler   *handler.WatchlistHandler
	RequestHandler     *handler.RequestHandler
	AppointmentHandler *handler.AppointmentHandler
	DonationHandler    *handler.DonationHandler
	CampHandler        *handler.CampHandler
	ChatHandler        *handler.ChatHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler        *handler.UserHandler
	deviceHandler      *handler.DeviceHandler
	inventoryHandler   *handler.InventoryHandler
	watchlistHandler   *handler.WatchlistHandler
	requestHandler     *handler.RequestHandler
	appointmentHandler *handler.AppointmentHandler
	donationHandler    *handler.DonationHandler
	campHandler        *handler.CampHandler
	chatHandler        *handler.ChatHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:        params.UserHandler,
		deviceHandler:      params.DeviceHandler,
		inventoryHandler:   params.InventoryHandler,
		watchlistHandler:   params.WatchlistHandler,
		requestHandler:     params.RequestHandler,
		appointmentHandler: params.AppointmentHandler,
		donationHandler:    params.DonationHandler,
		campHandler:        params.CampHandler,
		chatHandler:        params.ChatHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	// Profiles, donor registry and devices
	usersGroup := apiV1.Group("/users")
	{
		usersGroup.POST("", r.userHandler.CreateProfile)
		usersGroup.GET("/:uid", r.userHandler.GetProfile)
		usersGroup.POST("/:uid/donor", r.userHandler.RegisterDonor)
		usersGroup.PUT("/:uid/eligibility", r.userHandler.UpdateEligibility)

		usersGroup.POST("/:uid/devices", r.deviceHandler.RegisterDevice)
		usersGroup.GET("/:uid/devices", r.deviceHandler.GetUserDevices)
		usersGroup.DELETE("/:uid/devices/:id", r.deviceHandler.DeactivateDevice)
		usersGroup.GET("/:uid/notification-permission", r.deviceHandler.GetPermission)
	}

	donorsGroup := apiV1.Group("/donors")
	{
		donorsGroup.GET("/search", r.userHandler.SearchDonors)
		donorsGroup.GET("/:uid/requests/stream", r.requestHandler.StreamDonorInbox)
		donorsGroup.GET("/:uid/appointments", r.appointmentHandler.ListDonorAppointments)
		donorsGroup.GET("/:uid/donations", r.donationHandler.ListHistory)
	}

	// Hospital inventory
	apiV1.POST("/hospitals", r.inventoryHandler.RegisterHospital)
	apiV1.PATCH("/hospitals/:id/stock", r.inventoryHandler.UpdateStock)
	apiV1.GET("/inventory", r.inventoryHandler.ListInventory)
	apiV1.GET("/inventory/stream", r.inventoryHandler.StreamInventory)

	// Seeker watchlist, matches and request history
	seekersGroup := apiV1.Group("/seekers")
	{
		seekersGroup.POST("/:uid/watchlist", r.watchlistHandler.AddEntry)
		seekersGroup.GET("/:uid/watchlist", r.watchlistHandler.ListEntries)
		seekersGroup.GET("/:uid/matches/stream", r.watchlistHandler.StreamMatches)
		seekersGroup.POST("/:uid/requests/fulfill", r.requestHandler.MarkAllFulfilled)
		seekersGroup.GET("/:uid/requests/stream", r.requestHandler.StreamSeekerRequests)
	}
	apiV1.DELETE("/watchlist/:id", r.watchlistHandler.RemoveEntry)

	// Blood requests
	requestsGroup := apiV1.Group("/requests")
	{
		requestsGroup.POST("", r.requestHandler.CreateRequest)
		requestsGroup.POST("/broadcast", r.requestHandler.Broadcast)
		requestsGroup.POST("/:id/respond", r.requestHandler.Respond)
		requestsGroup.POST("/:id/cancel", r.requestHandler.Cancel)
		requestsGroup.POST("/:id/archive", r.requestHandler.Archive)
	}

	// Appointments and donations
	appointmentsGroup := apiV1.Group("/appointments")
	{
		appointmentsGroup.POST("", r.appointmentHandler.Book)
		appointmentsGroup.POST("/:id/cancel", r.appointmentHandler.Cancel)
		appointmentsGroup.POST("/:id/no-show", r.appointmentHandler.MarkNoShow)
		appointmentsGroup.POST("/:id/complete", r.donationHandler.Complete)
	}

	venuesGroup := apiV1.Group("/venues")
	{
		venuesGroup.GET("", r.appointmentHandler.ListVenues)
		venuesGroup.GET("/:id/appointments", r.appointmentHandler.ListVenueAppointments)
		venuesGroup.GET("/:id/donations/export", r.donationHandler.ExportVenueDonations)
	}
	apiV1.POST("/certificates", r.donationHandler.GenerateCertificate)

	// Camps
	apiV1.POST("/camps", r.campHandler.CreateCamp)
	apiV1.GET("/camps", r.campHandler.ListCamps)

	// Intake chat
	chatGroup := apiV1.Group("/chat/sessions")
	{
		chatGroup.POST("", r.chatHandler.StartSession)
		chatGroup.GET("/:id", r.chatHandler.GetSession)
		chatGroup.POST("/:id/messages", r.chatHandler.SendMessage)
		chatGroup.GET("/:id/stream", r.chatHandler.StreamSession)
	}
}
