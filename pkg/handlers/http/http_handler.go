package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Analysis
	AnalyzeHandler           Handler
	ListDetectionsHandler    Handler
	GetDetectionHandler      Handler
	GetDetectionStatsHandler Handler

	// Devices
	ListDevicesHandler  Handler
	CreateDeviceHandler Handler
	GetDeviceHandler    Handler

	// Federated learning
	ListRoundsHandler     Handler
	GetLatestRoundHandler Handler
	GetModelHandler       Handler

	// Platform
	HealthHandler     Handler
	GetVersionHandler Handler
}
