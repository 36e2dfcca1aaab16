package server

import (
	"fmt"

	handlers "github.com/VigilNet/FedWatch/pkg/handlers/http"
	wsHandlers "github.com/VigilNet/FedWatch/pkg/handlers/websocket"
	"github.com/VigilNet/FedWatch/pkg/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/VigilNet/FedWatch/pkg/config"
)

type (
	DashboardServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		WebsocketTransport  wsHandlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	// DashboardServer is the public surface: REST API, health, version and
	// the live events WebSocket.
	DashboardServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
		websocketTransport  wsHandlers.HandlerTransport
	}
)

func NewDashboardServer(di DashboardServerDI) *DashboardServer {
	return &DashboardServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
		websocketTransport:  di.WebsocketTransport,
	}
}

func (s *DashboardServer) Run() error {
	s.setupRoutes()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting dashboard server")
	return s.Router.Listen(addr)
}

func (s *DashboardServer) Shutdown() error {
	return s.Router.Shutdown()
}

func (s *DashboardServer) setupRoutes() {
	s.Router.Use(s.middlewareTransport.RecoverMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.CORSMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.MetricsMiddleware.Middleware())

	s.Router.Get("/health", s.handlerTransport.HealthHandler.Handle)
	s.Router.Get("/version", s.handlerTransport.GetVersionHandler.Handle)

	s.addAPIRoutes(s.Router.Group(""))
	s.addWebsocketRoutes()
}

func (s *DashboardServer) addAPIRoutes(router fiber.Router) {
	auth := s.middlewareTransport.AuthMiddleware.Middleware()

	v1 := router.Group("/api/v1")
	{
		v1.Post("/analyze", auth, s.handlerTransport.AnalyzeHandler.Handle)

		detections := v1.Group("/detections")
		{
			detections.Get("", s.handlerTransport.ListDetectionsHandler.Handle)
			// Static route first so "stats" is never parsed as a detection id.
			detections.Get("/stats", s.handlerTransport.GetDetectionStatsHandler.Handle)
			detections.Get("/:detection_id", s.handlerTransport.GetDetectionHandler.Handle)
		}

		devices := v1.Group("/devices")
		{
			devices.Get("", s.handlerTransport.ListDevicesHandler.Handle)
			devices.Post("", auth, s.handlerTransport.CreateDeviceHandler.Handle)
			devices.Get("/:device_id", s.handlerTransport.GetDeviceHandler.Handle)
		}

		rounds := v1.Group("/rounds")
		{
			rounds.Get("", s.handlerTransport.ListRoundsHandler.Handle)
			rounds.Get("/latest", s.handlerTransport.GetLatestRoundHandler.Handle)
		}

		v1.Get("/model", s.handlerTransport.GetModelHandler.Handle)
	}
}

func (s *DashboardServer) addWebsocketRoutes() {
	s.Router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.Router.Get("/ws/events", websocket.New(s.websocketTransport.EventsHandler.Handle))
}
