package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/VigilNet/FedWatch/pkg/app/analysis"
	"github.com/VigilNet/FedWatch/pkg/app/federation"
	"github.com/VigilNet/FedWatch/pkg/cache"
	"github.com/VigilNet/FedWatch/pkg/config"
	handlers "github.com/VigilNet/FedWatch/pkg/handlers/http"
	wsHandlers "github.com/VigilNet/FedWatch/pkg/handlers/websocket"
	"github.com/VigilNet/FedWatch/pkg/infra/broadcast"
	"github.com/VigilNet/FedWatch/pkg/infra/database"
	"github.com/VigilNet/FedWatch/pkg/infra/inference"
	infraJWT "github.com/VigilNet/FedWatch/pkg/infra/jwt"
	infraLogger "github.com/VigilNet/FedWatch/pkg/infra/logger"
	"github.com/VigilNet/FedWatch/pkg/infra/mqttuplink"
	"github.com/VigilNet/FedWatch/pkg/infra/objstore"
	"github.com/VigilNet/FedWatch/pkg/infra/prometheus"
	"github.com/VigilNet/FedWatch/pkg/infra/repository"
	infraWebsocket "github.com/VigilNet/FedWatch/pkg/infra/websocket"
	"github.com/VigilNet/FedWatch/pkg/middleware"
	"github.com/VigilNet/FedWatch/pkg/server"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Initialize()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheInstance, err := cache.NewCache(cfg.Redis)
	if err != nil {
		logger.Fatalf("failed to initialize cache: %v", err)
	}
	defer cacheInstance.Close()

	// repositories
	detectionRepository := repository.NewDetectionRepository(db.DB)
	deviceRepository := repository.NewDeviceRepository(db.DB)
	roundRepository := repository.NewRoundRepository(db.DB)

	// eventing
	publisher := broadcast.NewRedisEventPublisher(cacheInstance)
	listener := broadcast.NewRedisEventListener(logger, cacheInstance)

	// optional integrations
	var inferenceClient inference.Client
	if cfg.Inference.Endpoint != "" {
		inferenceClient = inference.NewClient(logger, cfg.Inference)
	}
	var mediaStore objstore.MediaStore
	if cfg.Storage.Enabled {
		store, err := objstore.NewMinioStore(logger, cfg.Storage)
		if err != nil {
			logger.Fatalf("failed to initialize object storage: %v", err)
		}
		mediaStore = store
	}
	var uplink mqttuplink.Uplink
	if cfg.MQTT.Enabled {
		uplink, err = mqttuplink.NewUplink(logger, cfg.MQTT)
		if err != nil {
			logger.Fatalf("failed to initialize mqtt uplink: %v", err)
		}
		defer uplink.Close()
	}

	// services
	analyzer := analysis.NewAnalyzer(logger, detectionRepository, inferenceClient, publisher, mediaStore)
	finder := analysis.NewFinder(detectionRepository)
	simulator := federation.NewDeviceSimulator(logger, deviceRepository, publisher, uplink, cacheInstance, cfg.Federation)
	orchestrator := federation.NewOrchestrator(
		logger, roundRepository, deviceRepository, simulator, cacheInstance, publisher, cfg.Federation,
	)

	// websocket hub
	hub := wsHandlers.NewHub(logger)
	semaphore := infraWebsocket.NewSemaphore(cfg.WebSocket.MaxConnections)

	jwtManager := infraJWT.NewJwtManager(&cfg.Server)

	middlewareTransport := middleware.Transport{
		AuthMiddleware:    middleware.NewAuthMiddleware(logger, jwtManager, cfg.Server.AuthEnabled),
		CORSMiddleware:    middleware.NewCORSGlobalMiddleware([]string{"*"}, []string{"GET", "POST", "OPTIONS"}),
		MetricsMiddleware: middleware.NewMetricsMiddleware(logger),
		RecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		AnalyzeHandler:           handlers.NewAnalyzeHandler(logger, analyzer),
		ListDetectionsHandler:    handlers.NewListDetectionsHandler(logger, finder),
		GetDetectionHandler:      handlers.NewGetDetectionHandler(logger, finder),
		GetDetectionStatsHandler: handlers.NewGetDetectionStatsHandler(logger, cacheInstance, finder),
		ListDevicesHandler:       handlers.NewListDevicesHandler(logger, deviceRepository),
		CreateDeviceHandler:      handlers.NewCreateDeviceHandler(logger, deviceRepository),
		GetDeviceHandler:         handlers.NewGetDeviceHandler(logger, deviceRepository),
		ListRoundsHandler:        handlers.NewListRoundsHandler(logger, roundRepository),
		GetLatestRoundHandler:    handlers.NewGetLatestRoundHandler(logger, roundRepository),
		GetModelHandler:          handlers.NewGetModelHandler(logger, cacheInstance, roundRepository),
		HealthHandler:            handlers.NewHealthHandler(logger, inferenceClient),
		GetVersionHandler:        handlers.NewGetVersionHandler(logger),
	}

	websocketTransport := wsHandlers.HandlerTransport{
		EventsHandler: wsHandlers.NewEventsHandler(logger, hub, semaphore, cfg.WebSocket),
	}

	srv := server.NewDashboardServer(server.DashboardServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		WebsocketTransport:  websocketTransport,
		Config:              cfg,
		Logger:              logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		listener.Listen(groupCtx, hub.HandleEnvelope)
		return nil
	})

	if cfg.Federation.Enabled {
		if err := simulator.EnsureFleet(ctx); err != nil {
			logger.Fatalf("failed to register device fleet: %v", err)
		}
		if err := orchestrator.Resume(ctx); err != nil {
			logger.Fatalf("failed to resume training state: %v", err)
		}
		group.Go(func() error {
			return simulator.Run(groupCtx)
		})
		group.Go(func() error {
			return orchestrator.Run(groupCtx)
		})
	}

	group.Go(func() error {
		return srv.Run()
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down dashboard server")
		return srv.Shutdown()
	})

	if err := group.Wait(); err != nil {
		logger.Fatalf("platform terminated: %v", err)
	}
	logger.Info("platform stopped")
}
