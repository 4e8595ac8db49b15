package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartadapters "fieldtoyou/internal/cart/adapters"
	cartapp "fieldtoyou/internal/cart/application"
	cartinfra "fieldtoyou/internal/cart/infrastructure"
	catalogadapters "fieldtoyou/internal/catalog/adapters"
	catalogapp "fieldtoyou/internal/catalog/application"
	cataloginfra "fieldtoyou/internal/catalog/infrastructure"
	ordersadapters "fieldtoyou/internal/orders/adapters"
	ordersapp "fieldtoyou/internal/orders/application"
	ordersinfra "fieldtoyou/internal/orders/infrastructure"
	ordersports "fieldtoyou/internal/orders/ports"
	shipadapters "fieldtoyou/internal/shipments/adapters"
	shipapp "fieldtoyou/internal/shipments/application"
	shipinfra "fieldtoyou/internal/shipments/infrastructure"
	shipports "fieldtoyou/internal/shipments/ports"
	"fieldtoyou/internal/storage"
	"fieldtoyou/pkg/config"
	"fieldtoyou/pkg/db"
	"fieldtoyou/pkg/events"
	"fieldtoyou/pkg/logger"
	"fieldtoyou/pkg/middleware"
	"fieldtoyou/pkg/rabbitmq"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("starting field-to-you service")

	// The single farm every order is written against
	farmerID, err := uuid.Parse(cfg.FarmerID)
	if err != nil {
		log.Fatal("FARMER_ID must be a valid UUID: " + err.Error())
	}

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	if err := storage.Migrate(dbConn); err != nil {
		log.Fatal("failed to migrate database: " + err.Error())
	}

	// Connect to RabbitMQ; events are best-effort and the shop works
	// without them
	var orderPublisher ordersports.EventPublisher
	var shipmentPublisher shipports.EventPublisher
	rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
	} else {
		defer rabbitConn.Close()

		pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeCommerce, log)
		if err != nil {
			log.Warn("failed to create publisher: " + err.Error())
		} else {
			orderPublisher = ordersadapters.NewRabbitMQPublisher(pub, log)
			shipmentPublisher = shipadapters.NewRabbitMQPublisher(pub, log)
		}
	}

	// Wire use cases
	orderRepo := ordersadapters.NewPostgresOrderRepository(dbConn)
	catalogGateway := ordersadapters.NewCatalogGateway(dbConn)
	orderUseCase := ordersapp.NewOrderUseCase(orderRepo, catalogGateway, orderPublisher, farmerID, log)

	// Consume delivery confirmations back into the order record
	if rabbitConn != nil {
		consumerCtx, consumerCancel := context.WithCancel(context.Background())
		defer consumerCancel()

		deliveredConsumer, err := ordersadapters.NewShipmentDeliveredConsumer(rabbitConn, orderRepo, log)
		if err != nil {
			log.Warn("failed to create shipment delivered consumer: " + err.Error())
		} else if err := deliveredConsumer.Start(consumerCtx); err != nil {
			log.Warn("failed to start shipment delivered consumer: " + err.Error())
		}
	}

	shipmentRepo := shipadapters.NewPostgresShipmentRepository(dbConn)
	shipmentUseCase := shipapp.NewShipmentUseCase(shipmentRepo, shipmentPublisher, log)

	productRepo := catalogadapters.NewPostgresProductRepository(dbConn)
	productUseCase := catalogapp.NewProductUseCase(productRepo, farmerID, log)

	cartRepo := cartadapters.NewPostgresCartRepository(dbConn)
	cartReader := cartadapters.NewProductReader(dbConn)
	orderGateway := cartadapters.NewOrderGateway(orderUseCase)
	cartUseCase := cartapp.NewCartUseCase(cartRepo, cartReader, orderGateway, log)

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	ordersinfra.NewHTTPHandler(orderUseCase).RegisterRoutes(api)
	shipinfra.NewHTTPHandler(shipmentUseCase).RegisterRoutes(api)
	cataloginfra.NewHTTPHandler(productUseCase).RegisterRoutes(api)
	cartinfra.NewHTTPHandler(cartUseCase).RegisterRoutes(api)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}
