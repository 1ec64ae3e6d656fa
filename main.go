// File: mauryaelectronics/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mauryaelectronics/config"
	"mauryaelectronics/database"
	catalogRepo "mauryaelectronics/database/repository/catalog"
	complaintRepo "mauryaelectronics/database/repository/complaint"
	counterRepo "mauryaelectronics/database/repository/counter"
	staffRepo "mauryaelectronics/database/repository/staff"
	"mauryaelectronics/handlers"
	"mauryaelectronics/routes"
	"mauryaelectronics/services/complaint"
	"mauryaelectronics/services/sequence"
	"mauryaelectronics/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	cmplRepo := complaintRepo.NewMongoComplaintRepo()
	ctrRepo := counterRepo.NewMongoCounterRepo()
	catRepo := catalogRepo.NewMongoCatalogRepo()
	stfRepo := staffRepo.NewMongoStaffRepo()

	if err := cmplRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure complaint indexes: %v", err)
	}
	if err := ctrRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure counter indexes: %v", err)
	}

	// services.
	complaintService := &complaint.DefaultComplaintService{
		Repo:      cmplRepo,
		Catalog:   catRepo,
		Allocator: sequence.NewCounterAllocator(ctrRepo),
		NoPrefix:  config.AppConfig.ComplaintNoPrefix,
		NoPad:     config.AppConfig.ComplaintNoPad,
	}

	complaintHandler := handlers.NewComplaintHandler(complaintService, logger)
	storageHandler := handlers.NewStorageHandler(cloudinaryStorageService, complaintService)
	authHandler := handlers.NewAuthHandler(stfRepo, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Auth endpoints.
		LoginHandler: authHandler.LoginHandler,

		// Complaint endpoints.
		CreateComplaintHandler: complaintHandler.CreateComplaintHandler,
		CreateBatchHandler:     complaintHandler.CreateBatchHandler,
		GetComplaintHandler:    complaintHandler.GetComplaintHandler,
		ListComplaintsHandler:  complaintHandler.ListComplaintsHandler,
		UpdateComplaintHandler: complaintHandler.UpdateComplaintHandler,
		ChangeStatusHandler:    complaintHandler.ChangeStatusHandler,
		DeleteComplaintHandler: complaintHandler.DeleteComplaintHandler,

		// Storage endpoints.
		UploadMediaHandler: storageHandler.UploadMediaHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
