package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/app"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/config"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/controllers"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/middleware"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/repositories"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/routes"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/services"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize contract-service:", err)
	}
	defer application.Close()

	// Repositories
	contractRepo := repositories.NewContractRepository(application.DB)
	invoiceRepo := repositories.NewInvoiceRepository(application.DB)
	partnerRepo := repositories.NewPartnerSettingsRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), partnerRepo, invoiceRepo); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// Services
	lifecycleService := services.NewContractLifecycleService(contractRepo, partnerRepo)
	commissionService := services.NewCommissionService(contractRepo, partnerRepo)
	evictionService := services.NewEvictionService(contractRepo, invoiceRepo)

	// Controllers
	healthController := controllers.NewHealthController(application)
	contractController := controllers.NewContractController(lifecycleService)
	billingController := controllers.NewBillingController(commissionService, evictionService)

	// Router setup
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Secured routes for partner apps and the invoicing engine
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.Contracts, contractController.CreateAssignmentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Contract, contractController.GetContractHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ContractHistory, contractController.GetHistoryHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ContractLease, contractController.CreateLeaseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractLeaseTerminate, contractController.TerminateLeaseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractLeaseCancel, contractController.CancelLeaseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractTerminationCancel, contractController.CancelTerminationHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractAssignmentTerminate, contractController.TerminateAssignmentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractSigningEvents, contractController.SignerUpdateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractCommissions, billingController.CommissionChangeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractAddons, billingController.AddonChangeHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.ContractPayments, billingController.PaymentEventHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.EvictionCases, billingController.OpenEvictionCaseHandler).Methods(http.MethodPost)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC)) // Use UTC for cron scheduling

	evictionSpec := constants.EvictionScanCronSpec
	finalizerSpec := constants.TerminationFinalizerCronSpec
	if cfg.LDFlag_UseShortJobSchedules {
		evictionSpec = constants.ShortEvictionScanCronSpec
		finalizerSpec = constants.ShortTerminationFinalizerCronSpec
		utils.Logger.Warnf("Using short job schedules: eviction='%s', finalizer='%s'", evictionSpec, finalizerSpec)
	}

	// Schedule the eviction escalation scan.
	_, err = c.AddFunc(evictionSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.EvictionScanJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting eviction escalation scan...")
		opened, err := evictionService.ScanAndEscalate(ctx)
		if err != nil {
			utils.Logger.WithError(err).Error("Eviction escalation scan failed")
			return
		}
		utils.Logger.Infof("Eviction escalation scan opened %d case(s)", opened)
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule eviction scan cron")
	}

	// Schedule the due-termination finalizer.
	_, err = c.AddFunc(finalizerSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.TerminationFinalizerJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting due-termination finalizer...")
		closed, err := lifecycleService.FinalizeDueTerminations(ctx)
		if err != nil {
			utils.Logger.WithError(err).Error("Due-termination finalizer failed")
			return
		}
		utils.Logger.Infof("Due-termination finalizer closed %d lease(s)", closed)
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule termination finalizer cron")
	}

	c.Start()
	utils.Logger.Info("Scheduled contract maintenance cron jobs")

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "ngrok-skip-browser-warning"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("contract-service failed to start:", err)
	}
}
