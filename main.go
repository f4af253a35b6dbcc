package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"drugstore/internal/api"
	"drugstore/internal/auth"
	"drugstore/internal/config"
	"drugstore/internal/database"
	"drugstore/internal/migrations"
	"drugstore/internal/pharmacy"
	"drugstore/internal/seed"
	"drugstore/internal/store"
	"drugstore/internal/token"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	if cfg.MedicationsCSV != "" {
		seed.LoadMedications(db, cfg.MedicationsCSV, logger)
	}

	codec := token.NewCodec(cfg.Secret, cfg.TokenValidity, nil)

	users := store.NewUserStore(db)
	medications := store.NewMedicationStore(db)
	sales := store.NewSaleStore(db)

	handler := api.New(api.Deps{
		Gateway:   auth.NewGateway(codec, logger),
		Auth:      pharmacy.NewAuthService(users, codec, logger),
		Users:     pharmacy.NewUserService(users, logger),
		Drugs:     pharmacy.NewDrugService(medications, logger),
		Purchase:  pharmacy.NewPurchaseService(db, users, medications, sales, logger, nil),
		Deposit:   pharmacy.NewDepositService(db, users, logger),
		Sales:     pharmacy.NewSalesService(sales, users, logger, nil),
		Suppliers: store.NewSupplierStore(db),
		Employees: store.NewEmployeeStore(db),
		Customers: store.NewCustomerStore(db),
		Logger:    logger,
	})

	logger.Info("drugstore server starting", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
