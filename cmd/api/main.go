package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/verp-hr/fine-backend-go/internal/config"
	appHTTP "github.com/verp-hr/fine-backend-go/internal/handler/http"
	"github.com/verp-hr/fine-backend-go/internal/pkg/database"
	"github.com/verp-hr/fine-backend-go/internal/pkg/jwt"
	"github.com/verp-hr/fine-backend-go/internal/repository/postgresql"
	fineService "github.com/verp-hr/fine-backend-go/internal/service/fine"
	liabilityService "github.com/verp-hr/fine-backend-go/internal/service/liability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	fineRepo := postgresql.NewFineRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	fineSvc := fineService.NewFineService(db, fineRepo, employeeRepo)
	liabilitySvc := liabilityService.NewLiabilityService(fineRepo, loanRepo, employeeRepo)

	fineHandler := appHTTP.NewFineHandler(fineSvc)
	liabilityHandler := appHTTP.NewLiabilityHandler(liabilitySvc)

	router := appHTTP.NewRouter(JWTService, fineHandler, liabilityHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
