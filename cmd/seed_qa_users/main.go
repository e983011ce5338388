package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"trainhub/cmd/seed_qa_users/internal/seedmodels"
	"trainhub/internal/config"
	"trainhub/internal/database"
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/repository"
	"trainhub/internal/service"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "configs/seed_data/qa_users.json"

func main() {
	seedFilePath := flag.String("file", defaultSeedFilePath, "path to the QA users seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Loading seed data from file", zap.String("path", *seedFilePath))
	raw, err := os.ReadFile(*seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}
	var seed seedmodels.SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	identityRepo := repository.NewIdentityDatabaseAdapter(db)
	provisioning := service.NewProvisioningService(
		service.NewIdentityService(identityRepo),
		repository.NewEmployeeDatabaseAdapter(db),
		repository.NewAssignmentDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
	)

	created, skipped, failed := 0, 0, 0
	seedRole := func(users []seedmodels.SeedUser, role string) {
		for _, u := range users {
			_, err := provisioning.CreateEmployee(ctx, dto.CreateEmployeeRequest{
				Email:             u.Email,
				Name:              u.Name,
				Department:        u.Department,
				TemporaryPassword: u.Password,
				Role:              role,
			})
			switch {
			case err == nil:
				created++
				log.Info("Created QA user", zap.String("email", u.Email), zap.String("role", role))
			case domain.HasCode(err, domain.CodeDuplicateIdentity):
				skipped++
				log.Info("QA user already exists, skipping", zap.String("email", u.Email))
			default:
				failed++
				log.Error("Failed to create QA user", zap.String("email", u.Email), zap.Error(err))
			}
		}
	}
	seedRole(seed.Managers, "manager")
	seedRole(seed.Employees, "employee")

	log.Info("QA user seeding completed",
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}
