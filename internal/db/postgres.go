package db

import (
	"fmt"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/types"
	"github.com/platewise/recipeledger/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "recipeledger", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrate creates the ledger tables and the constraints GORM cannot
// express in tags. Shared with the test database setup.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&types.Ingredient{},
		&types.BatchRecipe{},
		&types.PlateRecipe{},
		&types.BatchRecipeVersion{},
		&types.BatchVersionIngredient{},
		&types.PlateRecipeVersion{},
		&types.PlateVersionIngredient{},
		&types.PlateVersionBatch{},
	)
	if err != nil {
		return err
	}
	return ApplyLedgerIndexes(db)
}

// ApplyLedgerIndexes enforces the ledger invariants structurally:
// at most one active version per recipe (partial unique index), unique
// version numbers per recipe, and one catalog entry per (chef, name).
func ApplyLedgerIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_batch_recipe_active_version
       ON batch_recipe_versions (recipe_id) WHERE is_active`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_plate_recipe_active_version
       ON plate_recipe_versions (recipe_id) WHERE is_active`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_batch_recipe_version_number
       ON batch_recipe_versions (recipe_id, version_major, version_minor)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_plate_recipe_version_number
       ON plate_recipe_versions (recipe_id, version_major, version_minor)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_ingredient_chef_name
       ON ingredients (chef_id, LOWER(name))`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("Failed to apply ledger index: %w", err)
		}
	}
	return nil
}
