package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/zone-api/internal/models"
)

func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Print masked DSN once for diagnostics (before migrations for visibility)
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)
	// MIGRATIONS=1 runs sql migrations via golang-migrate; otherwise AutoMigrate (dev convenience)
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrateAll(db); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure the reference tables exist
	for _, table := range []string{"rent_control_areas", "rent_prices", "zone_tendues"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// AutoMigrateAll migrates every reference model; shared with the sqlite test
// harness so tests and AutoMigrate dev deployments agree on the schema.
func AutoMigrateAll(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.RentControlArea{}, &models.RentPrice{},
		&models.ZoneTendue{}, &models.ZoneTresTendue{},
		&models.ZoneTendueTouristique{}, &models.PermisDeLouer{},
	}
	for _, m := range modelsToMigrate {
		if migErr := db.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// seed loads a handful of static-list rows for development. Real data comes
// from the administrative loads; polygon ingestion stays an external job.
func seed(db *gorm.DB) {
	zt := []models.ZoneTendue{
		{CommuneCode: "75056", CommuneName: "Paris"},
		{CommuneCode: "69123", CommuneName: "Lyon"},
		{CommuneCode: "34172", CommuneName: "Montpellier"},
		{CommuneCode: "38185", CommuneName: "Grenoble"},
		{CommuneCode: "59350", CommuneName: "Lille"},
		{CommuneCode: "33063", CommuneName: "Bordeaux"},
	}
	for _, row := range zt {
		var existing models.ZoneTendue
		if err := db.Where("commune_code = ?", row.CommuneCode).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&row)
		}
	}
	ztt := []models.ZoneTresTendue{
		{CommuneCode: "75056", CommuneName: "Paris"},
	}
	for _, row := range ztt {
		var existing models.ZoneTresTendue
		if err := db.Where("commune_code = ?", row.CommuneCode).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&row)
		}
	}
	seedDevGrid(db)
}

// seedDevGrid inserts one Paris-ish polygon with a minimal price grid so a
// fresh dev database answers /check-zone and /rent-price without running the
// real ingestion jobs.
func seedDevGrid(db *gorm.DB) {
	var count int64
	db.Model(&models.RentControlArea{}).Count(&count)
	if count > 0 {
		return
	}
	area := models.RentControlArea{
		Region:        models.RegionParis,
		ZoneID:        "dev-1",
		ReferenceYear: time.Now().Year(),
		Geometry:      `{"type":"Polygon","coordinates":[[[2.25,48.82],[2.42,48.82],[2.42,48.90],[2.25,48.90],[2.25,48.82]]]}`,
	}
	if err := db.Create(&area).Error; err != nil {
		fmt.Println("[DB] seed dev area failed:", err)
		return
	}
	prices := []models.RentPrice{
		{RoomCount: models.RoomCountOne, ConstructionPeriod: models.ConstructionBefore1946, Furnished: false, ReferencePrice: 25.4, MinPrice: 17.8, MaxPrice: 30.5},
		{RoomCount: models.RoomCountOne, ConstructionPeriod: models.ConstructionBefore1946, Furnished: true, ReferencePrice: 28.1, MinPrice: 19.7, MaxPrice: 33.7},
		{RoomCount: models.RoomCountTwo, ConstructionPeriod: models.ConstructionBefore1946, Furnished: false, ReferencePrice: 22.3, MinPrice: 15.6, MaxPrice: 26.8},
		{RoomCount: models.RoomCountFourPlus, ConstructionPeriod: models.ConstructionBefore1946, Furnished: false, ReferencePrice: 18.9, MinPrice: 13.2, MaxPrice: 22.7},
	}
	for i := range prices {
		prices[i].Areas = []models.RentControlArea{area}
		if err := db.Create(&prices[i]).Error; err != nil {
			fmt.Println("[DB] seed dev price failed:", err)
			return
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
