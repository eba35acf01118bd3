package initializers

import (
	"fmt"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB // Migrate reads this too

// ConnectDB opens the postgres store through the lib/pq driver.
func ConnectDB(dsn string, debug bool) error {
	log.Println("Connecting to database")
	if dsn == "" {
		return fmt.Errorf("env variable DIRECT_URL is empty")
	}

	pgConfig := postgres.Config{
		PreferSimpleProtocol: true, // pgbouncer in transaction mode has no prepared statements
		DriverName:           "postgres",
		DSN:                  dsn,
	}
	gormLogger := logger.Default.LogMode(logger.Warn)
	if debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var err error
	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	log.Println("Database connection successful")
	return nil
}

func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warnf("[CloseDB] %v", err)
	}
}
