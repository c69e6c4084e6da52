package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/storage/database"
	gormrepos "github.com/trezcool/ratiba/storage/database/gorm"
)

const truncateAll = "TRUNCATE subjects, teachers, school_classes, students CASCADE"

// PrepareDB returns a migrated, empty postgres test database.
// The test is skipped when postgres is unreachable.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	t.Setenv("ENV", "TEST")
	conf := core.NewConfig()

	admin, err := sqlx.Open(conf.Database.Engine, conf.Database.URL("postgres", true))
	if err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	if err = admin.Ping(); err != nil {
		_ = admin.Close()
		t.Skipf("postgres unreachable at %s: %v", conf.Database.Address(), err)
	}
	_ = admin.Close()

	if err = database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	if _, err = db.Exec(truncateAll); err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Exec(truncateAll)
		_ = db.Close()
	})
	return db
}

// PrepareGorm returns a private in-memory sqlite database with the schema auto-migrated.
func PrepareGorm(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("prepareGorm() failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("prepareGorm() failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = gormrepos.AutoMigrate(db); err != nil {
		t.Fatalf("prepareGorm() failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
