// Package repotest provides an in-memory lesson repository for tests.
package repotest

import (
	"context"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"lesson-generator/repository"
	"testing"
)

func NewLessonRepository(tb testing.TB) repository.LessonRepository {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	repo := repository.NewGormRepo(db)
	if err := repo.Migrate(context.Background()); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	return repo
}
