// Package migrations хранит SQL-миграции схемы и запускает их через goose.
package migrations

import (
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

func setup() error {
	goose.SetBaseFS(FS)
	return goose.SetDialect("postgres")
}

// Up применяет все недостающие миграции.
func Up(dsn string) error {
	if err := setup(); err != nil {
		return err
	}
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, ".")
}

// Status печатает состояние миграций в лог goose.
func Status(dsn string) error {
	if err := setup(); err != nil {
		return err
	}
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Status(sqlDB, ".")
}
