package persistence

import (
	"context"
	"embed"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed schema/*.sql
var migrationsFS embed.FS

// SchemaFS exposes the embedded migrations.
func SchemaFS() embed.FS {
	return migrationsFS
}

type gooseLogger struct {
	log *logrus.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) { l.log.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...any) { l.log.Infof(format, v...) }

// Migrate applies every pending embedded migration to the pool's database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logrus.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if log != nil {
		goose.SetLogger(gooseLogger{log: log})
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}
	if err := goose.UpContext(ctx, db, "schema"); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
