package identity

import (
	"context"
	"database/sql"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
)

func init() {
	persistence.RegisterModel((*Account)(nil))
	persistence.RegisterModel((*Caption)(nil))
	persistence.RegisterModel((*ScheduledPost)(nil))
}

// OpenSQLite opens a sqlite-backed bun handle. Use ":memory:" (or
// "file::memory:?cache=shared") for throwaway databases.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrations returns the embedded SQL migrations in a form the bun migrator
// understands.
func Migrations() (*migrate.Migrations, error) {
	sub, err := fs.Sub(migrationsFS, "data/sql/migrations")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open embedded migrations")
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to discover migrations")
	}

	return migrations, nil
}

// RunMigrations applies every pending migration to db. It is idempotent and
// safe to call on startup.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize migration tables")
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to run migrations")
	}

	return nil
}
