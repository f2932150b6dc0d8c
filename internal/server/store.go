package server

import (
	"context"
	"fmt"

	"tasklist/internal/config"
	"tasklist/internal/storage"
	"tasklist/internal/storage/memory"
	"tasklist/internal/storage/mongostore"
	"tasklist/internal/storage/sqlstore"
)

// OpenStore opens the store selected by the server config.
func OpenStore(ctx context.Context, cfg config.ServerConfig) (storage.Store, error) {
	var dialect sqlstore.Dialect
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.New(), nil
	case config.DriverMongo:
		st, err := mongostore.Open(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverSQLite:
		dialect = sqlstore.SQLite
	case config.DriverPostgres:
		dialect = sqlstore.Postgres
	case config.DriverMySQL:
		dialect = sqlstore.MySQL
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	st, err := sqlstore.Open(ctx, dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return st, nil
}
