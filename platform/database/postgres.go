package database

import (
	"github.com/DedS3t/monopoly-engine/platform/config"
	"github.com/go-pg/pg/v10"
	_ "github.com/go-pg/pg/v10/orm"
)

// PostgreSQLConnection returns a pooled handle; go-pg connects on first use.
func PostgreSQLConnection(cfg config.DB) *pg.DB {
	return pg.Connect(&pg.Options{
		User:     cfg.User,
		Addr:     cfg.Addr,
		Password: cfg.Password,
		Database: cfg.Name,
	})
}
