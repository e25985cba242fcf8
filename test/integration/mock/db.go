// Package mock provides in-process test doubles for external infrastructure.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/engine/internal/integration/persistence/model"
)

var dbOnce sync.Once
var db *Db

// Db wraps a shared in-memory sqlite connection migrated with the engine's
// models.
type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb opens (once) the in-memory database and migrates the engine schema.
func NewDb() *Db {
	dbOnce.Do(func() {
		db = open()
	})
	return db
}

func open() *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	// A single connection keeps the shared in-memory database alive.
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDb := &Db{
		DbConn: dbConn,
		models: []any{
			&model.LedgerEntryModel{},
			&model.RecurringRuleModel{},
			&model.BudgetModel{},
			&model.BudgetAlertModel{},
			&model.GenerationModel{},
		},
	}

	if err := dbConn.AutoMigrate(newDb.models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return newDb
}

// Reset removes every row so each scenario starts from a clean ledger.
func (d *Db) Reset() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return err
		}
	}
	return nil
}
