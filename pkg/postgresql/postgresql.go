package postgresql

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/differentroads/dr-checkout/config"
	"github.com/differentroads/dr-checkout/pkg/applogger"
)

var (
	db   *sql.DB
	once sync.Once
)

func GetDatabase() *sql.DB {
	once.Do(func() {
		c := config.Get()
		logger := applogger.GetLogrus()

		var err error
		db, err = sql.Open("postgres", c.Postgres.DSN)
		if err != nil {
			logger.WithError(err).Fatal("unable to open postgres connection")
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	})

	return db
}
