package database

import (
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/helpers"
)

const (
	defaultConnectRetries  = 15
	defaultConnectDelaySec = 3
)

// Connect opens the master/slave pool described by cfg, waiting for the
// database to come up.
func Connect(cfg *config.DatabaseConfig) (*dbpg.DB, error) {
	retries := cfg.ConnectRetries
	if retries == 0 {
		retries = defaultConnectRetries
	}
	delay := cfg.ConnectRetryDelaySec
	if delay == 0 {
		delay = defaultConnectDelaySec
	}

	slaves := helpers.SplitList(cfg.Slaves)

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSec) * time.Second,
	}

	return ConnectWithRetries(cfg.DSN, slaves, opts, retries, delay)
}

func ConnectWithRetries(masterDSN string, slaves []string, opts *dbpg.Options, retries int, delaySec int) (*dbpg.DB, error) {
	if retries <= 0 {
		retries = 1
	}
	if delaySec <= 0 {
		delaySec = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		db, err := open(masterDSN, slaves, opts)
		if err == nil {
			zlog.Logger.Info().Int("attempt", attempt).Msg("database connection established")
			return db, nil
		}

		lastErr = err
		zlog.Logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("retries", retries).
			Msg("database not ready")

		if attempt < retries {
			time.Sleep(time.Duration(delaySec) * time.Second)
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", retries, lastErr)
}

func open(masterDSN string, slaves []string, opts *dbpg.Options) (*dbpg.DB, error) {
	db, err := dbpg.New(masterDSN, slaves, opts)
	if err != nil {
		return nil, err
	}
	if db.Master == nil {
		return nil, fmt.Errorf("master connection is nil")
	}
	if err := db.Master.Ping(); err != nil {
		Close(db)
		return nil, fmt.Errorf("ping master: %w", err)
	}
	return db, nil
}

// Close releases the master and every slave connection.
func Close(db *dbpg.DB) {
	if db == nil {
		return
	}
	if db.Master != nil {
		if err := db.Master.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("closing db master failed")
		}
	}
	for i, s := range db.Slaves {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			zlog.Logger.Error().Err(err).Int("slave_index", i).Msg("closing db slave failed")
		}
	}
}
