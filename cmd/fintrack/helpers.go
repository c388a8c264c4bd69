package main

import (
	"context"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/storage"
)

// openStorage opens and initializes the configured database.
func (a *app) openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath)
	if err != nil {
		return nil, common.NewUserError("Database error", err)
	}

	if err := store.Initialize(ctx); err != nil {
		closeStorage(store)
		return nil, common.NewUserError("Database error", err)
	}

	return store, nil
}

// initLedger returns an engine over the configured database and a func that
// releases it.
func (a *app) initLedger(ctx context.Context) (*ledger.Engine, func(), error) {
	store, err := a.openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(store), func() { closeStorage(store) }, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "failed to close storage", common.Fields{"database": store.Path()})
	}
}

// userError attaches the message a user should see to err.
func userError(err error) error {
	return common.NewUserError(ledger.Message(err), err)
}
