// Command seed restores a backup file into the configured storage, or wipes
// it with -reset.
//
//	go run ./cmd/seed -backup nasigor_backup_2026-10-16.json
//	go run ./cmd/seed -reset
package main

import (
	"context"
	"flag"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/config"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/logging"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
)

func main() {
	backupPath := flag.String("backup", "", "backup JSON file to restore")
	reset := flag.Bool("reset", false, "delete every stored collection")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if (*backupPath == "") == !*reset {
		logger.Fatal("pass exactly one of -backup or -reset")
	}

	ctx := context.Background()
	p, closeStore, err := store.Open(ctx, store.Options{
		Driver:      cfg.StorageDriver,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer closeStore()

	clk := clock.System{Location: clock.LoadLocation(cfg.Timezone)}
	catalog := store.NewCatalog(ctx, p, logger)
	ledger := store.NewLedger(ctx, p, clk, logger)
	profile := store.NewProfileStore(ctx, p, logger)
	backups := store.NewBackups(p, catalog, ledger, profile, clk, logger)

	if *reset {
		if err := backups.Reset(ctx); err != nil {
			logger.Fatal("reset", zap.Error(err))
		}
		logger.Info("storage reset", zap.Strings("keys", store.Keys))
		return
	}

	data, err := afero.ReadFile(afero.NewOsFs(), *backupPath)
	if err != nil {
		logger.Fatal("read backup", zap.Error(err))
	}
	keys, err := backups.Import(ctx, data)
	if err != nil {
		logger.Fatal("import backup", zap.Error(err))
	}
	logger.Info("backup restored",
		zap.String("file", *backupPath),
		zap.Strings("keys", keys),
		zap.Int("menu_items", len(catalog.List())),
	)
}
