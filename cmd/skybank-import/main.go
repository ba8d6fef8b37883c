// Command skybank-import loads a bank XLSX export into the SQLite database.
package main

import (
	"context"
	"flag"
	"os"

	"skybank/internal/cli"
	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/sheets/xlsx"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	file := flag.String("file", cfg.TransactionsFile, "XLSX export to import")
	sheet := flag.String("sheet", "", "sheet name (default: first sheet)")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database path")
	flag.Parse()

	if _, err := os.Stat(*file); err != nil {
		logger.Error(core.MsgFileNotFound, log.FieldFile, *file, log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()
	txs, err := xlsx.New(*file, *sheet, logger).ReadTransactions(ctx)
	if err != nil {
		logger.Error("Failed to read export", log.FieldFile, *file, log.FieldError, err)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, *dbPath)
	defer repo.Close()

	n, err := repo.ImportTransactions(ctx, txs)
	if err != nil {
		logger.Error("Import failed", log.FieldError, err, "path", *dbPath)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("Import complete", log.FieldFile, *file, log.FieldCount, n, "path", *dbPath)
}
