package main

import (
	"context"
	"errors"
	"os"

	"skybank/internal/cli"
	"skybank/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	app := cli.NewApp(ctx, logger, cfg)
	defer app.Close()

	menu := cli.NewMenu(cli.MenuDeps{
		Home:       app.Home,
		Investment: app.Investment,
		Reports:    app.Reports,
		Settings:   app.Settings,
		Catalog:    app.Catalog,
		Logger:     logger,
	}, os.Stdin, os.Stdout)

	if err := menu.Run(ctx); err != nil && !errors.Is(err, cli.ErrInputClosed) {
		logger.Error("Menu failed", log.FieldError, err)
		app.Close()
		os.Exit(1)
	}
}
