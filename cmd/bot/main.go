package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"budgetbot/internal/bot"
	"budgetbot/internal/catalog"
	"budgetbot/internal/config"
	"budgetbot/internal/dialog"
	"budgetbot/internal/sheets"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx := context.Background()

	client, err := sheets.NewClient(ctx, sheets.Options{
		SpreadsheetID:     cfg.SheetID,
		TransactionsSheet: cfg.TransactionsSheet,
		SettingsSheet:     cfg.SettingsSheet,
		TimezoneOffset:    cfg.TimezoneOffset,
		CredentialsFile:   cfg.CredentialsFile,
		CredentialsJSON:   []byte(cfg.CredentialsJSON),
	}, logger)
	if err != nil {
		logger.Fatal(err)
	}

	cat := catalog.New(client, logger)
	if err := cat.Reload(ctx); err != nil {
		// Пустой справочник не мешает запуску: диалог предложит только
		// отмену, пока /reload не вытащит категории.
		logger.WithError(err).Warn("категории не загрузились на старте")
	}

	machine := dialog.NewMachine(cat, client, logger)

	b, err := bot.New(cfg.BotToken, bot.Deps{
		Dialog:       machine,
		Catalog:      cat,
		Reports:      client,
		AllowedUsers: cfg.AllowedUsers,
		Log:          logger,
	})
	if err != nil {
		logger.Fatal(err)
	}

	logger.WithField("allowed_users", len(cfg.AllowedUsers)).Info("бот запускается")
	if err := b.Start(ctx); err != nil {
		logger.Fatal(err)
	}
}
