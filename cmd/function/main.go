package main

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"budgetbot/internal/bot"
	"budgetbot/internal/catalog"
	"budgetbot/internal/config"
	"budgetbot/internal/dialog"
	"budgetbot/internal/sheets"
)

// Request — входящий запрос от API Gateway.
type Request struct {
	Body string `json:"body"`
}

// Response — ответ для API Gateway.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Зависимости собираются один раз на инстанс функции: пока инстанс теплый,
// сессии диалогов переживают соседние webhook-вызовы. Холодный старт
// начинает всех пользователей с Idle.
var (
	initOnce sync.Once
	initErr  error
	instance *bot.Bot
)

func setup(ctx context.Context) (*bot.Bot, error) {
	initOnce.Do(func() {
		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}

		client, err := sheets.NewClient(ctx, sheets.Options{
			SpreadsheetID:     cfg.SheetID,
			TransactionsSheet: cfg.TransactionsSheet,
			SettingsSheet:     cfg.SettingsSheet,
			TimezoneOffset:    cfg.TimezoneOffset,
			CredentialsFile:   cfg.CredentialsFile,
			CredentialsJSON:   []byte(cfg.CredentialsJSON),
		}, logger)
		if err != nil {
			initErr = err
			return
		}

		cat := catalog.New(client, logger)
		if err := cat.Reload(ctx); err != nil {
			logger.WithError(err).Warn("категории не загрузились")
		}

		machine := dialog.NewMachine(cat, client, logger)

		instance, initErr = bot.New(cfg.BotToken, bot.Deps{
			Dialog:       machine,
			Catalog:      cat,
			Reports:      client,
			AllowedUsers: cfg.AllowedUsers,
			Log:          logger,
		})
	})
	return instance, initErr
}

// Handler обрабатывает один webhook-апдейт.
func Handler(ctx context.Context, request Request) (*Response, error) {
	b, err := setup(ctx)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локальной сборки; в облаке вызывается Handler.
}
