// Package bot — телеграм-обвязка диалога: раскодирует входящие апдейты в
// события, проверяет список допущенных пользователей и отрисовывает ответы
// машины состояний.
package bot

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"budgetbot/internal/catalog"
	"budgetbot/internal/dialog"
	"budgetbot/internal/report"
)

// Предел одновременно обрабатываемых апдейтов. Изоляцию пользователей
// дает мьютекс сессии, лимит лишь сдерживает число горутин.
const maxConcurrentUpdates = 16

type Bot struct {
	api     *tgbotapi.BotAPI
	dialog  *dialog.Machine
	catalog *catalog.Catalog
	reports report.Source
	allowed map[int64]struct{}
	log     *logrus.Logger
}

type Deps struct {
	Dialog       *dialog.Machine
	Catalog      *catalog.Catalog
	Reports      report.Source
	AllowedUsers []int64
	Log          *logrus.Logger
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	allowed := make(map[int64]struct{}, len(deps.AllowedUsers))
	for _, id := range deps.AllowedUsers {
		allowed[id] = struct{}{}
	}

	return &Bot{
		api:     api,
		dialog:  deps.Dialog,
		catalog: deps.Catalog,
		reports: deps.Reports,
		allowed: allowed,
		log:     deps.Log,
	}, nil
}

// Start запускает long polling. Апдейты обрабатываются параллельно;
// события одного пользователя сериализует мьютекс его сессии в диалоге.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentUpdates)
	for update := range updates {
		update := update
		g.Go(func() error {
			b.handleUpdate(ctx, update)
			return nil
		})
	}
	return g.Wait()
}

// HandleWebhook — точка входа для serverless-развертывания (cmd/function).
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	b.handleUpdate(ctx, update)
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	from := update.SentFrom()
	chat := update.FromChat()
	if from == nil || chat == nil {
		return
	}
	// Доступ проверяется до того, как событие дойдет до диалога.
	if _, ok := b.allowed[from.ID]; !ok {
		b.log.WithField("user_id", from.ID).Debug("апдейт от постороннего пользователя")
		return
	}

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, from.ID, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, from.ID, update.CallbackQuery)
	case update.Message != nil:
		b.handleText(ctx, from.ID, update.Message)
	}
}

func (b *Bot) send(chatID int64, reply dialog.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if kb, ok := keyboardFor(reply.Choices); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("не удалось отправить сообщение")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.WithError(err).Error("не удалось отправить сообщение")
	}
}
