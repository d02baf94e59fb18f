package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"budgetbot/internal/report"
)

func (b *Bot) handleReport(ctx context.Context, chatID int64) {
	now := time.Now()
	summary, err := report.Build(ctx, b.reports, now.Year(), now.Month())
	if err != nil {
		b.log.WithError(err).Error("не удалось построить отчет")
		b.sendText(chatID, "❌ Не удалось построить отчет")
		return
	}
	if summary.Empty() {
		b.sendText(chatID, "За этот месяц записей пока нет")
		return
	}

	b.sendText(chatID, formatSummary(summary))

	png, err := report.RenderChart(summary)
	if err != nil {
		// Текстовый отчет уже ушел, без картинки можно обойтись.
		b.log.WithError(err).Warn("диаграмма не отрисовалась")
		return
	}
	if png == nil {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "report.png", Bytes: png})
	if _, err := b.api.Send(photo); err != nil {
		b.log.WithError(err).Error("не удалось отправить диаграмму")
	}
}

func formatSummary(s report.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Отчет за %02d.%d\n\n", int(s.Month), s.Year)
	fmt.Fprintf(&sb, "💰 Доходы: %s\n", s.TotalIncome)
	fmt.Fprintf(&sb, "💸 Расходы: %s\n", s.TotalExpenses)
	fmt.Fprintf(&sb, "💵 Баланс: %s\n", s.TotalIncome.Sub(s.TotalExpenses))

	if len(s.Expenses) > 0 {
		sb.WriteString("\nРасходы по категориям:\n")
		for _, c := range s.Expenses {
			fmt.Fprintf(&sb, "• %s: %s\n", c.Name, c.Total)
		}
	}
	if len(s.Income) > 0 {
		sb.WriteString("\nДоходы по категориям:\n")
		for _, c := range s.Income {
			fmt.Fprintf(&sb, "• %s: %s\n", c.Name, c.Total)
		}
	}
	return sb.String()
}
