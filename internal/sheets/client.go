// Package sheets реализует хранилище транзакций и источник справочника
// категорий поверх Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgetbot/internal/catalog"
	"budgetbot/internal/model"
)

type Options struct {
	SpreadsheetID     string
	TransactionsSheet string
	SettingsSheet     string
	TimezoneOffset    int // часы от UTC для даты записи
	CredentialsFile   string
	CredentialsJSON   []byte
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	transactions  string
	settings      string
	loc           *time.Location
	log           *logrus.Logger

	// Сериализует пары «прочитать колонку дат — записать строку»:
	// без этого два одновременных сохранения целились бы в одну строку.
	mu sync.Mutex
}

func NewClient(ctx context.Context, opts Options, log *logrus.Logger) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var copts []goption.ClientOption
	switch {
	case len(opts.CredentialsJSON) > 0:
		copts = append(copts, goption.WithCredentialsJSON(opts.CredentialsJSON))
	case opts.CredentialsFile != "":
		copts = append(copts, goption.WithCredentialsFile(opts.CredentialsFile))
	default:
		return nil, errors.New("missing service account credentials")
	}
	copts = append(copts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, copts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		transactions:  opts.TransactionsSheet,
		settings:      opts.SettingsSheet,
		loc:           time.FixedZone(fmt.Sprintf("UTC%+d", opts.TimezoneOffset), opts.TimezoneOffset*3600),
		log:           log,
	}, nil
}

// Record добавляет одну строку в группу колонок, выбранную по kind, в
// первую свободную строку колонки дат не раньше startRow. Четыре ячейки
// пишутся одним ranged-обновлением: частичной строки при ошибке не остается.
func (c *Client) Record(ctx context.Context, kind model.Kind, amount decimal.Decimal, description, category string) error {
	lay, err := layoutFor(kind)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	col := columnLetter(lay.date)
	rng := fmt.Sprintf("%s!%s:%s", c.transactions, col, col)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read date column %s: %w", rng, err)
	}
	row := nextFreeRow(len(resp.Values))

	date := time.Now().In(c.loc).Format(model.DateLayout)
	target := fmt.Sprintf("%s!%s%d:%s%d", c.transactions, col, row, columnLetter(lay.category), row)
	vr := &gsheet.ValueRange{
		Values: [][]interface{}{{date, amount.InexactFloat64(), description, category}},
	}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}

	c.log.WithFields(logrus.Fields{
		"kind":   kind.String(),
		"row":    row,
		"amount": amount.String(),
	}).Info("транзакция записана")
	return nil
}

// Load читает справочный лист категорий: колонка A — название, колонка B —
// метка типа. Шапка (первая строка) пропускается диапазоном.
func (c *Client) Load(ctx context.Context) ([]catalog.Row, error) {
	rng := fmt.Sprintf("%s!A2:B", c.settings)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read settings sheet %s: %w", rng, err)
	}

	rows := make([]catalog.Row, 0, len(resp.Values))
	for _, v := range resp.Values {
		if len(v) < 2 {
			continue
		}
		rows = append(rows, catalog.Row{
			Name: fmt.Sprint(v[0]),
			Tag:  fmt.Sprint(v[1]),
		})
	}
	return rows, nil
}

// ListMonth читает обратно строки одной группы колонок за указанный месяц.
// Строки с нечитаемой датой или суммой пропускаются: чтение для отчета
// делается по принципу best effort.
func (c *Client) ListMonth(ctx context.Context, kind model.Kind, year int, month time.Month) ([]model.Record, error) {
	lay, err := layoutFor(kind)
	if err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("%s!%s%d:%s", c.transactions, columnLetter(lay.date), startRow, columnLetter(lay.category))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read transactions %s: %w", rng, err)
	}

	var out []model.Record
	for _, raw := range resp.Values {
		if len(raw) < 4 {
			continue
		}
		date, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(fmt.Sprint(raw[0])), c.loc)
		if err != nil {
			continue
		}
		if date.Year() != year || date.Month() != month {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(fmt.Sprint(raw[1])), ",", "."))
		if err != nil {
			continue
		}
		out = append(out, model.Record{
			Kind:        kind,
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(fmt.Sprint(raw[2])),
			Category:    strings.TrimSpace(fmt.Sprint(raw[3])),
		})
	}
	return out, nil
}
