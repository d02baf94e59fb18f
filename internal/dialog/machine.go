// Package dialog реализует пошаговый диалог ввода одной транзакции:
// сумма, тип, категория, необязательное описание — и ровно один вызов
// записи на диалог.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"budgetbot/internal/catalog"
	"budgetbot/internal/model"
)

// ErrInvariant сигнализирует о нарушении внутреннего инварианта диалога:
// выбор категории вне показанного списка или несовпадение ее типа с
// черновиком. Это ошибка логики, а не пользовательского ввода; до записи
// она не доходит.
var ErrInvariant = errors.New("dialog invariant violation")

// Sink — приемник готовых транзакций. Реализация добавляет ровно одну
// строку в таблицу, выбранную по kind.
type Sink interface {
	Record(ctx context.Context, kind model.Kind, amount decimal.Decimal, description, category string) error
}

// session — состояние диалога одного пользователя. Mutex сериализует
// перекрывающиеся события одного пользователя: машина не рассчитана на
// параллельные переходы над общим черновиком.
type session struct {
	mu       sync.Mutex
	state    State
	draft    model.Draft
	rendered []catalog.Entry // список категорий, показанный на шаге выбора
}

func (s *session) reset() {
	s.state = StateIdle
	s.draft = model.Draft{}
	s.rendered = nil
}

// Machine — машина состояний диалога, разделяемая всеми пользователями.
// Сессии создаются неявно при первом событии и сбрасываются в StateIdle
// терминальным переходом.
type Machine struct {
	catalog *catalog.Catalog
	sink    Sink
	log     *logrus.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewMachine(cat *catalog.Catalog, sink Sink, log *logrus.Logger) *Machine {
	return &Machine{
		catalog:  cat,
		sink:     sink,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

func (m *Machine) session(userID int64) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &session{}
		m.sessions[userID] = s
	}
	return s
}

// StateOf возвращает текущее состояние диалога пользователя.
func (m *Machine) StateOf(userID int64) State {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset сбрасывает диалог пользователя и возвращает стартовое меню.
func (m *Machine) Reset(userID int64) Reply {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return Reply{Text: msgGreeting, Choices: Choices{Kinds: true}}
}

// Handle применяет событие к диалогу пользователя и возвращает ответ для
// отрисовки. Ошибка возвращается только при нарушении инварианта; ошибки
// пользовательского ввода и ошибки записи выражаются текстом ответа.
func (m *Machine) Handle(ctx context.Context, userID int64, ev Event) (Reply, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state
	reply, err := m.transition(ctx, s, ev)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"user_id": userID,
			"state":   before.String(),
			"event":   ev.eventName(),
		}).WithError(err).Error("событие отклонено")
		return Reply{}, err
	}

	m.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"draft_id": s.draft.ID,
		"event":    ev.eventName(),
		"from":     before.String(),
		"to":       s.state.String(),
	}).Debug("переход диалога")
	return reply, nil
}

func (m *Machine) transition(ctx context.Context, s *session, ev Event) (Reply, error) {
	// Отмена допустима из любого состояния и всегда выбрасывает черновик.
	if _, ok := ev.(Cancel); ok {
		s.reset()
		return Reply{Text: msgCancelled, Terminal: true}, nil
	}

	switch s.state {
	case StateIdle:
		return m.fromIdle(s, ev), nil
	case StateAwaitingAmount:
		return m.fromAwaitingAmount(s, ev), nil
	case StateAwaitingType:
		return m.fromAwaitingType(s, ev), nil
	case StateAwaitingCategory:
		return m.fromAwaitingCategory(s, ev)
	case StateAwaitingDescription:
		return m.fromAwaitingDescription(ctx, s, ev), nil
	default:
		return Reply{}, fmt.Errorf("%w: unexpected state %d", ErrInvariant, s.state)
	}
}

// fromIdle обрабатывает две точки входа: голое число начинает диалог с
// суммы, кнопка типа — с типа. Оба пути сходятся на выборе категории.
func (m *Machine) fromIdle(s *session, ev Event) Reply {
	switch e := ev.(type) {
	case Text:
		amount, err := model.ParseAmount(e.Value)
		if err != nil {
			// Не число — просто показываем меню, состояние не меняется.
			return Reply{Text: msgMenu, Choices: Choices{Kinds: true}}
		}
		s.draft = model.NewDraft()
		s.draft.Amount = amount
		s.state = StateAwaitingType
		return Reply{
			Text:    fmt.Sprintf(msgAmountThenAsk, amount),
			Choices: Choices{Kinds: true},
		}
	case SelectKind:
		s.draft = model.NewDraft()
		s.draft.Kind = e.Kind
		s.state = StateAwaitingAmount
		return Reply{
			Text: fmt.Sprintf("%s Добавляем %s\n\n%s",
				kindEmoji(e.Kind), kindName(e.Kind), msgEnterAmount),
		}
	default:
		// Устаревшая кнопка из прошлого диалога: показываем меню заново.
		return Reply{Text: msgMenu, Choices: Choices{Kinds: true}}
	}
}

func (m *Machine) fromAwaitingAmount(s *session, ev Event) Reply {
	switch e := ev.(type) {
	case Text:
		amount, err := model.ParseAmount(e.Value)
		if err != nil {
			// Переспрашиваем, не сбрасывая диалог.
			return Reply{Text: msgBadAmount}
		}
		s.draft.Amount = amount
		s.state = StateAwaitingCategory
		return m.promptCategories(s)
	default:
		return Reply{Text: msgEnterAmount}
	}
}

func (m *Machine) fromAwaitingType(s *session, ev Event) Reply {
	switch e := ev.(type) {
	case SelectKind:
		s.draft.Kind = e.Kind
		s.state = StateAwaitingCategory
		return m.promptCategories(s)
	default:
		return Reply{
			Text:    fmt.Sprintf(msgAmountThenAsk, s.draft.Amount),
			Choices: Choices{Kinds: true},
		}
	}
}

// promptCategories фильтрует справочник по типу черновика и запоминает
// показанный список: последующий выбор индексируется именно в него.
func (m *Machine) promptCategories(s *session) Reply {
	s.rendered = m.catalog.Filter(s.draft.Kind)
	if len(s.rendered) == 0 {
		// Справочник пуст или недоступен: остаемся на шаге выбора,
		// предлагая только отмену.
		return Reply{Text: msgNoCategories, Choices: Choices{Cancel: true}}
	}
	return Reply{
		Text: fmt.Sprintf("%s %s\n💵 Сумма: %s\n\n%s",
			kindEmoji(s.draft.Kind), kindTitle(s.draft.Kind), s.draft.Amount, msgPickCategory),
		Choices: Choices{Categories: s.rendered, Cancel: true},
	}
}

func (m *Machine) fromAwaitingCategory(s *session, ev Event) (Reply, error) {
	switch e := ev.(type) {
	case SelectCategory:
		if e.Index < 0 || e.Index >= len(s.rendered) {
			return Reply{}, fmt.Errorf("%w: category index %d outside rendered set of %d",
				ErrInvariant, e.Index, len(s.rendered))
		}
		entry := s.rendered[e.Index]
		if entry.Kind != s.draft.Kind {
			return Reply{}, fmt.Errorf("%w: category %q is %s, draft is %s",
				ErrInvariant, entry.Name, entry.Kind, s.draft.Kind)
		}
		s.draft.Category = entry.Name
		s.state = StateAwaitingDescription
		return Reply{
			Text: fmt.Sprintf("%s %s\n💵 Сумма: %s\n🏷 Категория: %s\n\n%s",
				kindEmoji(s.draft.Kind), kindTitle(s.draft.Kind),
				s.draft.Amount, entry.Name, msgAskDesc),
			Choices: Choices{Skip: true, Cancel: true},
		}, nil
	default:
		return m.promptCategories(s), nil
	}
}

func (m *Machine) fromAwaitingDescription(ctx context.Context, s *session, ev Event) Reply {
	switch e := ev.(type) {
	case Text:
		return m.persist(ctx, s, model.NormalizeDescription(e.Value))
	case SkipDescription:
		return m.persist(ctx, s, model.SkippedDescription)
	default:
		return Reply{Text: msgAskDesc, Choices: Choices{Skip: true, Cancel: true}}
	}
}

// persist — терминальный переход: единственный вызов Sink за диалог.
// Диалог сбрасывается в StateIdle независимо от исхода записи, повторных
// попыток нет, черновик не сохраняется.
func (m *Machine) persist(ctx context.Context, s *session, description string) Reply {
	s.draft.Description = description
	draft := s.draft
	s.reset()

	if err := m.sink.Record(ctx, draft.Kind, draft.Amount, draft.Description, draft.Category); err != nil {
		m.log.WithFields(logrus.Fields{
			"draft_id": draft.ID,
			"kind":     draft.Kind.String(),
			"amount":   draft.Amount.String(),
		}).WithError(err).Error("ошибка записи транзакции")
		return Reply{Text: msgSaveFailed, Terminal: true}
	}
	return Reply{Text: successText(draft), Terminal: true}
}
