package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/bridge_bot/internal/filter"
	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/Freeeeeet/bridge_bot/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Завис пул или БД — роняем событие с ошибкой хранилища, а не весь роутер
const storageTimeout = 10 * time.Second

// Message — входящее сообщение в том объёме, который нужен роутеру.
// HasMedia означает, что доставлять надо копированием (copyMessage),
// а не новым текстовым сообщением.
type Message struct {
	ChatID   int64
	ID       int
	Text     string
	Caption  string
	HasMedia bool
}

// Body возвращает текст для контентного фильтра: подпись к медиа или текст
func (m Message) Body() string {
	if m.Caption != "" {
		return m.Caption
	}
	return m.Text
}

// RelayService — роутер анонимного моста. На каждое входящее событие
// перечитывает привязки и маршруты из хранилища, ничего не кэшируя:
// решение всегда принимается по актуальному состоянию.
type RelayService struct {
	transport Transport
	bindings  *BindingService
	threads   ThreadStore
	settings  SettingsStore
	filter    *filter.Engine
	adminIDs  []int64
	threadTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewRelayService(
	transport Transport,
	bindings *BindingService,
	threads ThreadStore,
	settings SettingsStore,
	filterEngine *filter.Engine,
	adminIDs []int64,
	threadTTL time.Duration,
	logger *zap.Logger,
) *RelayService {
	return &RelayService{
		transport: transport,
		bindings:  bindings,
		threads:   threads,
		settings:  settings,
		filter:    filterEngine,
		adminIDs:  adminIDs,
		threadTTL: threadTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// RelayFromStudent пересылает сообщение студента его куратору, скрывая
// личность студента за тикетом. Маршрут ответа записывается строго после
// успешной отправки: неудачная доставка не оставляет осиротевших записей.
func (s *RelayService) RelayFromStudent(ctx context.Context, msg Message) error {
	// 1. Контентный фильтр
	if verdict := s.filter.Evaluate(msg.Body()); verdict.Blocked {
		s.reportBlocked(ctx, "student→curator", msg.ChatID, verdict, msg.Body())
		return &BlockedError{Reason: verdict.Reason, Pattern: verdict.Pattern}
	}

	// 2. Определяем куратора
	binding, err := s.resolveBinding(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	// 3. Доставляем и запоминаем маршрут ответа
	header := fmt.Sprintf("Новое сообщение от %s", binding.Ticket)

	if !msg.HasMedia {
		sentID, err := s.transport.SendText(ctx, binding.CuratorID, header+"\n——\n"+msg.Text)
		if err != nil {
			return fmt.Errorf("relay text to curator: %w", err)
		}
		return s.recordThread(ctx, binding.CuratorID, sentID, msg.ChatID)
	}

	// Медиа копируем (никогда не форвардим — forward раскрыл бы отправителя)
	copiedID, err := s.transport.CopyMessage(ctx, binding.CuratorID, msg.ChatID, msg.ID)
	if err != nil {
		return fmt.Errorf("copy media to curator: %w", err)
	}
	if err := s.recordThread(ctx, binding.CuratorID, copiedID, msg.ChatID); err != nil {
		return err
	}

	// Медиа без подписи сопровождаем отдельным заголовком с тикетом.
	// Копия уже доставлена и записана, поэтому неудача заголовка не фатальна.
	if msg.Caption == "" {
		headerID, err := s.transport.SendText(ctx, binding.CuratorID, header)
		if err != nil {
			s.logger.Warn("Failed to send ticket header to curator",
				zap.Int64("curator_id", binding.CuratorID),
				zap.Error(err),
			)
			return nil
		}
		return s.recordThread(ctx, binding.CuratorID, headerID, msg.ChatID)
	}

	return nil
}

// RelayFromCurator доставляет ответ куратора студенту, определяя адресата
// по сообщению, на которое куратор ответил. Запись маршрута не удаляется:
// на одно сообщение можно отвечать несколько раз, пока её не вычистит евиктор.
func (s *RelayService) RelayFromCurator(ctx context.Context, msg Message, repliedToID int) error {
	if verdict := s.filter.Evaluate(msg.Body()); verdict.Blocked {
		s.reportBlocked(ctx, "curator→student", msg.ChatID, verdict, msg.Body())
		return &BlockedError{Reason: verdict.Reason, Pattern: verdict.Pattern}
	}

	sctx, cancel := s.storageCtx(ctx)
	studentID, ok, err := s.threads.Resolve(sctx, msg.ChatID, repliedToID)
	cancel()
	if err != nil {
		return fmt.Errorf("resolve reply thread: %w", err)
	}
	if !ok {
		return ErrUnknownThread
	}

	return s.deliverToStudent(ctx, studentID, msg)
}

// SendDirect доставляет сообщение куратора студенту напрямую (команда /to)
func (s *RelayService) SendDirect(ctx context.Context, curatorID, studentID int64, msg Message) error {
	if verdict := s.filter.Evaluate(msg.Body()); verdict.Blocked {
		s.reportBlocked(ctx, "curator→student (/to)", curatorID, verdict, msg.Body())
		return &BlockedError{Reason: verdict.Reason, Pattern: verdict.Pattern}
	}

	return s.deliverToStudent(ctx, studentID, msg)
}

// NotifyAdmins рассылает служебное сообщение всем администраторам.
// Ошибки доставки отдельным админам логируются и не прерывают рассылку.
func (s *RelayService) NotifyAdmins(ctx context.Context, text string) {
	for _, adminID := range s.adminIDs {
		if _, err := s.transport.SendText(ctx, adminID, text); err != nil {
			s.logger.Warn("Failed to notify admin",
				zap.Int64("admin_id", adminID),
				zap.Error(err),
			)
		}
	}
}

// IsCurator решает, считать ли отправителя куратором: у него есть хотя бы
// один закреплённый студент, либо он назначен запасным куратором. Без второй
// проверки запасной куратор без единого /link попадал бы в студенческий
// маршрут и его ответы уходили бы ему же самому.
func (s *RelayService) IsCurator(ctx context.Context, telegramID int64) (bool, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	isCurator, err := s.bindings.IsCurator(sctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("check curator bindings: %w", err)
	}
	if isCurator {
		return true, nil
	}

	curatorID, ok, err := s.settings.DefaultCurator(sctx)
	if err != nil {
		return false, fmt.Errorf("check default curator: %w", err)
	}

	return ok && curatorID == telegramID, nil
}

// SetDefaultCurator задаёт запасного куратора для студентов без привязки
func (s *RelayService) SetDefaultCurator(ctx context.Context, curatorID int64) error {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	if err := s.settings.SetDefaultCurator(sctx, curatorID); err != nil {
		return fmt.Errorf("set default curator: %w", err)
	}

	s.logger.Info("Default curator updated", zap.Int64("curator_id", curatorID))
	return nil
}

// EvictExpired удаляет маршруты ответов старше настроенного TTL
func (s *RelayService) EvictExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.threadTTL)

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	count, err := s.threads.EvictOlderThan(sctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("evict expired threads: %w", err)
	}

	return count, nil
}

// resolveBinding находит куратора студента: явная привязка, иначе
// default_curator. Запасной куратор используется на лету и НЕ превращается
// в настоящую привязку — только админский /link создаёт запись.
func (s *RelayService) resolveBinding(ctx context.Context, studentID int64) (*model.Binding, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	binding, err := s.bindings.CuratorFor(sctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("lookup binding: %w", err)
	}
	if binding != nil {
		return binding, nil
	}

	curatorID, ok, err := s.settings.DefaultCurator(sctx)
	if err != nil {
		return nil, fmt.Errorf("lookup default curator: %w", err)
	}
	if !ok {
		s.NotifyAdmins(ctx, fmt.Sprintf(
			"⚠️ NO-DELIVERY: у студента %s нет куратора. Задайте default_curator или используйте /link.",
			s.bindings.TicketFor(studentID),
		))
		return nil, ErrUnbound
	}

	return &model.Binding{
		StudentID: studentID,
		CuratorID: curatorID,
		Ticket:    s.bindings.TicketFor(studentID),
	}, nil
}

func (s *RelayService) deliverToStudent(ctx context.Context, studentID int64, msg Message) error {
	if msg.HasMedia {
		if _, err := s.transport.CopyMessage(ctx, studentID, msg.ChatID, msg.ID); err != nil {
			return fmt.Errorf("copy media to student: %w", err)
		}
		return nil
	}

	text := msg.Text
	if text == "" {
		text = "(сообщение куратора)"
	}
	if _, err := s.transport.SendText(ctx, studentID, text); err != nil {
		return fmt.Errorf("send text to student: %w", err)
	}
	return nil
}

// recordThread запоминает маршрут ответа. Дубликат message_id — нарушение
// инварианта (один relay — одна запись): логируем как баг, но событие
// завершаем успешно, сообщение куратору уже доставлено.
func (s *RelayService) recordThread(ctx context.Context, curatorChatID int64, messageID int, studentID int64) error {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	err := s.threads.Record(sctx, curatorChatID, messageID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateThread) {
			s.logger.Error("Duplicate thread entry, routing invariant violated",
				zap.Int64("curator_chat_id", curatorChatID),
				zap.Int("message_id", messageID),
			)
			return nil
		}
		return fmt.Errorf("record thread: %w", err)
	}

	return nil
}

// reportBlocked логирует блокировку и уведомляет админов с incident id,
// по которому событие ищется в логах
func (s *RelayService) reportBlocked(ctx context.Context, direction string, senderID int64, verdict filter.Verdict, body string) {
	incidentID := uuid.NewString()

	s.logger.Warn("Message blocked by content filter",
		zap.String("incident_id", incidentID),
		zap.String("direction", direction),
		zap.Int64("sender_id", senderID),
		zap.String("reason", verdict.Reason),
		zap.String("pattern", verdict.Pattern),
	)

	s.NotifyAdmins(ctx, fmt.Sprintf(
		"⛔ BLOCKED (%s) от %d [%s]: %s\n%s",
		direction, senderID, incidentID, verdict.Reason, body,
	))
}

func (s *RelayService) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storageTimeout)
}
