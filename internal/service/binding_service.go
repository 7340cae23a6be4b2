package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"go.uber.org/zap"
)

type BindingService struct {
	bindings     BindingStore
	ticketPrefix string
	logger       *zap.Logger
}

func NewBindingService(bindings BindingStore, ticketPrefix string, logger *zap.Logger) *BindingService {
	return &BindingService{
		bindings:     bindings,
		ticketPrefix: ticketPrefix,
		logger:       logger,
	}
}

// Link привязывает студента к куратору, генерируя анонимный тикет.
// Повторная привязка того же студента заменяет куратора, не дублируя запись.
func (s *BindingService) Link(ctx context.Context, studentID, curatorID int64) (*model.Binding, error) {
	ticket := s.TicketFor(studentID)

	err := s.bindings.Link(ctx, studentID, curatorID, ticket)
	if err != nil {
		return nil, fmt.Errorf("link binding: %w", err)
	}

	s.logger.Info("Student linked",
		zap.String("ticket", ticket),
		zap.Int64("curator_id", curatorID),
	)

	return &model.Binding{
		StudentID: studentID,
		CuratorID: curatorID,
		Ticket:    ticket,
	}, nil
}

// Unlink удаляет привязку студента. Возвращает true, если она существовала.
func (s *BindingService) Unlink(ctx context.Context, studentID int64) (bool, error) {
	existed, err := s.bindings.Unlink(ctx, studentID)
	if err != nil {
		return false, fmt.Errorf("unlink binding: %w", err)
	}

	if existed {
		s.logger.Info("Student unlinked", zap.String("ticket", s.TicketFor(studentID)))
	}

	return existed, nil
}

// CuratorFor возвращает привязку студента или nil
func (s *BindingService) CuratorFor(ctx context.Context, studentID int64) (*model.Binding, error) {
	return s.bindings.CuratorFor(ctx, studentID)
}

// List возвращает все привязки для админского /list
func (s *BindingService) List(ctx context.Context) ([]model.Binding, error) {
	return s.bindings.All(ctx)
}

// Roster возвращает студентов куратора в порядке привязки
func (s *BindingService) Roster(ctx context.Context, curatorID int64) ([]model.Binding, error) {
	return s.bindings.StudentsFor(ctx, curatorID)
}

// IsCurator проверяет, закреплён ли за пользователем хотя бы один студент
func (s *BindingService) IsCurator(ctx context.Context, telegramID int64) (bool, error) {
	return s.bindings.IsCurator(ctx, telegramID)
}

// ResolveStudent находит студента по числовому id или анонимному тикету (для /to)
func (s *BindingService) ResolveStudent(ctx context.Context, ident string) (int64, error) {
	if id, err := strconv.ParseInt(ident, 10, 64); err == nil {
		return id, nil
	}

	binding, err := s.bindings.StudentByTicket(ctx, ident)
	if err != nil {
		return 0, fmt.Errorf("resolve student by ticket: %w", err)
	}
	if binding == nil {
		return 0, ErrStudentNotFound
	}

	return binding.StudentID, nil
}

// TicketFor строит анонимный тикет студента: префикс + последние 4 цифры id.
// Формула детерминированная, поэтому тикет студента без привязки
// (доставка через default_curator) совпадает с будущим тикетом после /link.
func (s *BindingService) TicketFor(studentID int64) string {
	digits := strconv.FormatInt(studentID, 10)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return s.ticketPrefix + digits
}
