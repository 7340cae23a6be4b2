package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/Freeeeeet/bridge_bot/internal/repository"
)

// memBindings — потокобезопасная in-memory реализация BindingStore
type memBindings struct {
	mu    sync.Mutex
	items map[int64]model.Binding
	order []int64 // порядок привязки
}

func newMemBindings() *memBindings {
	return &memBindings{items: make(map[int64]model.Binding)}
}

func (s *memBindings) Link(_ context.Context, studentID, curatorID int64, ticket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[studentID]; exists {
		s.removeFromOrder(studentID)
	}
	s.items[studentID] = model.Binding{
		StudentID: studentID,
		CuratorID: curatorID,
		Ticket:    ticket,
		LinkedAt:  time.Now(),
	}
	s.order = append(s.order, studentID)
	return nil
}

func (s *memBindings) Unlink(_ context.Context, studentID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[studentID]; !exists {
		return false, nil
	}
	delete(s.items, studentID)
	s.removeFromOrder(studentID)
	return true, nil
}

func (s *memBindings) CuratorFor(_ context.Context, studentID int64) (*model.Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, exists := s.items[studentID]; exists {
		return &b, nil
	}
	return nil, nil
}

func (s *memBindings) StudentsFor(_ context.Context, curatorID int64) ([]model.Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Binding
	for _, id := range s.order {
		if b := s.items[id]; b.CuratorID == curatorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memBindings) All(_ context.Context) ([]model.Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Binding, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *memBindings) StudentByTicket(_ context.Context, ticket string) (*model.Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.items {
		if b.Ticket == ticket {
			return &b, nil
		}
	}
	return nil, nil
}

func (s *memBindings) IsCurator(_ context.Context, curatorID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.items {
		if b.CuratorID == curatorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBindings) removeFromOrder(studentID int64) {
	for i, id := range s.order {
		if id == studentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// memThreads — in-memory реализация ThreadStore
type memThreads struct {
	mu    sync.Mutex
	items map[string]model.ThreadEntry
	now   func() time.Time
}

func newMemThreads() *memThreads {
	return &memThreads{
		items: make(map[string]model.ThreadEntry),
		now:   time.Now,
	}
}

func threadKey(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

func (s *memThreads) Record(_ context.Context, curatorChatID int64, messageID int, studentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := threadKey(curatorChatID, messageID)
	if _, exists := s.items[key]; exists {
		return repository.ErrDuplicateThread
	}
	s.items[key] = model.ThreadEntry{
		CuratorChatID: curatorChatID,
		MessageID:     messageID,
		StudentID:     studentID,
		CreatedAt:     s.now(),
	}
	return nil
}

func (s *memThreads) Resolve(_ context.Context, curatorChatID int64, messageID int) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.items[threadKey(curatorChatID, messageID)]; exists {
		return entry.StudentID, true, nil
	}
	return 0, false, nil
}

func (s *memThreads) EvictOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for key, entry := range s.items {
		if entry.CreatedAt.Before(cutoff) {
			delete(s.items, key)
			count++
		}
	}
	return count, nil
}

func (s *memThreads) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// memSettings — in-memory реализация SettingsStore
type memSettings struct {
	mu             sync.Mutex
	defaultCurator int64
	hasDefault     bool
}

func (s *memSettings) DefaultCurator(_ context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultCurator, s.hasDefault, nil
}

func (s *memSettings) SetDefaultCurator(_ context.Context, curatorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultCurator = curatorID
	s.hasDefault = true
	return nil
}

// sentMessage — одна исходящая отправка фейкового транспорта
type sentMessage struct {
	ChatID     int64
	Text       string
	FromChatID int64 // только для копий
	CopiedID   int   // message_id оригинала, только для копий
	IsCopy     bool
	MessageID  int // выданный message_id
}

var errSendFailed = errors.New("send failed")

// fakeTransport записывает отправки и выдаёт монотонные message_id.
// failNext заставляет следующую отправку упасть.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	nextID   int
	failNext bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 100}
}

func (t *fakeTransport) SendText(_ context.Context, chatID int64, text string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failNext {
		t.failNext = false
		return 0, errSendFailed
	}
	t.nextID++
	t.sent = append(t.sent, sentMessage{
		ChatID:    chatID,
		Text:      text,
		MessageID: t.nextID,
	})
	return t.nextID, nil
}

func (t *fakeTransport) CopyMessage(_ context.Context, toChatID, fromChatID int64, messageID int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failNext {
		t.failNext = false
		return 0, errSendFailed
	}
	t.nextID++
	t.sent = append(t.sent, sentMessage{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		CopiedID:   messageID,
		IsCopy:     true,
		MessageID:  t.nextID,
	})
	return t.nextID, nil
}

// sentTo возвращает отправки в конкретный чат
func (t *fakeTransport) sentTo(chatID int64) []sentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []sentMessage
	for _, msg := range t.sent {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

// staticRules — неизменяемый источник правил для фильтра в тестах
type staticRules struct {
	rules []model.FilterRule
}

func (s *staticRules) List(_ context.Context) ([]model.FilterRule, error) {
	return s.rules, nil
}
