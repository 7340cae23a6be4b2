package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBindingService() (*BindingService, *memBindings) {
	store := newMemBindings()
	return NewBindingService(store, "S", zap.NewNop()), store
}

func TestLinkReplacesExistingBinding(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBindingService()

	_, err := svc.Link(ctx, 111222, 10)
	require.NoError(t, err)
	_, err = svc.Link(ctx, 111222, 20)
	require.NoError(t, err)

	binding, err := svc.CuratorFor(ctx, 111222)
	require.NoError(t, err)
	require.NotNil(t, binding)
	require.Equal(t, int64(20), binding.CuratorID)

	// Прошлая привязка заменена, а не задублирована
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUnlinkThenLookup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBindingService()

	_, err := svc.Link(ctx, 42, 10)
	require.NoError(t, err)

	existed, err := svc.Unlink(ctx, 42)
	require.NoError(t, err)
	require.True(t, existed)

	binding, err := svc.CuratorFor(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, binding)

	// Повторный unlink сообщает, что привязки уже не было
	existed, err = svc.Unlink(ctx, 42)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestTicketFormat(t *testing.T) {
	svc, _ := newTestBindingService()

	require.Equal(t, "S4567", svc.TicketFor(1234567))
	require.Equal(t, "S42", svc.TicketFor(42))
}

func TestRosterInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBindingService()

	for _, studentID := range []int64{301, 101, 201} {
		_, err := svc.Link(ctx, studentID, 10)
		require.NoError(t, err)
	}
	_, err := svc.Link(ctx, 999, 20) // чужой студент
	require.NoError(t, err)

	roster, err := svc.Roster(ctx, 10)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	require.Equal(t, int64(301), roster[0].StudentID)
	require.Equal(t, int64(101), roster[1].StudentID)
	require.Equal(t, int64(201), roster[2].StudentID)
}

func TestResolveStudentByIDAndTicket(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBindingService()

	_, err := svc.Link(ctx, 1234567, 10)
	require.NoError(t, err)

	id, err := svc.ResolveStudent(ctx, "1234567")
	require.NoError(t, err)
	require.Equal(t, int64(1234567), id)

	id, err = svc.ResolveStudent(ctx, "S4567")
	require.NoError(t, err)
	require.Equal(t, int64(1234567), id)

	_, err = svc.ResolveStudent(ctx, "S0000")
	require.True(t, errors.Is(err, ErrStudentNotFound))
}

func TestConcurrentLinksNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBindingService()

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Link(ctx, int64(1000+i), int64(10+i%3))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, fmt.Sprintf("link %d failed", i))
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
}
