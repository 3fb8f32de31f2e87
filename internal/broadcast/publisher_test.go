package broadcast

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) listener(name string) ports.Listener {
	return ports.ListenerFunc(func(domain.Snapshot) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)
		return nil
	})
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func snap(remaining int) domain.Snapshot {
	return domain.Snapshot{State: domain.Working, Remaining: remaining, TotalSessions: 4}
}

func TestPublisher_RegistrationOrder(t *testing.T) {
	p := New(nil)
	rec := &recorder{}

	p.Subscribe("a", rec.listener("a"))
	p.Subscribe("b", rec.listener("b"))
	p.Subscribe("c", rec.listener("c"))

	for i := 0; i < 3; i++ {
		require.Empty(t, p.Publish(snap(i)))
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a", "b", "c"}, rec.snapshot())
}

func TestPublisher_Unsubscribe(t *testing.T) {
	p := New(nil)
	rec := &recorder{}

	p.Subscribe("a", rec.listener("a"))
	unsubB := p.Subscribe("b", rec.listener("b"))
	assert.Equal(t, 2, p.Len())

	unsubB()
	unsubB()
	assert.Equal(t, 1, p.Len())

	p.Publish(snap(1))
	assert.Equal(t, []string{"a"}, rec.snapshot())
}

func TestPublisher_ErrorIsolation(t *testing.T) {
	var logs bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&logs, nil)))
	rec := &recorder{}
	boom := errors.New("boom")

	p.Subscribe("first", rec.listener("first"))
	p.Subscribe("failing", ports.ListenerFunc(func(domain.Snapshot) error { return boom }))
	p.Subscribe("panicking", ports.ListenerFunc(func(domain.Snapshot) error { panic("bad listener") }))
	p.Subscribe("last", rec.listener("last"))

	errs := p.Publish(snap(5))

	assert.Equal(t, []string{"first", "last"}, rec.snapshot())
	require.Len(t, errs, 2)

	var deliveryErr *domain.ListenerDeliveryError
	require.ErrorAs(t, errs[0], &deliveryErr)
	assert.Equal(t, "failing", deliveryErr.Listener)
	assert.ErrorIs(t, errs[0], boom)

	require.ErrorAs(t, errs[1], &deliveryErr)
	assert.Equal(t, "panicking", deliveryErr.Listener)
	assert.Contains(t, errs[1].Error(), "bad listener")

	assert.Contains(t, logs.String(), "listener failed to handle timer update")
	assert.Contains(t, logs.String(), "listener=failing")
}

func TestPublisher_NoListeners(t *testing.T) {
	var logs bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	assert.Nil(t, p.Publish(snap(1)))
	assert.Contains(t, logs.String(), "no listeners for timer update")
}

func TestPublisher_SubscribeDuringPublish(t *testing.T) {
	p := New(nil)
	rec := &recorder{}

	var once sync.Once
	p.Subscribe("a", ports.ListenerFunc(func(s domain.Snapshot) error {
		once.Do(func() { p.Subscribe("late", rec.listener("late")) })
		return rec.listener("a").OnTimerUpdate(s)
	}))

	p.Publish(snap(2))
	assert.Equal(t, []string{"a"}, rec.snapshot(), "late listener must not see the in-flight publish")

	p.Publish(snap(1))
	assert.Equal(t, []string{"a", "a", "late"}, rec.snapshot())
}

func TestPublisher_UnsubscribeDuringPublish(t *testing.T) {
	p := New(nil)
	rec := &recorder{}

	var unsubB func()
	p.Subscribe("a", ports.ListenerFunc(func(s domain.Snapshot) error {
		unsubB()
		return rec.listener("a").OnTimerUpdate(s)
	}))
	unsubB = p.Subscribe("b", rec.listener("b"))

	p.Publish(snap(2))
	assert.Equal(t, []string{"a", "b"}, rec.snapshot(), "in-flight publish keeps its captured list")

	p.Publish(snap(1))
	assert.Equal(t, []string{"a", "b", "a"}, rec.snapshot())
}

func TestPublisher_ConcurrentSubscribe(t *testing.T) {
	p := New(nil)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := p.Subscribe("worker", ports.ListenerFunc(func(domain.Snapshot) error { return nil }))
			unsub()
		}()
		go func(i int) {
			defer wg.Done()
			p.Publish(snap(i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, p.Len())
}
