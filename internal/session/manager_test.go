package session_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	var active atomic.Int64
	m := session.NewManager(session.WithObserver(func(d int64) { active.Add(d) }))

	s := m.Create(workout.ModeQuickStart, nil)
	if got, err := m.Get(s.ID); err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if m.Len() != 1 || active.Load() != 1 {
		t.Errorf("Len = %d, active = %d; want 1, 1", m.Len(), active.Load())
	}

	err := s.Do(func(tr *session.Tracker) error {
		_, err := tr.Commit(workout.LoggedSet{Exercise: "Squat", Weight: 60, Reps: 5})
		return err
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if s.State().CurrentExercise != "Squat" {
		t.Error("commit through Do not visible in State")
	}

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(s.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if err := m.Delete(s.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
	if active.Load() != 0 {
		t.Errorf("active = %d, want 0", active.Load())
	}
}

func TestManager_Sweep(t *testing.T) {
	t.Parallel()

	m := session.NewManager(session.WithIdleTimeout(time.Minute))
	m.Create(workout.ModeQuickStart, nil)

	if n := m.Sweep(time.Now()); n != 0 {
		t.Errorf("Sweep(now) removed %d, want 0", n)
	}
	if n := m.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("Sweep(+2m) removed %d, want 1", n)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestManager_StartStop(t *testing.T) {
	t.Parallel()

	m := session.NewManager(
		session.WithIdleTimeout(time.Millisecond),
		session.WithSweepInterval(5*time.Millisecond),
	)
	m.Create(workout.ModeQuickStart, nil)

	m.Start(t.Context())
	deadline := time.Now().Add(2 * time.Second)
	for m.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Stop()
	m.Stop()

	if m.Len() != 0 {
		t.Error("background sweep did not expire idle session")
	}
}

func TestMemJournal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var j session.MemJournal
	if err := j.Append(ctx, "s1", workout.LoggedSet{Exercise: "Squat", Reps: 5}); err != nil {
		t.Fatal(err)
	}
	got, _ := j.List(ctx, "s1")
	if len(got) != 1 || got[0].Exercise != "Squat" {
		t.Errorf("List(s1) = %v", got)
	}
	none, _ := j.List(ctx, "missing")
	if none == nil || len(none) != 0 {
		t.Errorf("List(missing) = %#v, want empty non-nil", none)
	}
}

func TestManager_SweepDoesNotWaitOnBusySession(t *testing.T) {
	t.Parallel()

	m := session.NewManager(session.WithIdleTimeout(time.Minute))
	busy := m.Create(workout.ModeQuickStart, nil)
	other := m.Create(workout.ModeQuickStart, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = busy.Do(func(*session.Tracker) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	done := make(chan int, 1)
	go func() { done <- m.Sweep(time.Now()) }()
	select {
	case n := <-done:
		if n != 0 {
			t.Errorf("Sweep removed %d, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Sweep blocked behind a session in use")
	}

	got := make(chan error, 1)
	go func() {
		_, err := m.Get(other.ID)
		got <- err
	}()
	select {
	case err := <-got:
		if err != nil {
			t.Errorf("Get: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Get blocked behind a session in use")
	}

	if n := m.Sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Errorf("Sweep(+2m) removed %d, want 2", n)
	}
}
