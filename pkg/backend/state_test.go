package backend

import (
	"errors"
	"testing"
)

var noop = func() error { return nil }

func TestUpdate(t *testing.T) {
	s := StateClosed
	if err := s.Update(StateOpened, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateOpened {
		t.Fatalf("expected %s, got %s", StateOpened, s)
	}

	if err := s.Update(StateRunning, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateRunning {
		t.Fatalf("expected %s, got %s", StateRunning, s)
	}

	if err := s.Update(StateRunning, noop); err == nil {
		t.Fatal("expected running -> running to fail")
	}

	if err := s.Update(StateOpened, noop); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(StateOpened, noop); err == nil {
		t.Fatal("expected opened -> opened to fail")
	}

	if err := s.Update(StateClosed, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateClosed {
		t.Fatalf("expected %s, got %s", StateClosed, s)
	}
}

func TestUpdateFailure(t *testing.T) {
	s := StateClosed
	if err := s.Update(StateRunning, noop); err == nil {
		t.Fatal("expected closed -> running to fail")
	}

	errExpected := errors.New("an error")
	if err := s.Update(StateOpened, func() error { return errExpected }); err != errExpected {
		t.Fatalf("expected %v, got %v", errExpected, err)
	}
	if s != StateClosed {
		t.Fatalf("state must not change when f fails, got %s", s)
	}
}
