package backend

import "fmt"

// State represents a runtime's lifecycle state.
type State string

const (
	// StateClosed means the runtime has not been opened, or has been closed. No
	// entity exists and no event is delivered.
	StateClosed State = "closed"
	// StateOpened means the runtime accepts requests and has created its master
	// mixer and global effect bus, but its processing cycle is not advancing.
	StateOpened State = "opened"
	// StateRunning means the processing cycle is advancing playback.
	StateRunning State = "running"
)

// Update updates current state, s, to next. If f fails to execute,
// s will stay unchanged. Otherwise, s will be updated to next
func (s *State) Update(next State, f func() error) error {
	checks := map[State]func() error{
		StateOpened:  s.toOpened,
		StateClosed:  s.toClosed,
		StateRunning: s.toRunning,
	}

	check, ok := checks[next]
	if !ok {
		return fmt.Errorf("invalid state: unknown target %q", next)
	}
	if err := check(); err != nil {
		return err
	}

	if err := f(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *State) toOpened() error {
	if *s == StateClosed || *s == "" {
		return nil
	}
	if *s == StateRunning {
		// suspend
		return nil
	}
	return fmt.Errorf("invalid state: runtime is already opened")
}

func (s *State) toClosed() error {
	return nil
}

func (s *State) toRunning() error {
	if *s == StateClosed || *s == "" {
		return fmt.Errorf("invalid state: runtime is closed")
	}

	if *s == StateRunning {
		return fmt.Errorf("invalid state: runtime is already running")
	}

	return nil
}
