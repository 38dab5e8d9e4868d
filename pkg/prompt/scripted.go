// Package prompt provides non-interactive Prompter implementations.
//
// Scripted answers dialogs from queued replies and is used by the HTTP and MCP
// hosts, where a press request carries the dialog answers up front, and by tests.
package prompt

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
)

type addressReply struct {
	addr domain.Address
	ok   bool
}

type pickReply struct {
	at time.Time
	ok bool
}

// Scripted is a Prompter that replays queued answers.
// An empty queue behaves like the user dismissing the dialog.
type Scripted struct {
	mu        sync.Mutex
	addresses []addressReply
	picks     []pickReply
	notices   []string
	modes     []domain.PickerMode
}

// NewScripted creates an empty Scripted prompter.
func NewScripted() *Scripted {
	return &Scripted{}
}

// QueueAddress queues a submitted address dialog.
func (s *Scripted) QueueAddress(a domain.Address) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, addressReply{addr: a, ok: true})
	return s
}

// DismissAddress queues a dismissed address dialog.
func (s *Scripted) DismissAddress() *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, addressReply{})
	return s
}

// QueuePick queues a confirmed date/time picker.
func (s *Scripted) QueuePick(at time.Time) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.picks = append(s.picks, pickReply{at: at, ok: true})
	return s
}

// CancelPick queues a cancelled date/time picker.
func (s *Scripted) CancelPick() *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.picks = append(s.picks, pickReply{})
	return s
}

// Notify records msg and returns immediately.
func (s *Scripted) Notify(ctx context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, msg)
	return ctx.Err()
}

// PromptAddress pops the next queued address reply.
func (s *Scripted) PromptAddress(ctx context.Context) (domain.Address, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Address{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.addresses) == 0 {
		return domain.Address{}, false, nil
	}
	r := s.addresses[0]
	s.addresses = s.addresses[1:]
	return r.addr, r.ok, nil
}

// PickDateTime pops the next queued picker reply.
func (s *Scripted) PickDateTime(ctx context.Context, mode domain.PickerMode) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes = append(s.modes, mode)
	if len(s.picks) == 0 {
		return time.Time{}, false, nil
	}
	r := s.picks[0]
	s.picks = s.picks[1:]
	return r.at, r.ok, nil
}

// Notices returns every message shown so far.
func (s *Scripted) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notices...)
}

// Modes returns the picker modes requested so far.
func (s *Scripted) Modes() []domain.PickerMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PickerMode(nil), s.modes...)
}
