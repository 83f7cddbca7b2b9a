package mailbox

import (
	"sync"

	"github.com/relaymesh/mailbox/types"
)

// Coin is a fee attached to a dispatch, forwarded untouched to the hook.
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}

type Funds []Coin

// SecurityModule verifies the authenticity of an inbound message given opaque
// proof metadata. Verify must be side-effect-free from the mailbox's
// perspective.
type SecurityModule interface {
	Verify(metadata []byte, rawMessage []byte) (bool, error)
}

// Hook performs post-dispatch side effects such as fee collection or extra
// relay triggers.
type Hook interface {
	PostDispatch(metadata []byte, message types.Message, funds Funds) error
}

// Recipient is the local contract an inbound message is addressed to.
// SecurityModule returns the address of a recipient-specified verifier, or ""
// to fall back to the mailbox default.
type Recipient interface {
	SecurityModule() string
	Handle(origin uint32, sender []byte, body []byte) error
}

// OutboundCall is a collaborator invocation an operation schedules for
// execution after its own effects are committed. The surrounding environment
// issues the calls in order; the mailbox never assumes a call completed
// before the operation returned.
type OutboundCall struct {
	Target string
	Call   func() error
}

// Registry resolves collaborator addresses to in-process implementations.
type Registry struct {
	mu         sync.RWMutex
	hooks      map[string]Hook
	modules    map[string]SecurityModule
	recipients map[string]Recipient
}

func NewRegistry() *Registry {
	return &Registry{
		hooks:      make(map[string]Hook),
		modules:    make(map[string]SecurityModule),
		recipients: make(map[string]Recipient),
	}
}

func (r *Registry) RegisterHook(addr string, h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[addr] = h
}

func (r *Registry) RegisterModule(addr string, m SecurityModule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[addr] = m
}

func (r *Registry) RegisterRecipient(addr string, rec Recipient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipients[addr] = rec
}

func (r *Registry) Hook(addr string) (Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hooks[addr]
	return h, ok
}

func (r *Registry) Module(addr string) (SecurityModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[addr]
	return m, ok
}

func (r *Registry) Recipient(addr string) (Recipient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipients[addr]
	return rec, ok
}
