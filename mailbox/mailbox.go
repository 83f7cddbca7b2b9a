// Package mailbox implements the core of an interchain messaging relay
// endpoint: outbound dispatch with durable message identity, and inbound
// process with verification and delivery deduplication.
package mailbox

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/relaymesh/mailbox/eventbus"
	"github.com/relaymesh/mailbox/events"
	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/ownable"
	"github.com/relaymesh/mailbox/types"
)

// MailboxVersion is the protocol version dispatched messages are built
// against. Inbound messages carrying any other version are rejected.
const MailboxVersion uint8 = 3

const deliveredCacheSize = 65536

// DispatchRequest is an outbound send submitted by a local caller.
type DispatchRequest struct {
	DestDomain uint32
	Recipient  []byte
	Body       []byte

	// Hook overrides the configured default hook when non-empty.
	Hook         string
	HookMetadata []byte
	Funds        Funds
}

// Mailbox is the single endpoint state machine. All operations are serialized;
// mutual exclusion over the persisted state is structural.
type Mailbox struct {
	mu sync.Mutex

	accessor *Accessor
	owners   *ownable.Registry
	registry *Registry
	bus      *eventbus.DefaultEventBus

	// hot-path cache over the delivery ledger; the ledger itself stays the
	// source of truth.
	delivered *lru.Cache
}

func NewMailbox(db maildb.Database, registry *Registry, bus *eventbus.DefaultEventBus) *Mailbox {
	cache, _ := lru.New(deliveredCacheSize)
	return &Mailbox{
		accessor:  NewAccessor(db),
		owners:    ownable.NewRegistry(db, bus),
		registry:  registry,
		bus:       bus,
		delivered: cache,
	}
}

// Initialize persists the endpoint configuration, the zero nonce and the
// initial owner. Calling it on an already initialized endpoint is an error.
func (mb *Mailbox) Initialize(config Config, owner string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if mb.accessor.ReadConfig() != nil {
		return fmt.Errorf("mailbox already initialized")
	}
	if err := mb.accessor.WriteConfig(&config); err != nil {
		return err
	}
	if err := mb.accessor.WriteNonce(mb.accessor.db, 0); err != nil {
		return err
	}
	if err := mb.owners.Initialize(owner); err != nil {
		return err
	}
	logrus.WithField("localDomain", config.LocalDomain).WithField("owner", owner).
		Info("mailbox initialized")
	return nil
}

// Dispatch accepts an outbound message, assigns it the next nonce, persists
// its identity and schedules the post-dispatch hook call. The nonce and
// latest-id updates commit before the hook call is issued.
func (mb *Mailbox) Dispatch(sender string, req DispatchRequest) (types.Hash, []OutboundCall, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	config := mb.mustConfig()
	nonce := mb.accessor.ReadNonce()

	if len(req.Recipient) > types.HashLength {
		return types.Hash{}, nil, &types.InvalidAddressLengthError{Len: len(req.Recipient)}
	}

	hookAddr := req.Hook
	if hookAddr == "" {
		hookAddr = config.DefaultHook
	}
	if hookAddr == "" {
		panic("default_hook not set")
	}

	senderRaw, err := config.AddressFormat().Normalize(sender)
	if err != nil {
		return types.Hash{}, nil, err
	}

	msg := types.NewMessage(MailboxVersion, nonce, config.LocalDomain, senderRaw,
		req.DestDomain, req.Recipient, req.Body)
	id := msg.Id()

	// effects: both commit before the hook invocation is issued
	batch := mb.accessor.NewBatch()
	if err := mb.accessor.WriteNonce(batch, nonce+1); err != nil {
		return types.Hash{}, nil, err
	}
	if err := mb.accessor.WriteLatestDispatchedId(batch, id); err != nil {
		return types.Hash{}, nil, err
	}
	if err := batch.Write(); err != nil {
		return types.Hash{}, nil, err
	}

	metadata := req.HookMetadata
	funds := req.Funds
	calls := []OutboundCall{{
		Target: hookAddr,
		Call: func() error {
			hook, ok := mb.registry.Hook(hookAddr)
			if !ok {
				return fmt.Errorf("hook %s not registered", hookAddr)
			}
			return hook.PostDispatch(metadata, msg, funds)
		},
	}}

	logrus.WithField("id", id).WithField("nonce", nonce).WithField("dest", req.DestDomain).
		Info("message dispatched")
	mb.bus.Route(&events.DispatchIdEvent{MessageId: id})
	mb.bus.Route(&events.DispatchedEvent{Message: msg})

	return id, calls, nil
}

// Process accepts an inbound raw message, validates it against the local
// configuration, verifies it through the resolved security module, records
// the delivery and schedules the recipient handle call.
//
// The delivery record is written before verification on purpose: a failed
// verification permanently consumes the message id, so the same id can never
// be retried with different proof metadata.
func (mb *Mailbox) Process(relayer string, metadata []byte, rawMessage []byte) ([]OutboundCall, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	config := mb.mustConfig()

	msg, err := types.DecodeMessage(rawMessage)
	if err != nil {
		return nil, err
	}

	recipient, err := config.AddressFormat().Denormalize(msg.Recipient)
	if err != nil {
		return nil, &types.InvalidRecipientEncodingError{Reason: err.Error()}
	}

	if msg.Version != MailboxVersion {
		return nil, &types.InvalidMessageVersionError{Version: msg.Version}
	}
	if msg.DestDomain != config.LocalDomain {
		return nil, &types.InvalidDestinationDomainError{Domain: msg.DestDomain}
	}

	id := msg.Id()

	ismAddr := ""
	if rec, ok := mb.registry.Recipient(recipient); ok {
		ismAddr = rec.SecurityModule()
	}
	if ismAddr == "" {
		ismAddr = config.DefaultIsm
	}
	if ismAddr == "" {
		panic("default_ism not set")
	}

	if mb.delivered.Contains(id) || mb.accessor.HasDelivery(id) {
		return nil, types.ErrAlreadyDelivered
	}

	// mark intent-to-deliver before verification
	if err := mb.accessor.WriteDelivery(id, &Delivery{Relayer: relayer}); err != nil {
		return nil, err
	}
	mb.delivered.Add(id, struct{}{})

	ism, ok := mb.registry.Module(ismAddr)
	if !ok {
		panic(fmt.Sprintf("ism %s not registered", ismAddr))
	}
	verified, err := ism.Verify(metadata, rawMessage)
	if err != nil || !verified {
		if err != nil {
			logrus.WithError(err).WithField("id", id).Warn("ism verify errored")
		}
		return nil, types.ErrVerificationFailed
	}

	origin := msg.OriginDomain
	sender := msg.Sender
	body := msg.Body
	calls := []OutboundCall{{
		Target: recipient,
		Call: func() error {
			rec, ok := mb.registry.Recipient(recipient)
			if !ok {
				return fmt.Errorf("recipient %s not registered", recipient)
			}
			return rec.Handle(origin, sender, body)
		},
	}}

	logrus.WithField("id", id).WithField("origin", origin).WithField("recipient", recipient).
		Info("message processed")
	mb.bus.Route(&events.ProcessIdEvent{MessageId: id})
	mb.bus.Route(&events.ProcessedEvent{
		Domain:    config.LocalDomain,
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
	})

	return calls, nil
}

// SetDefaultIsm overwrites the default security module. Owner only.
func (mb *Mailbox) SetDefaultIsm(caller string, addr string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	config := mb.mustConfig()
	if err := mb.requireOwner(caller); err != nil {
		return err
	}
	if err := config.AddressFormat().Validate(addr); err != nil {
		return err
	}
	config.DefaultIsm = addr
	if err := mb.accessor.WriteConfig(config); err != nil {
		return err
	}
	logrus.WithField("owner", caller).WithField("ism", addr).Info("default ism set")
	mb.bus.Route(&events.DefaultIsmSetEvent{Owner: caller, NewIsm: addr})
	return nil
}

// SetDefaultHook overwrites the default post-dispatch hook. Owner only.
func (mb *Mailbox) SetDefaultHook(caller string, addr string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	config := mb.mustConfig()
	if err := mb.requireOwner(caller); err != nil {
		return err
	}
	if err := config.AddressFormat().Validate(addr); err != nil {
		return err
	}
	config.DefaultHook = addr
	if err := mb.accessor.WriteConfig(config); err != nil {
		return err
	}
	logrus.WithField("owner", caller).WithField("hook", addr).Info("default hook set")
	mb.bus.Route(&events.DefaultHookSetEvent{Owner: caller, NewHook: addr})
	return nil
}

// InitOwnershipTransfer, RevokeOwnershipTransfer and ClaimOwnership expose the
// ownership state machine under the mailbox's operation lock.
func (mb *Mailbox) InitOwnershipTransfer(caller string, nextOwner string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if err := mb.mustConfig().AddressFormat().Validate(nextOwner); err != nil {
		return err
	}
	return mb.owners.InitTransfer(caller, nextOwner)
}

func (mb *Mailbox) RevokeOwnershipTransfer(caller string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.owners.RevokeTransfer(caller)
}

func (mb *Mailbox) ClaimOwnership(caller string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.owners.ClaimOwnership(caller)
}

// Queries. Every persisted item is individually addressable.

func (mb *Mailbox) Nonce() uint32 {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.accessor.ReadNonce()
}

func (mb *Mailbox) LatestDispatchedId() types.Hash {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.accessor.ReadLatestDispatchedId()
}

// Delivered returns the ledger entry for id, or nil if never delivered.
func (mb *Mailbox) Delivered(id types.Hash) *Delivery {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.accessor.ReadDelivery(id)
}

func (mb *Mailbox) Config() *Config {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.accessor.ReadConfig()
}

func (mb *Mailbox) Owner() (string, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.owners.Owner()
}

func (mb *Mailbox) PendingOwner() (string, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.owners.PendingOwner()
}

func (mb *Mailbox) requireOwner(caller string) error {
	owner, err := mb.owners.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return types.ErrUnauthorized
	}
	return nil
}

func (mb *Mailbox) mustConfig() *Config {
	config := mb.accessor.ReadConfig()
	if config == nil {
		panic("mailbox not initialized")
	}
	return config
}
