package mailbox

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/mailbox/common"
	"github.com/relaymesh/mailbox/eventbus"
	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/types"
)

const (
	localDomain = 26657
	destDomain  = 11155111
	hrp         = "osmo"

	defaultIsmAddr  = "default_ism"
	defaultHookAddr = "default_hook"
	ownerAddr       = "owner"
)

type fakeHook struct {
	calls    int
	lastMsg  types.Message
	lastMeta []byte
}

func (h *fakeHook) PostDispatch(metadata []byte, message types.Message, funds Funds) error {
	h.calls++
	h.lastMsg = message
	h.lastMeta = metadata
	return nil
}

type fakeIsm struct {
	verified bool
	calls    int
}

func (i *fakeIsm) Verify(metadata []byte, rawMessage []byte) (bool, error) {
	i.calls++
	return i.verified, nil
}

type fakeRecipient struct {
	ism     string
	handled int
	origin  uint32
	sender  []byte
	body    []byte
}

func (r *fakeRecipient) SecurityModule() string { return r.ism }

func (r *fakeRecipient) Handle(origin uint32, sender []byte, body []byte) error {
	r.handled++
	r.origin = origin
	r.sender = sender
	r.body = body
	return nil
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func newTestBus() *eventbus.DefaultEventBus {
	bus := new(eventbus.DefaultEventBus)
	bus.InitDefault()
	bus.Build()
	return bus
}

func newTestMailbox(t *testing.T) (*Mailbox, *Registry) {
	registry := NewRegistry()
	mb := NewMailbox(maildb.NewMemDatabase(), registry, newTestBus())
	err := mb.Initialize(Config{
		LocalDomain: localDomain,
		Hrp:         hrp,
		DefaultIsm:  defaultIsmAddr,
		DefaultHook: defaultHookAddr,
	}, ownerAddr)
	require.NoError(t, err)
	return mb, registry
}

func nativeAddr(t *testing.T, raw []byte) string {
	addr, err := common.AddressFormat{Hrp: hrp}.Denormalize(raw)
	require.NoError(t, err)
	return addr
}

func issue(t *testing.T, calls []OutboundCall) {
	for _, call := range calls {
		require.NoError(t, call.Call())
	}
}

func TestInitializeOnce(t *testing.T) {
	mb, _ := newTestMailbox(t)
	err := mb.Initialize(Config{LocalDomain: 1, Hrp: hrp}, ownerAddr)
	assert.Error(t, err)
}

func TestDispatch(t *testing.T) {
	mb, registry := newTestMailbox(t)
	hook := &fakeHook{}
	registry.RegisterHook(defaultHookAddr, hook)

	senderRaw := randomBytes(32)
	sender := nativeAddr(t, senderRaw)
	recipient := randomBytes(32)
	body := randomBytes(123)

	id, calls, err := mb.Dispatch(sender, DispatchRequest{
		DestDomain: destDomain,
		Recipient:  recipient,
		Body:       body,
	})
	require.NoError(t, err)

	expected := types.NewMessage(MailboxVersion, 0, localDomain, senderRaw,
		destDomain, recipient, body)
	assert.Equal(t, expected.Id(), id)

	assert.EqualValues(t, 1, mb.Nonce())
	assert.Equal(t, id, mb.LatestDispatchedId())

	// state advanced before the hook call is even issued
	assert.Equal(t, 0, hook.calls)
	issue(t, calls)
	assert.Equal(t, 1, hook.calls)
	assert.EqualValues(t, 0, hook.lastMsg.Nonce)
	assert.EqualValues(t, localDomain, hook.lastMsg.OriginDomain)
}

func TestDispatchNonceStrictlyIncrements(t *testing.T) {
	mb, registry := newTestMailbox(t)
	registry.RegisterHook(defaultHookAddr, &fakeHook{})

	sender := nativeAddr(t, randomBytes(32))
	for i := uint32(0); i < 3; i++ {
		assert.Equal(t, i, mb.Nonce())
		id, _, err := mb.Dispatch(sender, DispatchRequest{
			DestDomain: destDomain,
			Recipient:  randomBytes(32),
			Body:       randomBytes(10),
		})
		require.NoError(t, err)
		assert.Equal(t, id, mb.LatestDispatchedId())
	}
	assert.EqualValues(t, 3, mb.Nonce())
}

func TestDispatchRecipientLength(t *testing.T) {
	mb, registry := newTestMailbox(t)
	registry.RegisterHook(defaultHookAddr, &fakeHook{})
	sender := nativeAddr(t, randomBytes(32))

	_, _, err := mb.Dispatch(sender, DispatchRequest{
		DestDomain: destDomain,
		Recipient:  randomBytes(33),
	})
	require.Error(t, err)
	lenErr, ok := err.(*types.InvalidAddressLengthError)
	require.True(t, ok, "want InvalidAddressLengthError, got %T", err)
	assert.Equal(t, 33, lenErr.Len)
	// rejected dispatch leaves no state change
	assert.EqualValues(t, 0, mb.Nonce())

	_, _, err = mb.Dispatch(sender, DispatchRequest{
		DestDomain: destDomain,
		Recipient:  randomBytes(32),
	})
	assert.NoError(t, err)
}

func TestDispatchHookOverride(t *testing.T) {
	mb, registry := newTestMailbox(t)
	def := &fakeHook{}
	override := &fakeHook{}
	registry.RegisterHook(defaultHookAddr, def)
	registry.RegisterHook("special_hook", override)

	sender := nativeAddr(t, randomBytes(32))
	_, calls, err := mb.Dispatch(sender, DispatchRequest{
		DestDomain:   destDomain,
		Recipient:    randomBytes(32),
		Hook:         "special_hook",
		HookMetadata: []byte{0xbe, 0xef},
	})
	require.NoError(t, err)
	issue(t, calls)

	assert.Equal(t, 0, def.calls)
	assert.Equal(t, 1, override.calls)
	assert.Equal(t, []byte{0xbe, 0xef}, override.lastMeta)
}

func inboundMessage(recipient []byte) types.Message {
	return types.NewMessage(MailboxVersion, 123, destDomain, randomBytes(32),
		localDomain, recipient, randomBytes(123))
}

func TestProcess(t *testing.T) {
	mb, registry := newTestMailbox(t)
	ism := &fakeIsm{verified: true}
	registry.RegisterModule(defaultIsmAddr, ism)

	recipientRaw := randomBytes(32)
	recipient := &fakeRecipient{}
	registry.RegisterRecipient(nativeAddr(t, recipientRaw), recipient)

	msg := inboundMessage(recipientRaw)
	calls, err := mb.Process("relayer", []byte{1}, msg.Encode())
	require.NoError(t, err)
	assert.Equal(t, 1, ism.calls)

	issue(t, calls)
	assert.Equal(t, 1, recipient.handled)
	assert.EqualValues(t, destDomain, recipient.origin)
	assert.Equal(t, msg.Sender, recipient.sender)
	assert.Equal(t, msg.Body, recipient.body)

	delivery := mb.Delivered(msg.Id())
	require.NotNil(t, delivery)
	assert.Equal(t, "relayer", delivery.Relayer)
}

func TestProcessInvalidVersion(t *testing.T) {
	mb, registry := newTestMailbox(t)
	registry.RegisterModule(defaultIsmAddr, &fakeIsm{verified: true})

	msg := inboundMessage(randomBytes(32))
	msg.Version = 99

	_, err := mb.Process("relayer", nil, msg.Encode())
	require.Error(t, err)
	vErr, ok := err.(*types.InvalidMessageVersionError)
	require.True(t, ok, "want InvalidMessageVersionError, got %T", err)
	assert.EqualValues(t, 99, vErr.Version)
	// validation failure leaves the delivery ledger unchanged
	assert.Nil(t, mb.Delivered(msg.Id()))
}

func TestProcessInvalidDestinationDomain(t *testing.T) {
	mb, registry := newTestMailbox(t)
	registry.RegisterModule(defaultIsmAddr, &fakeIsm{verified: true})

	msg := inboundMessage(randomBytes(32))
	msg.DestDomain = destDomain

	_, err := mb.Process("relayer", nil, msg.Encode())
	require.Error(t, err)
	dErr, ok := err.(*types.InvalidDestinationDomainError)
	require.True(t, ok, "want InvalidDestinationDomainError, got %T", err)
	assert.EqualValues(t, destDomain, dErr.Domain)
	assert.Nil(t, mb.Delivered(msg.Id()))
}

func TestProcessMalformed(t *testing.T) {
	mb, _ := newTestMailbox(t)
	_, err := mb.Process("relayer", nil, randomBytes(10))
	require.Error(t, err)
	_, ok := err.(*types.MalformedMessageError)
	assert.True(t, ok, "want MalformedMessageError, got %T", err)
}

func TestProcessDuplicate(t *testing.T) {
	mb, registry := newTestMailbox(t)
	registry.RegisterModule(defaultIsmAddr, &fakeIsm{verified: true})

	msg := inboundMessage(randomBytes(32))
	_, err := mb.Process("relayer", nil, msg.Encode())
	require.NoError(t, err)

	_, err = mb.Process("another_relayer", nil, msg.Encode())
	assert.Equal(t, types.ErrAlreadyDelivered, err)

	// first relayer keeps the ledger entry
	delivery := mb.Delivered(msg.Id())
	require.NotNil(t, delivery)
	assert.Equal(t, "relayer", delivery.Relayer)
}

func TestProcessVerifyFailureConsumesId(t *testing.T) {
	mb, registry := newTestMailbox(t)
	registry.RegisterModule(defaultIsmAddr, &fakeIsm{verified: false})

	msg := inboundMessage(randomBytes(32))
	_, err := mb.Process("relayer", []byte{0}, msg.Encode())
	assert.Equal(t, types.ErrVerificationFailed, err)

	// the delivery record is written before verification, so the id is
	// consumed permanently even though verification failed
	require.NotNil(t, mb.Delivered(msg.Id()))

	// resubmission with different proof metadata still fails, but as a
	// duplicate rather than a verification failure
	_, err = mb.Process("relayer", []byte{1}, msg.Encode())
	assert.Equal(t, types.ErrAlreadyDelivered, err)
}

func TestProcessRecipientIsmPreferred(t *testing.T) {
	mb, registry := newTestMailbox(t)
	def := &fakeIsm{verified: true}
	own := &fakeIsm{verified: true}
	registry.RegisterModule(defaultIsmAddr, def)
	registry.RegisterModule("recipient_ism", own)

	recipientRaw := randomBytes(32)
	registry.RegisterRecipient(nativeAddr(t, recipientRaw), &fakeRecipient{ism: "recipient_ism"})

	_, err := mb.Process("relayer", nil, inboundMessage(recipientRaw).Encode())
	require.NoError(t, err)
	assert.Equal(t, 0, def.calls)
	assert.Equal(t, 1, own.calls)
}

func TestSetDefaultIsm(t *testing.T) {
	mb, _ := newTestMailbox(t)
	newIsm := nativeAddr(t, randomBytes(32))

	assert.Equal(t, types.ErrUnauthorized, mb.SetDefaultIsm("not_owner", newIsm))
	assert.Error(t, mb.SetDefaultIsm(ownerAddr, "not an address"))

	require.NoError(t, mb.SetDefaultIsm(ownerAddr, newIsm))
	assert.Equal(t, newIsm, mb.Config().DefaultIsm)
	// the hook default is untouched
	assert.Equal(t, defaultHookAddr, mb.Config().DefaultHook)
}

func TestSetDefaultHook(t *testing.T) {
	mb, _ := newTestMailbox(t)
	newHook := nativeAddr(t, randomBytes(32))

	assert.Equal(t, types.ErrUnauthorized, mb.SetDefaultHook("not_owner", newHook))
	require.NoError(t, mb.SetDefaultHook(ownerAddr, newHook))
	assert.Equal(t, newHook, mb.Config().DefaultHook)
}

func TestOwnershipTransferViaMailbox(t *testing.T) {
	mb, _ := newTestMailbox(t)
	next := nativeAddr(t, randomBytes(32))

	assert.Equal(t, types.ErrUnauthorized, mb.InitOwnershipTransfer("not_owner", next))
	require.NoError(t, mb.InitOwnershipTransfer(ownerAddr, next))

	pending, err := mb.PendingOwner()
	require.NoError(t, err)
	assert.Equal(t, next, pending)

	assert.Equal(t, types.ErrUnauthorized, mb.ClaimOwnership("someone_else"))
	require.NoError(t, mb.ClaimOwnership(next))

	owner, err := mb.Owner()
	require.NoError(t, err)
	assert.Equal(t, next, owner)
}

// End to end: dispatch on a domain 26657 endpoint and check every persisted
// effect against the canonical message identity.
func TestDispatchEndToEnd(t *testing.T) {
	mb, registry := newTestMailbox(t)
	hook := &fakeHook{}
	registry.RegisterHook(defaultHookAddr, hook)

	senderRaw := randomBytes(32)
	recipient := randomBytes(32)
	body := []byte("hello hyperspace")

	require.EqualValues(t, 0, mb.Nonce())

	id, calls, err := mb.Dispatch(nativeAddr(t, senderRaw), DispatchRequest{
		DestDomain: destDomain,
		Recipient:  recipient,
		Body:       body,
	})
	require.NoError(t, err)
	issue(t, calls)

	assert.EqualValues(t, 0, hook.lastMsg.Nonce)
	assert.EqualValues(t, localDomain, hook.lastMsg.OriginDomain)

	assert.EqualValues(t, 1, mb.Nonce())
	assert.Equal(t, hook.lastMsg.Id(), id)
	assert.Equal(t, id, mb.LatestDispatchedId())
}
