package ownable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/types"
)

const (
	owner    = "owner"
	notOwner = "not_owner"
	next     = "next_owner"
)

func newRegistry(t *testing.T) *Registry {
	r := NewRegistry(maildb.NewMemDatabase(), nil)
	require.NoError(t, r.Initialize(owner))
	return r
}

func TestInitializeOnce(t *testing.T) {
	r := NewRegistry(maildb.NewMemDatabase(), nil)
	require.NoError(t, r.Initialize(owner))
	assert.Error(t, r.Initialize(notOwner))

	got, err := r.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestInitTransfer(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, types.ErrUnauthorized, r.InitTransfer(notOwner, next))

	require.NoError(t, r.InitTransfer(owner, next))
	pending, err := r.PendingOwner()
	require.NoError(t, err)
	assert.Equal(t, next, pending)

	// only one outstanding proposal at a time
	assert.Equal(t, types.ErrTransferAlreadyPending, r.InitTransfer(owner, "someone_else"))
}

func TestRevokeTransfer(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, types.ErrNoPendingTransfer, r.RevokeTransfer(owner))

	require.NoError(t, r.InitTransfer(owner, next))
	assert.Equal(t, types.ErrUnauthorized, r.RevokeTransfer(notOwner))
	require.NoError(t, r.RevokeTransfer(owner))

	pending, err := r.PendingOwner()
	require.NoError(t, err)
	assert.Equal(t, "", pending)

	got, err := r.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestClaimOwnership(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, types.ErrNoPendingTransfer, r.ClaimOwnership(next))

	require.NoError(t, r.InitTransfer(owner, next))
	assert.Equal(t, types.ErrUnauthorized, r.ClaimOwnership(notOwner))
	// the previous owner cannot claim either
	assert.Equal(t, types.ErrUnauthorized, r.ClaimOwnership(owner))

	require.NoError(t, r.ClaimOwnership(next))

	got, err := r.Owner()
	require.NoError(t, err)
	assert.Equal(t, next, got)

	pending, err := r.PendingOwner()
	require.NoError(t, err)
	assert.Equal(t, "", pending)

	// a fresh transfer can start from the new owner
	require.NoError(t, r.InitTransfer(next, owner))
}
