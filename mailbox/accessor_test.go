package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/types"
)

func TestAccessorConfig(t *testing.T) {
	da := NewAccessor(maildb.NewMemDatabase())

	assert.Nil(t, da.ReadConfig())

	config := Config{LocalDomain: 26657, Hrp: "osmo", DefaultIsm: "ism", DefaultHook: "hook"}
	require.NoError(t, da.WriteConfig(&config))

	got := da.ReadConfig()
	require.NotNil(t, got)
	assert.Equal(t, config, *got)
}

func TestAccessorNonce(t *testing.T) {
	da := NewAccessor(maildb.NewMemDatabase())

	assert.EqualValues(t, 0, da.ReadNonce())

	require.NoError(t, da.WriteNonce(da.db, 42))
	assert.EqualValues(t, 42, da.ReadNonce())

	// batched writes surface only after Write
	batch := da.NewBatch()
	require.NoError(t, da.WriteNonce(batch, 43))
	require.NoError(t, da.WriteLatestDispatchedId(batch, types.HexToHash("0xff")))
	assert.EqualValues(t, 42, da.ReadNonce())
	require.NoError(t, batch.Write())
	assert.EqualValues(t, 43, da.ReadNonce())
	assert.Equal(t, types.HexToHash("0xff"), da.ReadLatestDispatchedId())
}

func TestAccessorDelivery(t *testing.T) {
	da := NewAccessor(maildb.NewMemDatabase())
	id := types.BytesToHash([]byte("some message id"))

	assert.False(t, da.HasDelivery(id))
	assert.Nil(t, da.ReadDelivery(id))

	require.NoError(t, da.WriteDelivery(id, &Delivery{Relayer: "relayer"}))
	assert.True(t, da.HasDelivery(id))

	got := da.ReadDelivery(id)
	require.NotNil(t, got)
	assert.Equal(t, "relayer", got.Relayer)
}
