package common

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFormatRoundTrip(t *testing.T) {
	format := AddressFormat{Hrp: "osmo"}

	raw := make([]byte, WireAddressLength)
	rand.Read(raw)

	addr, err := format.Denormalize(raw)
	require.NoError(t, err)
	require.NoError(t, format.Validate(addr))

	back, err := format.Normalize(addr)
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestNormalizePadsShortAddresses(t *testing.T) {
	format := AddressFormat{Hrp: "neutron"}

	raw := make([]byte, 20)
	rand.Read(raw)

	addr, err := format.Denormalize(raw)
	require.NoError(t, err)

	wire, err := format.Normalize(addr)
	require.NoError(t, err)
	assert.Equal(t, WireAddressLength, len(wire))
	assert.Equal(t, raw, wire[WireAddressLength-len(raw):])
}

func TestNormalizeRejectsWrongHrp(t *testing.T) {
	osmo := AddressFormat{Hrp: "osmo"}
	neutron := AddressFormat{Hrp: "neutron"}

	raw := make([]byte, WireAddressLength)
	rand.Read(raw)
	addr, err := osmo.Denormalize(raw)
	require.NoError(t, err)

	_, err = neutron.Normalize(addr)
	assert.Error(t, err)
	assert.Error(t, neutron.Validate(addr))
}

func TestValidateRejectsGarbage(t *testing.T) {
	format := AddressFormat{Hrp: "osmo"}
	assert.Error(t, format.Validate("definitely not bech32"))
	assert.Error(t, format.Validate(""))
}
