package common

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// WireAddressLength is the fixed width of an address once normalized to the
// interchain wire form. Native addresses shorter than this are left-padded
// with zero bytes.
const WireAddressLength = 32

// AddressFormat holds the parameters needed to translate this chain's native
// bech32 addresses to and from the fixed-width wire form.
type AddressFormat struct {
	Hrp string
}

// Validate checks that addr is a well-formed native address under this format.
func (f AddressFormat) Validate(addr string) error {
	hrp, _, err := bech32.Decode(addr)
	if err != nil {
		return fmt.Errorf("malformed address %s: %v", addr, err)
	}
	if hrp != f.Hrp {
		return fmt.Errorf("address %s has hrp %s, want %s", addr, hrp, f.Hrp)
	}
	return nil
}

// Normalize converts a native address to the left-padded fixed-width wire form.
func (f AddressFormat) Normalize(addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("malformed address %s: %v", addr, err)
	}
	if hrp != f.Hrp {
		return nil, fmt.Errorf("address %s has hrp %s, want %s", addr, hrp, f.Hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, err
	}
	if len(raw) > WireAddressLength {
		return nil, fmt.Errorf("address %s decodes to %d bytes, max %d", addr, len(raw), WireAddressLength)
	}
	return LeftPadBytes(raw, WireAddressLength), nil
}

// Denormalize converts a fixed-width wire value back to a native address.
func (f AddressFormat) Denormalize(raw []byte) (string, error) {
	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	addr, err := bech32.Encode(f.Hrp, data)
	if err != nil {
		return "", err
	}
	return addr, nil
}
