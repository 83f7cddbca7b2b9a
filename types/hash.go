// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/relaymesh/mailbox/common"
)

// Length of hash in bytes.
const (
	HashLength = 32
)

// Hash represents the 32 byte identity of a message.
type Hash struct {
	Bytes [HashLength]byte
}

type Hashes []Hash

func (h *Hash) Empty() bool {
	var hs Hash
	return bytes.Equal(h.Bytes[:], hs.Bytes[:])
}

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.MustSetBytes(b)
	return h
}

// HexToHash sets byte representation of s to Hash.
// If b is larger than len(h), b will be cropped from the left.
func HexToHash(s string) Hash {
	b, _ := common.FromHex(s)
	return BytesToHash(b)
}

// HexStringToHash parses s strictly, rejecting bad hex and bad lengths.
func HexStringToHash(s string) (Hash, error) {
	var h Hash
	b, err := common.FromHex(s)
	if err != nil {
		return h, err
	}
	err = h.SetBytes(b)
	return h, err
}

// ToBytes converts Hash to []byte.
func (h Hash) ToBytes() []byte { return h.Bytes[:] }

// Hex converts a hash to a hex string.
func (h Hash) Hex() string { return common.ToHex(h.Bytes[:]) }

func (h Hash) String() string {
	return h.Hex()
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), returns an error.
func (h *Hash) SetBytes(b []byte) error {
	if len(b) > len(h.Bytes) {
		return fmt.Errorf("byte to set is longer than expected length: %d v.s. %d", len(b), len(h.Bytes))
	}
	h.Bytes = [HashLength]byte{}
	copy(h.Bytes[HashLength-len(b):], b)
	return nil
}

// MustSetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) MustSetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	h.Bytes = [HashLength]byte{}
	copy(h.Bytes[HashLength-len(b):], b)
}

// Cmp compares two hashes.
// Returns 0 if two hashes are same. -1 if h < another. 1 if h > another.
func (h Hash) Cmp(another Hash) int {
	return bytes.Compare(h.Bytes[:], another.Bytes[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	hash, err := HexStringToHash(s)
	if err != nil {
		return err
	}
	*h = hash
	return nil
}
