package mailbox

import (
	"github.com/relaymesh/mailbox/common"
)

//go:generate msgp
//msgp:tuple Config

// Config is the mailbox endpoint configuration. LocalDomain and Hrp are fixed
// at initialization; the defaults are mutable through owner-gated operations.
type Config struct {
	LocalDomain uint32 `msgp:"local_domain"`
	Hrp         string `msgp:"hrp"`
	DefaultIsm  string `msgp:"default_ism"`
	DefaultHook string `msgp:"default_hook"`
}

// AddressFormat returns the native address format context of this endpoint.
func (c Config) AddressFormat() common.AddressFormat {
	return common.AddressFormat{Hrp: c.Hrp}
}

//msgp:tuple Delivery

// Delivery is a ledger entry recording who relayed a message id. Entry
// existence is the sole deduplication signal; entries are never removed.
type Delivery struct {
	Relayer string `msgp:"relayer"`
}
