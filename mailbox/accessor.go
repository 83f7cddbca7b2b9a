package mailbox

import (
	"encoding/binary"

	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/types"
)

var (
	prefixConfigKey           = []byte("config")
	prefixNonceKey            = []byte("nonce")
	prefixLatestDispatchedKey = []byte("latestid")

	prefixDeliveryKey = []byte("dv")
)

func configKey() []byte {
	return prefixConfigKey
}

func nonceKey() []byte {
	return prefixNonceKey
}

func latestDispatchedKey() []byte {
	return prefixLatestDispatchedKey
}

func deliveryKey(id types.Hash) []byte {
	return append(prefixDeliveryKey, id.ToBytes()...)
}

// Accessor reads and writes mailbox state through prefixed keys.
type Accessor struct {
	db maildb.Database
}

func NewAccessor(db maildb.Database) *Accessor {
	return &Accessor{db: db}
}

// ReadConfig gets the endpoint configuration from db.
// return nil if the endpoint was never initialized.
func (da *Accessor) ReadConfig() *Config {
	data, _ := da.db.Get(configKey())
	if len(data) == 0 {
		return nil
	}
	var config Config
	_, err := config.UnmarshalMsg(data)
	if err != nil {
		return nil
	}
	return &config
}

// WriteConfig writes the endpoint configuration into db.
func (da *Accessor) WriteConfig(config *Config) error {
	data, err := config.MarshalMsg(nil)
	if err != nil {
		return err
	}
	return da.db.Put(configKey(), data)
}

// ReadNonce gets the dispatch nonce counter. Starts at 0.
func (da *Accessor) ReadNonce() uint32 {
	data, _ := da.db.Get(nonceKey())
	if len(data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(data)
}

// WriteNonce writes the dispatch nonce counter through putter, which may be a
// batch so that it commits together with the latest dispatched id.
func (da *Accessor) WriteNonce(putter maildb.Putter, nonce uint32) error {
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], nonce)
	return putter.Put(nonceKey(), data[:])
}

// ReadLatestDispatchedId gets the id of the most recently dispatched message.
// return an empty hash if nothing was dispatched yet.
func (da *Accessor) ReadLatestDispatchedId() types.Hash {
	data, _ := da.db.Get(latestDispatchedKey())
	if len(data) == 0 {
		return types.Hash{}
	}
	return types.BytesToHash(data)
}

func (da *Accessor) WriteLatestDispatchedId(putter maildb.Putter, id types.Hash) error {
	return putter.Put(latestDispatchedKey(), id.ToBytes())
}

// ReadDelivery gets a delivery ledger entry.
// return nil if the message id was never delivered.
func (da *Accessor) ReadDelivery(id types.Hash) *Delivery {
	data, _ := da.db.Get(deliveryKey(id))
	if len(data) == 0 {
		return nil
	}
	var delivery Delivery
	_, err := delivery.UnmarshalMsg(data)
	if err != nil {
		return nil
	}
	return &delivery
}

func (da *Accessor) HasDelivery(id types.Hash) bool {
	has, _ := da.db.Has(deliveryKey(id))
	return has
}

// WriteDelivery appends a delivery ledger entry. There is no removal path.
func (da *Accessor) WriteDelivery(id types.Hash, delivery *Delivery) error {
	data, err := delivery.MarshalMsg(nil)
	if err != nil {
		return err
	}
	return da.db.Put(deliveryKey(id), data)
}

// NewBatch exposes the underlying database's batch for multi-key commits.
func (da *Accessor) NewBatch() maildb.Batch {
	return da.db.NewBatch()
}
