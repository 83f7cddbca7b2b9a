// Package ownable implements the single-owner-with-pending-successor state
// machine gating privileged mailbox operations.
package ownable

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/relaymesh/mailbox/eventbus"
	"github.com/relaymesh/mailbox/events"
	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/types"
)

var (
	ownerKey        = []byte("owner")
	pendingOwnerKey = []byte("pending_owner")
)

// Registry persists the current owner and the at-most-one outstanding
// transfer proposal. The owner only ever changes through ClaimOwnership.
type Registry struct {
	db  maildb.Database
	bus *eventbus.DefaultEventBus
}

func NewRegistry(db maildb.Database, bus *eventbus.DefaultEventBus) *Registry {
	return &Registry{db: db, bus: bus}
}

// Initialize sets the owner once. A second call is a configuration error of
// the surrounding system and is rejected.
func (r *Registry) Initialize(owner string) error {
	has, err := r.db.Has(ownerKey)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("owner already initialized")
	}
	return r.db.Put(ownerKey, []byte(owner))
}

// Owner returns the current owner.
func (r *Registry) Owner() (string, error) {
	data, err := r.db.Get(ownerKey)
	if err != nil {
		return "", fmt.Errorf("owner not initialized: %v", err)
	}
	return string(data), nil
}

// PendingOwner returns the outstanding transfer target, or "" if none.
func (r *Registry) PendingOwner() (string, error) {
	has, err := r.db.Has(pendingOwnerKey)
	if err != nil {
		return "", err
	}
	if !has {
		return "", nil
	}
	data, err := r.db.Get(pendingOwnerKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// InitTransfer proposes nextOwner as the successor. Only the current owner
// may call this, and only while no other transfer is outstanding.
func (r *Registry) InitTransfer(caller string, nextOwner string) error {
	owner, err := r.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return types.ErrUnauthorized
	}
	has, err := r.db.Has(pendingOwnerKey)
	if err != nil {
		return err
	}
	if has {
		return types.ErrTransferAlreadyPending
	}
	if err := r.db.Put(pendingOwnerKey, []byte(nextOwner)); err != nil {
		return err
	}
	logrus.WithField("owner", owner).WithField("nextOwner", nextOwner).Info("ownership transfer initiated")
	r.route(&events.OwnershipTransferInitEvent{Owner: owner, NextOwner: nextOwner})
	return nil
}

// RevokeTransfer withdraws the outstanding proposal.
func (r *Registry) RevokeTransfer(caller string) error {
	owner, err := r.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return types.ErrUnauthorized
	}
	has, err := r.db.Has(pendingOwnerKey)
	if err != nil {
		return err
	}
	if !has {
		return types.ErrNoPendingTransfer
	}
	if err := r.db.Delete(pendingOwnerKey); err != nil {
		return err
	}
	logrus.WithField("owner", owner).Info("ownership transfer revoked")
	r.route(&events.OwnershipTransferRevokedEvent{Owner: owner})
	return nil
}

// ClaimOwnership completes the transfer. Only the pending owner may claim.
func (r *Registry) ClaimOwnership(caller string) error {
	has, err := r.db.Has(pendingOwnerKey)
	if err != nil {
		return err
	}
	if !has {
		return types.ErrNoPendingTransfer
	}
	pending, err := r.db.Get(pendingOwnerKey)
	if err != nil {
		return err
	}
	if caller != string(pending) {
		return types.ErrUnauthorized
	}
	if err := r.db.Put(ownerKey, pending); err != nil {
		return err
	}
	if err := r.db.Delete(pendingOwnerKey); err != nil {
		return err
	}
	logrus.WithField("newOwner", caller).Info("ownership claimed")
	r.route(&events.OwnershipClaimedEvent{NewOwner: caller})
	return nil
}

func (r *Registry) route(ev eventbus.Event) {
	if r.bus != nil {
		r.bus.Route(ev)
	}
}
