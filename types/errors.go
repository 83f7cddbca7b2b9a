package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller lacks the required privilege.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyDelivered is returned when a message id is already present in
	// the delivery ledger.
	ErrAlreadyDelivered = errors.New("message already delivered")

	// ErrVerificationFailed is returned when the security module rejects a message.
	ErrVerificationFailed = errors.New("ism verify failed")

	// ErrTransferAlreadyPending is returned when an ownership transfer is
	// initiated while another is outstanding.
	ErrTransferAlreadyPending = errors.New("ownership is transferring")

	// ErrNoPendingTransfer is returned when revoke or claim is attempted with
	// no outstanding transfer.
	ErrNoPendingTransfer = errors.New("ownership is not transferring")
)

// InvalidAddressLengthError reports a recipient address outside the fixed-width bound.
type InvalidAddressLengthError struct {
	Len int
}

func (e *InvalidAddressLengthError) Error() string {
	return fmt.Sprintf("invalid address length: %d", e.Len)
}

// InvalidMessageVersionError reports an inbound message built against a
// different protocol version.
type InvalidMessageVersionError struct {
	Version uint8
}

func (e *InvalidMessageVersionError) Error() string {
	return fmt.Sprintf("invalid message version: %d", e.Version)
}

// InvalidDestinationDomainError reports an inbound message addressed to a
// different domain than this endpoint's.
type InvalidDestinationDomainError struct {
	Domain uint32
}

func (e *InvalidDestinationDomainError) Error() string {
	return fmt.Sprintf("invalid destination domain: %d", e.Domain)
}

// MalformedMessageError reports raw bytes that do not match the message layout.
type MalformedMessageError struct {
	Reason string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed message: %s", e.Reason)
}

// InvalidRecipientEncodingError reports a recipient field that cannot be
// represented as a native address.
type InvalidRecipientEncodingError struct {
	Reason string
}

func (e *InvalidRecipientEncodingError) Error() string {
	return fmt.Sprintf("invalid recipient encoding: %s", e.Reason)
}
