package events

import (
	"github.com/relaymesh/mailbox/eventbus"
	"github.com/relaymesh/mailbox/types"
)

const (
	DispatchIdEventType eventbus.EventType = iota + 1
	DispatchedEventType
	ProcessIdEventType
	ProcessedEventType
	DefaultIsmSetEventType
	DefaultHookSetEventType
	OwnershipTransferInitEventType
	OwnershipTransferRevokedEventType
	OwnershipClaimedEventType
)

// DispatchIdEvent announces the id of a freshly dispatched message.
type DispatchIdEvent struct {
	MessageId types.Hash
}

func (m *DispatchIdEvent) GetEventType() eventbus.EventType {
	return DispatchIdEventType
}

// DispatchedEvent carries the full dispatched message.
type DispatchedEvent struct {
	Message types.Message
}

func (m *DispatchedEvent) GetEventType() eventbus.EventType {
	return DispatchedEventType
}

// ProcessIdEvent announces the id of a delivered inbound message.
type ProcessIdEvent struct {
	MessageId types.Hash
}

func (m *ProcessIdEvent) GetEventType() eventbus.EventType {
	return ProcessIdEventType
}

// ProcessedEvent summarizes a completed inbound delivery.
type ProcessedEvent struct {
	Domain    uint32
	Sender    []byte
	Recipient []byte
}

func (m *ProcessedEvent) GetEventType() eventbus.EventType {
	return ProcessedEventType
}

type DefaultIsmSetEvent struct {
	Owner  string
	NewIsm string
}

func (m *DefaultIsmSetEvent) GetEventType() eventbus.EventType {
	return DefaultIsmSetEventType
}

type DefaultHookSetEvent struct {
	Owner   string
	NewHook string
}

func (m *DefaultHookSetEvent) GetEventType() eventbus.EventType {
	return DefaultHookSetEventType
}

type OwnershipTransferInitEvent struct {
	Owner     string
	NextOwner string
}

func (m *OwnershipTransferInitEvent) GetEventType() eventbus.EventType {
	return OwnershipTransferInitEventType
}

type OwnershipTransferRevokedEvent struct {
	Owner string
}

func (m *OwnershipTransferRevokedEvent) GetEventType() eventbus.EventType {
	return OwnershipTransferRevokedEventType
}

type OwnershipClaimedEvent struct {
	NewOwner string
}

func (m *OwnershipClaimedEvent) GetEventType() eventbus.EventType {
	return OwnershipClaimedEventType
}
