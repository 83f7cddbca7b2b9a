package wserver

import (
	"strconv"

	"github.com/relaymesh/mailbox/eventbus"
	"github.com/relaymesh/mailbox/events"
)

// EventPusher forwards mailbox events from the eventbus to websocket clients.
type EventPusher struct {
	Server *Server
}

func (p EventPusher) HandleEvent(ev eventbus.Event) {
	p.Server.Push(eventName(ev.GetEventType()), ev)
}

func (p EventPusher) Name() string {
	return "EventPusher"
}

func eventName(t eventbus.EventType) string {
	switch t {
	case events.DispatchIdEventType:
		return "dispatch_id"
	case events.DispatchedEventType:
		return "dispatch"
	case events.ProcessIdEventType:
		return "process_id"
	case events.ProcessedEventType:
		return "process"
	case events.DefaultIsmSetEventType:
		return "default_ism_set"
	case events.DefaultHookSetEventType:
		return "default_hook_set"
	case events.OwnershipTransferInitEventType:
		return "ownership_transfer_init"
	case events.OwnershipTransferRevokedEventType:
		return "ownership_transfer_revoked"
	case events.OwnershipClaimedEventType:
		return "ownership_claimed"
	default:
		return strconv.Itoa(int(t))
	}
}
