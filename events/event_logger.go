package events

import (
	"github.com/sirupsen/logrus"

	"github.com/relaymesh/mailbox/eventbus"
)

type EventLogger struct {
}

func (e EventLogger) HandleEvent(ev eventbus.Event) {
	logrus.WithField("eventType", ev.GetEventType()).WithField("v", ev).Debug("event received")
}

func (e EventLogger) Name() string {
	return "EventLogger"
}

// RegisterAll subscribes the logger to every mailbox event type.
func RegisterAll(bus *eventbus.DefaultEventBus, handler eventbus.EventHandler) {
	all := map[eventbus.EventType]string{
		DispatchIdEventType:               "DispatchId",
		DispatchedEventType:               "Dispatched",
		ProcessIdEventType:                "ProcessId",
		ProcessedEventType:                "Processed",
		DefaultIsmSetEventType:            "DefaultIsmSet",
		DefaultHookSetEventType:           "DefaultHookSet",
		OwnershipTransferInitEventType:    "OwnershipTransferInit",
		OwnershipTransferRevokedEventType: "OwnershipTransferRevoked",
		OwnershipClaimedEventType:         "OwnershipClaimed",
	}
	for t, name := range all {
		bus.ListenTo(eventbus.EventHandlerRegisterInfo{
			Type:    t,
			Name:    name,
			Handler: handler,
		})
	}
}
