package mailbox

import (
	"github.com/sirupsen/logrus"

	"github.com/relaymesh/mailbox/types"
)

// Built-in collaborators for development and endpoint bring-up. Production
// deployments register real implementations through the Registry.

// NoopHook accepts every post-dispatch call and does nothing with the funds.
type NoopHook struct{}

func (NoopHook) PostDispatch(metadata []byte, message types.Message, funds Funds) error {
	logrus.WithField("id", message.Id()).WithField("funds", len(funds)).
		Debug("noop hook invoked")
	return nil
}

// AcceptAllIsm verifies every message. Only for development chains.
type AcceptAllIsm struct{}

func (AcceptAllIsm) Verify(metadata []byte, rawMessage []byte) (bool, error) {
	return true, nil
}

// LoggingRecipient logs handled payloads and specifies no security module of
// its own, so the mailbox default applies.
type LoggingRecipient struct{}

func (LoggingRecipient) SecurityModule() string {
	return ""
}

func (LoggingRecipient) Handle(origin uint32, sender []byte, body []byte) error {
	logrus.WithField("origin", origin).WithField("bodylen", len(body)).
		Info("recipient handled message")
	return nil
}
