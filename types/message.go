package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/relaymesh/mailbox/common"
)

// Fixed wire layout of a message, all integers big-endian:
//
//	version    u8
//	nonce      u32
//	origin     u32
//	sender     32 bytes, left-padded
//	dest       u32
//	recipient  32 bytes, left-padded
//	body       remainder
const (
	MessageVersionOffset   = 0
	MessageNonceOffset     = 1
	MessageOriginOffset    = 5
	MessageSenderOffset    = 9
	MessageDestOffset      = 41
	MessageRecipientOffset = 45
	MessageBodyOffset      = 77

	MessageHeaderLength = MessageBodyOffset
)

// Message is the canonical interchain message. It is immutable once built;
// sender and recipient are always normalized to the fixed wire width.
type Message struct {
	Version      uint8
	Nonce        uint32
	OriginDomain uint32
	Sender       []byte
	DestDomain   uint32
	Recipient    []byte
	Body         []byte
}

// NewMessage builds a message with sender and recipient normalized to the
// fixed wire width.
func NewMessage(version uint8, nonce uint32, originDomain uint32, sender []byte,
	destDomain uint32, recipient []byte, body []byte) Message {
	return Message{
		Version:      version,
		Nonce:        nonce,
		OriginDomain: originDomain,
		Sender:       common.LeftPadBytes(sender, common.WireAddressLength),
		DestDomain:   destDomain,
		Recipient:    common.LeftPadBytes(recipient, common.WireAddressLength),
		Body:         body,
	}
}

// Encode serializes the message into its canonical fixed-layout form.
func (m Message) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteByte(m.Version)

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], m.Nonce)
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], m.OriginDomain)
	buf.Write(u32[:])

	buf.Write(common.LeftPadBytes(m.Sender, common.WireAddressLength))

	binary.BigEndian.PutUint32(u32[:], m.DestDomain)
	buf.Write(u32[:])

	buf.Write(common.LeftPadBytes(m.Recipient, common.WireAddressLength))
	buf.Write(m.Body)
	return buf.Bytes()
}

// DecodeMessage is the inverse of Encode.
func DecodeMessage(raw []byte) (Message, error) {
	if len(raw) < MessageHeaderLength {
		return Message{}, &MalformedMessageError{
			Reason: fmt.Sprintf("length %d shorter than header %d", len(raw), MessageHeaderLength),
		}
	}
	return Message{
		Version:      raw[MessageVersionOffset],
		Nonce:        binary.BigEndian.Uint32(raw[MessageNonceOffset:MessageOriginOffset]),
		OriginDomain: binary.BigEndian.Uint32(raw[MessageOriginOffset:MessageSenderOffset]),
		Sender:       common.CopyBytes(raw[MessageSenderOffset:MessageDestOffset]),
		DestDomain:   binary.BigEndian.Uint32(raw[MessageDestOffset:MessageRecipientOffset]),
		Recipient:    common.CopyBytes(raw[MessageRecipientOffset:MessageBodyOffset]),
		Body:         common.CopyBytes(raw[MessageBodyOffset:]),
	}, nil
}

// Id returns the content-derived identity of the message: the keccak256
// digest of its canonical encoding. Two messages with identical fields always
// yield identical ids.
func (m Message) Id() (hash Hash) {
	hash.MustSetBytes(Keccak256(m.Encode()))
	return
}

func (m Message) String() string {
	return fmt.Sprintf("[v=%d nonce=%d origin=%d dest=%d sender=%s recipient=%s bodylen=%d]",
		m.Version, m.Nonce, m.OriginDomain, m.DestDomain,
		common.ToHex(m.Sender), common.ToHex(m.Recipient), len(m.Body))
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}
