// Package message implements the three MessagePack-RPC message shapes —
// Request, Response and Notification — as a small closed sum type over
// pkg/value, with validating constructors that enforce the wire
// invariants (msgid range, method-is-a-string) independently of how the
// Value tree was produced (decoded off the wire, or built by a caller).
package message

import (
	"math"

	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

// Kind distinguishes the three message shapes.
type Kind int

const (
	KindRequest Kind = iota
	KindResponse
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindNotification:
		return "notification"
	}
	return "unknown"
}

// Message is implemented by Request, Response and Notification.
type Message interface {
	Kind() Kind
}

// Request is the `[0, msgid, method, params]` wire shape.
type Request struct {
	ID     uint32
	Method string
	Params value.Value
}

// Kind implements Message.
func (Request) Kind() Kind { return KindRequest }

// Response is the `[1, msgid, error, result]` wire shape. Error is Nil
// when the call succeeded; per spec both Error and Result are carried
// through even when both are non-nil, with a non-nil Error always taking
// precedence in the rpc package's translation to a Go error.
type Response struct {
	ID     uint32
	Error  value.Value
	Result value.Value
}

// Kind implements Message.
func (Response) Kind() Kind { return KindResponse }

// Notification is the `[2, method, params]` wire shape.
type Notification struct {
	Method string
	Params value.Value
}

// Kind implements Message.
func (Notification) Kind() Kind { return KindNotification }

// NewRequest validates id/method and assembles a Request. params is
// carried through unvalidated: any Value is accepted there even though
// consumers typically expect an array.
func NewRequest(id, method, params value.Value) (Request, error) {
	mid, err := msgID(id)
	if err != nil {
		return Request{}, err
	}
	m, err := methodName(method)
	if err != nil {
		return Request{}, err
	}
	return Request{ID: mid, Method: m, Params: params}, nil
}

// NewResponse validates id and assembles a Response. errVal/result are
// carried through as-is, including both non-nil.
func NewResponse(id, errVal, result value.Value) (Response, error) {
	mid, err := msgID(id)
	if err != nil {
		return Response{}, err
	}
	return Response{ID: mid, Error: errVal, Result: result}, nil
}

// NewNotification validates method and assembles a Notification.
func NewNotification(method, params value.Value) (Notification, error) {
	m, err := methodName(method)
	if err != nil {
		return Notification{}, err
	}
	return Notification{Method: m, Params: params}, nil
}

func msgID(v value.Value) (uint32, error) {
	u, err := v.ExpectU64()
	if err != nil {
		return 0, newInvalidField("msgid", err)
	}
	if u > math.MaxUint32 {
		return 0, newInvalidField("msgid", value.ErrOverflow)
	}
	return uint32(u), nil
}

func methodName(v value.Value) (string, error) {
	s, err := v.ExpectStr()
	if err != nil {
		return "", newInvalidField("method", err)
	}
	return s, nil
}
