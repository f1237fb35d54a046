package codec

import (
	"bytes"

	"github.com/jinzhongjia/nvimrpc/pkg/message"
	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

// EncodeRequest produces a self-contained `[0, id, method, params]` frame.
func EncodeRequest(id uint32, method string, params value.Value) []byte {
	var buf bytes.Buffer
	encodeArrayHeader(&buf, 4)
	encodeUint(&buf, 0)
	encodeUint(&buf, uint64(id))
	encodeStr(&buf, method)
	encodeValue(&buf, params)
	return buf.Bytes()
}

// EncodeResponse produces a self-contained `[1, id, error, result]` frame.
// Either errVal or result (or both) may be value.Nil().
func EncodeResponse(id uint32, errVal, result value.Value) []byte {
	var buf bytes.Buffer
	encodeArrayHeader(&buf, 4)
	encodeUint(&buf, 1)
	encodeUint(&buf, uint64(id))
	encodeValue(&buf, errVal)
	encodeValue(&buf, result)
	return buf.Bytes()
}

// EncodeNotification produces a self-contained `[2, method, params]` frame.
func EncodeNotification(method string, params value.Value) []byte {
	var buf bytes.Buffer
	encodeArrayHeader(&buf, 3)
	encodeUint(&buf, 2)
	encodeStr(&buf, method)
	encodeValue(&buf, params)
	return buf.Bytes()
}

// EncodeMessage dispatches to EncodeRequest/EncodeResponse/
// EncodeNotification based on msg's concrete type.
func EncodeMessage(msg message.Message) []byte {
	switch m := msg.(type) {
	case message.Request:
		return EncodeRequest(m.ID, m.Method, m.Params)
	case message.Response:
		return EncodeResponse(m.ID, m.Error, m.Result)
	case message.Notification:
		return EncodeNotification(m.Method, m.Params)
	default:
		return nil
	}
}
