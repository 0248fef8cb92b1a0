package codec

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// Proto returns a codec for protobuf messages. T must be a pointer to a
// struct implementing proto.Message.
func Proto[T proto.Message]() Codec[T] {
	var zero T
	elem := reflect.TypeOf(zero).Elem()
	return protoCodec[T]{elem: elem}
}

type protoCodec[T proto.Message] struct {
	elem reflect.Type
}

func (c protoCodec[T]) Forward(v T) ([]byte, error) {
	b, err := proto.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "proto marshal")
	}
	return b, nil
}

func (c protoCodec[T]) Backward(b []byte) (T, error) {
	msg := reflect.New(c.elem).Interface().(T)
	if err := proto.Unmarshal(b, msg); err != nil {
		var zero T
		return zero, errors.Wrap(err, "proto unmarshal")
	}
	return msg, nil
}
