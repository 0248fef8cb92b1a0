package codec

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// YAML returns the default codec. It works for any value the yaml package
// can marshal and is deterministic: map keys are emitted in sorted order.
func YAML[T any]() Codec[T] {
	return yamlCodec[T]{}
}

type yamlCodec[T any] struct{}

func (yamlCodec[T]) Forward(v T) ([]byte, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "yaml marshal")
	}
	return b, nil
}

func (yamlCodec[T]) Backward(b []byte) (T, error) {
	var v T
	if err := yaml.Unmarshal(b, &v); err != nil {
		return v, errors.Wrap(err, "yaml unmarshal")
	}
	return v, nil
}
