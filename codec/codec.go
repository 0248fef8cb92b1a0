// Package codec defines how registered values are serialized for upgrades
// and state snapshots.
//
// The engine never inspects payload contents, so any encoding works as long
// as Backward accepts everything Forward produces. Different memory ids may
// use different codecs.
package codec

// Codec converts values of T to and from their serialized form.
type Codec[T any] interface {
	// Forward serializes v.
	Forward(v T) ([]byte, error)
	// Backward deserializes b into a value.
	Backward(b []byte) (T, error)
}

// Funcs adapts a pair of functions into a Codec.
type Funcs[T any] struct {
	Fwd func(v T) ([]byte, error)
	Bwd func(b []byte) (T, error)
}

func (f Funcs[T]) Forward(v T) ([]byte, error) {
	return f.Fwd(v)
}

func (f Funcs[T]) Backward(b []byte) (T, error) {
	return f.Bwd(b)
}
