package formstate

import "github.com/goliatone/go-formstate/internal/hydrate"

// DecodeOption configures Decode.
type DecodeOption[T any] func(*[]hydrate.DecoderOption[T])

// DecodeUseNumber keeps numbers as json.Number when decoding into untyped
// fields.
func DecodeUseNumber[T any]() DecodeOption[T] {
	return func(opts *[]hydrate.DecoderOption[T]) {
		*opts = append(*opts, hydrate.WithUseNumber[T]())
	}
}

// DecodeStrict rejects exported fields that have no struct counterpart.
func DecodeStrict[T any]() DecodeOption[T] {
	return func(opts *[]hydrate.DecoderOption[T]) {
		*opts = append(*opts, hydrate.WithDisallowUnknownFields[T]())
	}
}

// DecodeTransform reshapes the exported record before decoding.
func DecodeTransform[T any](fn func(Record) (Record, error)) DecodeOption[T] {
	return func(opts *[]hydrate.DecoderOption[T]) {
		if fn == nil {
			return
		}
		*opts = append(*opts, hydrate.WithPreHook[T](func(_ hydrate.Context, record map[string]any) (map[string]any, error) {
			return fn(record)
		}))
	}
}

// DecodeCheck runs fn against the decoded value.
func DecodeCheck[T any](fn func(*T) error) DecodeOption[T] {
	return func(opts *[]hydrate.DecoderOption[T]) {
		if fn == nil {
			return
		}
		*opts = append(*opts, hydrate.WithPostHook[T](func(_ hydrate.Context, out *T) error {
			return fn(out)
		}))
	}
}

// Decode hydrates the exported record of form into a T using its JSON
// struct tags.
func Decode[T any](form *Form, opts ...DecodeOption[T]) (T, error) {
	var decoderOpts []hydrate.DecoderOption[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&decoderOpts)
		}
	}
	return hydrate.NewDecoder[T](decoderOpts...).Decode(hydrate.Context{Form: form.ID()}, form.Data())
}
