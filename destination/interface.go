package destination

import (
	"context"

	"github.com/siphondata/siphon/types"
)

type Config interface {
	Validate() error
}

// Writer is implemented per destination; one instance serves one stream
// thread at a time.
type Writer interface {
	GetConfigRef() Config
	Spec() any
	Type() string
	// Check verifies the destination is reachable and writable;
	// called once before any thread is spawned.
	Check(ctx context.Context) error
	// Setup binds the writer to a stream for dedicated use
	Setup(stream types.StreamInterface, opts *Options) error
	Write(ctx context.Context, records []types.RawRecord) error
	// DropStreams clears previously written data before a
	// full-refresh rewrite.
	DropStreams(ctx context.Context, selectedStreams []string) error
	Close(ctx context.Context) error
}

type Options struct {
	Identifier string
	Number     int64
}

type ThreadOptions func(opt *Options)

func WithIdentifier(identifier string) ThreadOptions {
	return func(opt *Options) {
		opt.Identifier = identifier
	}
}

func WithNumber(number int64) ThreadOptions {
	return func(opt *Options) {
		opt.Number = number
	}
}
