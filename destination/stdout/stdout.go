package stdout

import (
	"context"
	"time"

	"github.com/siphondata/siphon/destination"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils/logger"
)

// Stdout emits RECORD messages on standard output, one per record, so
// any downstream consumer can pipe the sync.
type Stdout struct {
	config *Config
	stream types.StreamInterface
}

type Config struct{}

func (c *Config) Validate() error {
	return nil
}

func (s *Stdout) GetConfigRef() destination.Config {
	s.config = &Config{}
	return s.config
}

func (s *Stdout) Spec() any {
	return Config{}
}

func (s *Stdout) Type() string {
	return string(types.StdoutDestination)
}

func (s *Stdout) Check(_ context.Context) error {
	return nil
}

func (s *Stdout) Setup(stream types.StreamInterface, _ *destination.Options) error {
	s.stream = stream
	return nil
}

func (s *Stdout) Write(_ context.Context, records []types.RawRecord) error {
	for _, record := range records {
		logger.Info(types.Message{
			Type: types.RecordMessage,
			Record: &types.RecordRow{
				Stream:    record.Stream,
				Namespace: record.Namespace,
				Data:      record.Data,
				EmittedAt: time.Now().UTC(),
			},
		})
	}

	return nil
}

func (s *Stdout) DropStreams(_ context.Context, _ []string) error {
	return nil
}

func (s *Stdout) Close(_ context.Context) error {
	return nil
}

func init() {
	destination.RegisteredWriters[types.StdoutDestination] = func() destination.Writer {
		return &Stdout{}
	}
}
