package types

// StreamInterface is the minimal surface the sync engine needs from a
// configured stream.
type StreamInterface interface {
	ID() string
	Self() *ConfiguredStream
	Name() string
	GetStream() *Stream
	Namespace() string
	Schema() *TypeSchema
	GetSyncMode() SyncMode
	Cursor() string
	SupportedSyncModes() *Set[SyncMode]
	Validate(source *Stream) error
}

// StateInterface is the bookmark-store surface used during a sync
type StateInterface interface {
	GetCursor(stream *ConfiguredStream, key string) any
	SetCursor(stream *ConfiguredStream, key string, value any)
	ObserveCursor(stream *ConfiguredStream, key string, value any)
	ResetCursor(stream *ConfiguredStream, key string)
	LogState()
}
