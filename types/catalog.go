package types

// Catalog is a dto for the configured streams file serialization
type Catalog struct {
	Streams []*ConfiguredStream `json:"streams,omitempty"`
	// SelectedStreams maps a namespace to the streams chosen for this run;
	// nil means every configured stream is selected.
	SelectedStreams map[string][]StreamMetadata `json:"selected_streams,omitempty"`
}

// StreamMetadata carries catalog-level per-stream knobs
type StreamMetadata struct {
	StreamName string `json:"stream_name"`
	// AppendMode skips primary-key identity hashing for sinks that
	// only ever append.
	AppendMode bool `json:"append_mode,omitempty"`
}

func GetWrappedCatalog(streams []*Stream) *Catalog {
	catalog := &Catalog{
		Streams: []*ConfiguredStream{},
	}

	for _, stream := range streams {
		catalog.Streams = append(catalog.Streams, &ConfiguredStream{
			Stream: stream,
		})
	}

	return catalog
}
