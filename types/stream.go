package types

import (
	"github.com/goccy/go-json"

	"github.com/siphondata/siphon/utils"
)

// PaginationMode tags the strategy a stream's endpoint paginates with.
// The synchronizer stays agnostic; the rest package dispatches on it.
type PaginationMode string

const (
	PaginateCursor PaginationMode = "cursor"
	PaginateOffset PaginationMode = "offset"
	PaginateWindow PaginationMode = "window"
)

// Stream is the immutable descriptor of one source data stream
type Stream struct {
	// Name of the Stream
	Name string `json:"name,omitempty"`
	// Namespace of the Stream; helps in identifying streams with the
	// same name exposed by different sources
	Namespace string `json:"namespace,omitempty"`
	// API path the stream's pages are fetched from
	Endpoint string `json:"endpoint,omitempty"`
	// Pagination strategy for the endpoint; chosen at definition time
	Pagination PaginationMode `json:"pagination,omitempty"`
	// Possible Schema of the Stream
	Schema *TypeSchema `json:"json_schema,omitempty"`
	// Supported sync modes from driver for the respective Stream
	SupportedSyncModes *Set[SyncMode] `json:"supported_sync_modes,omitempty"`
	// Primary key if available
	SourceDefinedPrimaryKey *Set[string] `json:"source_defined_primary_key,omitempty"`
	// Available cursor fields supported by driver
	AvailableCursorFields *Set[string] `json:"available_cursor_fields,omitempty"`
	// Selected mode and cursor for this run
	SyncMode    SyncMode `json:"sync_mode,omitempty"`
	CursorField string   `json:"cursor_field,omitempty"`
}

func NewStream(name, namespace string) *Stream {
	return &Stream{
		Name:                    name,
		Namespace:               namespace,
		Pagination:              PaginateCursor,
		SupportedSyncModes:      NewSet[SyncMode](),
		SourceDefinedPrimaryKey: NewSet[string](),
		AvailableCursorFields:   NewSet[string](),
		Schema:                  NewTypeSchema(),
	}
}

func (s *Stream) ID() string {
	return utils.StreamIdentifier(s.Name, s.Namespace)
}

func (s *Stream) WithEndpoint(path string) *Stream {
	s.Endpoint = path
	return s
}

func (s *Stream) WithPagination(mode PaginationMode) *Stream {
	s.Pagination = mode
	return s
}

func (s *Stream) WithSyncMode(modes ...SyncMode) *Stream {
	s.SupportedSyncModes.Insert(modes...)
	return s
}

func (s *Stream) WithPrimaryKey(keys ...string) *Stream {
	s.SourceDefinedPrimaryKey.Insert(keys...)
	return s
}

func (s *Stream) WithCursorField(columns ...string) *Stream {
	s.AvailableCursorFields.Insert(columns...)
	return s
}

// Add or Update Column in Stream Type Schema
func (s *Stream) UpsertField(column string, typ DataType, nullable bool) {
	types := []DataType{typ}
	if nullable {
		types = append(types, Null)
	}

	s.Schema.AddTypes(column, types...)
}

// MarkRequired flags a schema column whose absence fails the record
func (s *Stream) MarkRequired(column string) {
	if property, err := s.Schema.GetProperty(column); err == nil {
		property.Required = true
	}
}

func (s *Stream) Wrap() *ConfiguredStream {
	return &ConfiguredStream{
		Stream:      s,
		CursorField: s.CursorField,
	}
}

func (s *Stream) UnmarshalJSON(data []byte) error {
	type Alias Stream

	var temp Alias
	temp.AvailableCursorFields = NewSet[string]()
	temp.SourceDefinedPrimaryKey = NewSet[string]()
	temp.SupportedSyncModes = NewSet[SyncMode]()
	temp.Schema = NewTypeSchema()

	err := json.Unmarshal(data, &temp)
	if err != nil {
		return err
	}

	*s = Stream(temp)
	return nil
}

func StreamsToMap(streams ...*Stream) map[string]*Stream {
	output := make(map[string]*Stream)
	for _, stream := range streams {
		output[stream.ID()] = stream
	}

	return output
}
