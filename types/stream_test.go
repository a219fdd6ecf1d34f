package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_NewStream(t *testing.T) {
	stream := NewStream("users", "public")

	assert.Equal(t, "users", stream.Name)
	assert.Equal(t, "public", stream.Namespace)
	assert.Equal(t, PaginateCursor, stream.Pagination, "cursor pagination is the default")

	assert.NotNil(t, stream.SupportedSyncModes, "SupportedSyncModes should be initialized")
	assert.NotNil(t, stream.SourceDefinedPrimaryKey, "SourceDefinedPrimaryKey should be initialized")
	assert.NotNil(t, stream.AvailableCursorFields, "AvailableCursorFields should be initialized")
	assert.NotNil(t, stream.Schema, "Schema should be initialized")
}

func TestStream_WithSyncMode(t *testing.T) {
	tests := []struct {
		name             string
		modes            []SyncMode
		expectedModes    []SyncMode
		notExpectedModes []SyncMode
	}{
		{
			name:             "single mode",
			modes:            []SyncMode{FULLREFRESH},
			expectedModes:    []SyncMode{FULLREFRESH},
			notExpectedModes: []SyncMode{INCREMENTAL},
		},
		{
			name:             "multiple modes",
			modes:            []SyncMode{FULLREFRESH, INCREMENTAL},
			expectedModes:    []SyncMode{FULLREFRESH, INCREMENTAL},
			notExpectedModes: []SyncMode{},
		},
		{
			name:             "duplicate modes",
			modes:            []SyncMode{FULLREFRESH, FULLREFRESH, INCREMENTAL},
			expectedModes:    []SyncMode{FULLREFRESH, INCREMENTAL},
			notExpectedModes: []SyncMode{},
		},
		{
			name:             "empty modes",
			modes:            []SyncMode{},
			expectedModes:    []SyncMode{},
			notExpectedModes: []SyncMode{FULLREFRESH, INCREMENTAL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream("users", "public")
			outputStream := stream.WithSyncMode(tt.modes...)

			assert.Same(t, stream, outputStream, "Should return the same instance")

			for _, mode := range tt.expectedModes {
				assert.True(t, outputStream.SupportedSyncModes.Exists(mode), "Should contain %v", mode)
			}
			for _, mode := range tt.notExpectedModes {
				assert.False(t, outputStream.SupportedSyncModes.Exists(mode), "Should not contain %v", mode)
			}
		})
	}
}

func TestStream_BuilderChain(t *testing.T) {
	stream := NewStream("events", "").
		WithEndpoint("/api/events").
		WithPagination(PaginateWindow).
		WithSyncMode(FULLREFRESH, INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("datetime")

	assert.Equal(t, "/api/events", stream.Endpoint)
	assert.Equal(t, PaginateWindow, stream.Pagination)
	assert.True(t, stream.SourceDefinedPrimaryKey.Exists("id"))
	assert.True(t, stream.AvailableCursorFields.Exists("datetime"))
	assert.Equal(t, "datetime", stream.CursorField)
}

func TestStream_UpsertFieldAndMarkRequired(t *testing.T) {
	stream := NewStream("profiles", "")

	stream.UpsertField("email", String, true)
	typ, err := stream.Schema.GetType("email")
	require.NoError(t, err)
	assert.Equal(t, String, typ)

	property, err := stream.Schema.GetProperty("email")
	require.NoError(t, err)
	assert.True(t, property.Nullable())
	assert.False(t, property.Required)

	stream.MarkRequired("email")
	property, err = stream.Schema.GetProperty("email")
	require.NoError(t, err)
	assert.True(t, property.Required)
}

func TestStream_Validate(t *testing.T) {
	source := NewStream("events", "").
		WithSyncMode(FULLREFRESH, INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("datetime")

	selected := NewStream("events", "").WithPrimaryKey("id")
	selected.SyncMode = INCREMENTAL
	selected.CursorField = "datetime"
	configured := selected.Wrap()
	assert.NoError(t, configured.Validate(source))

	// unsupported sync mode
	badMode := NewStream("events", "")
	badMode.SyncMode = SyncMode("bulk")
	assert.Error(t, badMode.Wrap().Validate(source))

	// cursor not available on source
	badCursor := NewStream("events", "")
	badCursor.SyncMode = INCREMENTAL
	badCursor.CursorField = "modified"
	assert.Error(t, badCursor.Wrap().Validate(source))
}

func TestStream_JSONRoundTrip(t *testing.T) {
	stream := NewStream("campaigns", "marketing").
		WithEndpoint("/api/campaigns").
		WithSyncMode(INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated_at")
	stream.UpsertField("id", String, false)
	stream.UpsertField("name", String, true)

	raw, err := json.Marshal(stream)
	require.NoError(t, err)

	decoded := Stream{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, stream.Name, decoded.Name)
	assert.Equal(t, stream.Namespace, decoded.Namespace)
	assert.Equal(t, stream.Endpoint, decoded.Endpoint)
	assert.True(t, decoded.SupportedSyncModes.Exists(INCREMENTAL))
	assert.True(t, decoded.SourceDefinedPrimaryKey.Exists("id"))

	typ, err := decoded.Schema.GetType("name")
	require.NoError(t, err)
	assert.Equal(t, String, typ)
}
