package protocol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siphondata/siphon/types"
)

func sourceStream(name string, modes ...types.SyncMode) *types.Stream {
	stream := types.NewStream(name, "testing").
		WithSyncMode(modes...).
		WithPrimaryKey("id").
		WithCursorField("updated")
	return stream
}

func configured(name string, mode types.SyncMode) *types.ConfiguredStream {
	stream := sourceStream(name, types.FULLREFRESH, types.INCREMENTAL)
	stream.SyncMode = mode
	stream.CursorField = "updated"
	return stream.Wrap()
}

func emptyState() *types.State {
	return &types.State{
		RWMutex: &sync.RWMutex{},
		Type:    types.StreamType,
		Streams: []*types.StreamState{},
	}
}

func TestGetStreamsClassification_SplitsByMode(t *testing.T) {
	catalog := &types.Catalog{
		Streams: []*types.ConfiguredStream{
			configured("events", types.INCREMENTAL),
			configured("tags", types.FULLREFRESH),
		},
	}
	source := []*types.Stream{
		sourceStream("events", types.FULLREFRESH, types.INCREMENTAL),
		sourceStream("tags", types.FULLREFRESH, types.INCREMENTAL),
	}

	classification, err := GetStreamsClassification(catalog, source, emptyState())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"testing.events", "testing.tags"}, classification.SelectedStreams)
	require.Len(t, classification.IncrementalStreams, 1)
	assert.Equal(t, "testing.events", classification.IncrementalStreams[0].ID())
	require.Len(t, classification.FullLoadStreams, 1)
	assert.Equal(t, "testing.tags", classification.FullLoadStreams[0].ID())
}

func TestGetStreamsClassification_SkipsUnknownAndInvalid(t *testing.T) {
	invalid := configured("tags", types.INCREMENTAL)
	invalid.CursorField = "nope"
	invalid.Stream.CursorField = "nope"

	catalog := &types.Catalog{
		Streams: []*types.ConfiguredStream{
			configured("events", types.INCREMENTAL),
			configured("ghost", types.FULLREFRESH), // not in source
			invalid,
		},
	}
	source := []*types.Stream{
		sourceStream("events", types.FULLREFRESH, types.INCREMENTAL),
		sourceStream("tags", types.FULLREFRESH, types.INCREMENTAL),
	}

	classification, err := GetStreamsClassification(catalog, source, emptyState())
	require.NoError(t, err)
	assert.Equal(t, []string{"testing.events"}, classification.SelectedStreams)
}

func TestGetStreamsClassification_HonorsSelectedStreams(t *testing.T) {
	catalog := &types.Catalog{
		Streams: []*types.ConfiguredStream{
			configured("events", types.INCREMENTAL),
			configured("tags", types.FULLREFRESH),
		},
		SelectedStreams: map[string][]types.StreamMetadata{
			"testing": {{StreamName: "events"}},
		},
	}
	source := []*types.Stream{
		sourceStream("events", types.FULLREFRESH, types.INCREMENTAL),
		sourceStream("tags", types.FULLREFRESH, types.INCREMENTAL),
	}

	classification, err := GetStreamsClassification(catalog, source, emptyState())
	require.NoError(t, err)
	assert.Equal(t, []string{"testing.events"}, classification.SelectedStreams)
}

func TestGetStreamsClassification_PrunesStaleState(t *testing.T) {
	catalog := &types.Catalog{
		Streams: []*types.ConfiguredStream{
			configured("events", types.INCREMENTAL),
			configured("tags", types.FULLREFRESH),
		},
	}
	source := []*types.Stream{
		sourceStream("events", types.FULLREFRESH, types.INCREMENTAL),
		sourceStream("tags", types.FULLREFRESH, types.INCREMENTAL),
	}

	state := emptyState()
	state.Streams = []*types.StreamState{
		{Stream: "events", Namespace: "testing"},
		{Stream: "tags", Namespace: "testing"},      // full refresh, dropped
		{Stream: "deselected", Namespace: "testing"}, // not in catalog, dropped
	}

	_, err := GetStreamsClassification(catalog, source, state)
	require.NoError(t, err)
	require.Len(t, state.Streams, 1)
	assert.Equal(t, "events", state.Streams[0].Stream)
}

func TestGetStreamsClassification_NoValidStreams(t *testing.T) {
	catalog := &types.Catalog{
		Streams: []*types.ConfiguredStream{configured("ghost", types.FULLREFRESH)},
	}
	source := []*types.Stream{sourceStream("events", types.FULLREFRESH)}

	_, err := GetStreamsClassification(catalog, source, emptyState())
	require.Error(t, err)
}
