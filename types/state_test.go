package types

import (
	"runtime"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/siphondata/siphon/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// prevent LogState() from writing logs during tests
	if runtime.GOOS == "windows" {
		viper.Set(constants.StatePath, "NUL")
	} else {
		viper.Set(constants.StatePath, "/dev/null")
	}
}

func newState() *State {
	return &State{RWMutex: &sync.RWMutex{}, Type: StreamType, Streams: []*StreamState{}}
}

func newConfiguredStream(name, namespace, cursor string, mode SyncMode) *ConfiguredStream {
	s := NewStream(name, namespace)
	s.CursorField = cursor
	s.SyncMode = mode
	return s.Wrap()
}

func TestState_IsZeroAndResetStreams(t *testing.T) {
	s := newState()
	assert.True(t, s.isZero(), "new state without streams should be zero")

	cfg := newConfiguredStream("s1", "ns1", "updated", INCREMENTAL)
	s.SetCursor(cfg, "updated", "2024-01-01T00:00:00Z")
	require.False(t, s.isZero(), "state should not be zero after adding cursor")

	s.ResetStreams()
	assert.Equal(t, 0, len(s.Streams), "ResetStreams should clear stream slice")
}

func TestState_CursorSetAndGet_ResetCursor(t *testing.T) {
	s := newState()
	cfg := newConfiguredStream("users", "public", "updated", INCREMENTAL)

	// empty key should be ignored
	s.SetCursor(cfg, "", 10)
	assert.Nil(t, s.GetCursor(cfg, ""), "GetCursor with empty key should return nil")

	s.SetCursor(cfg, "updated", 42)
	got := s.GetCursor(cfg, "updated")
	require.NotNil(t, got)
	assert.Equal(t, 42, got.(int))

	s.ResetCursor(cfg, "updated")
	assert.Nil(t, s.GetCursor(cfg, "updated"))
}

func TestState_ObserveCursorMonotonic(t *testing.T) {
	s := newState()
	cfg := newConfiguredStream("events", "", "datetime", INCREMENTAL)

	// first observation seeds the bookmark
	s.ObserveCursor(cfg, "datetime", "2024-01-02T00:00:00Z")
	assert.Equal(t, "2024-01-02T00:00:00Z", s.GetCursor(cfg, "datetime"))

	// out of order page must not move the bookmark backwards
	s.ObserveCursor(cfg, "datetime", "2024-01-01T00:00:00Z")
	assert.Equal(t, "2024-01-02T00:00:00Z", s.GetCursor(cfg, "datetime"))

	// equal value is a no-op
	s.ObserveCursor(cfg, "datetime", "2024-01-02T00:00:00Z")
	assert.Equal(t, "2024-01-02T00:00:00Z", s.GetCursor(cfg, "datetime"))

	// strictly greater value advances
	s.ObserveCursor(cfg, "datetime", "2024-01-03T12:30:00Z")
	assert.Equal(t, "2024-01-03T12:30:00Z", s.GetCursor(cfg, "datetime"))

	// nil observations are ignored
	s.ObserveCursor(cfg, "datetime", nil)
	assert.Equal(t, "2024-01-03T12:30:00Z", s.GetCursor(cfg, "datetime"))
}

func TestState_ObserveCursorNumeric(t *testing.T) {
	s := newState()
	cfg := newConfiguredStream("orders", "", "sequence", INCREMENTAL)

	s.ObserveCursor(cfg, "sequence", int64(10))
	s.ObserveCursor(cfg, "sequence", int64(7))
	assert.Equal(t, int64(10), s.GetCursor(cfg, "sequence"))

	s.ObserveCursor(cfg, "sequence", int64(11))
	assert.Equal(t, int64(11), s.GetCursor(cfg, "sequence"))
}

func TestState_MarshalOnlyPopulatedStreams(t *testing.T) {
	s := newState()
	withValue := newConfiguredStream("events", "", "datetime", INCREMENTAL)
	empty := newConfiguredStream("tags", "", "", FULLREFRESH)

	s.SetCursor(withValue, "datetime", "2024-05-01T00:00:00Z")
	// fetch without setting, stream exists but holds nothing
	s.fetchStreamState(empty, true)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, 1, len(decoded.Streams), "only populated streams should be serialized")
	assert.Equal(t, "events", decoded.Streams[0].Stream)

	value, _ := decoded.Streams[0].State.Load("datetime")
	assert.Equal(t, "2024-05-01T00:00:00Z", value)
}

func TestState_MarshalZeroStateIsNull(t *testing.T) {
	s := newState()
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestState_RoundTripKeepsMutex(t *testing.T) {
	s := newState()
	cfg := newConfiguredStream("profiles", "", "updated", INCREMENTAL)
	s.SetCursor(cfg, "updated", "2024-03-01T00:00:00Z")

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.RWMutex, "unmarshal must initialize the mutex")

	// decoded state stays usable
	decoded.ObserveCursor(cfg, "updated", "2024-04-01T00:00:00Z")
	assert.Equal(t, "2024-04-01T00:00:00Z", decoded.GetCursor(cfg, "updated"))
}
