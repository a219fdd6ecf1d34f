package types

import (
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/spf13/viper"
)

type StateType string

const (
	// StreamType indicates that the connector acts on individual stream state only
	StreamType StateType = "STREAM"
)

// State is a dto for the connector's resumable checkpoint serialization
type State struct {
	*sync.RWMutex `json:"-"`
	Type          StateType      `json:"type"`
	Streams       []*StreamState `json:"streams,omitempty"`
}

func (s *State) SetType(typ StateType) {
	s.Type = typ
}

func (s *State) isZero() bool {
	return len(s.Streams) == 0
}

func (s *State) ResetStreams() {
	s.Lock()
	defer s.Unlock()

	s.Streams = []*StreamState{}
}

func (s *State) initStreamState(stream *ConfiguredStream) *StreamState {
	return &StreamState{
		Stream:    stream.Name(),
		Namespace: stream.Namespace(),
		State:     sync.Map{},
	}
}

func (s *State) fetchStreamState(stream *ConfiguredStream, create bool) *StreamState {
	s.Lock()
	defer s.Unlock()

	for _, streamState := range s.Streams {
		if streamState.Stream == stream.Name() && streamState.Namespace == stream.Namespace() {
			return streamState
		}
	}

	if !create {
		return nil
	}

	streamState := s.initStreamState(stream)
	s.Streams = append(s.Streams, streamState)
	return streamState
}

// GetCursor returns the stored bookmark value for the stream's cursor key
func (s *State) GetCursor(stream *ConfiguredStream, key string) any {
	if key == "" {
		return nil
	}

	streamState := s.fetchStreamState(stream, false)
	if streamState == nil {
		return nil
	}

	value, _ := streamState.State.Load(key)
	return value
}

// SetCursor stores the bookmark value unconditionally; used for seeding
// from a prior run's persisted state.
func (s *State) SetCursor(stream *ConfiguredStream, key string, value any) {
	if key == "" {
		return
	}

	streamState := s.fetchStreamState(stream, true)
	streamState.State.Store(key, value)
	streamState.HoldsValue.Store(true)
}

// ObserveCursor merges a freshly observed replication-key value into the
// bookmark with a monotonic max rule: only strictly greater values update,
// ties and regressions are no-ops.
func (s *State) ObserveCursor(stream *ConfiguredStream, key string, value any) {
	if key == "" || value == nil {
		return
	}

	streamState := s.fetchStreamState(stream, true)
	current, _ := streamState.State.Load(key)
	if current != nil && utils.CompareInterfaceValue(value, current) != 1 {
		return
	}

	streamState.State.Store(key, value)
	streamState.HoldsValue.Store(true)
}

// ResetCursor drops the stream's bookmark while preserving other state values
func (s *State) ResetCursor(stream *ConfiguredStream, key string) {
	streamState := s.fetchStreamState(stream, false)
	if streamState == nil || key == "" {
		return
	}

	streamState.State.Delete(key)
}

// LogState emits a STATE message and persists the checkpoint file.
// Callers invoke it only at page boundaries; a crash between two calls
// re-extracts at most one page.
func (s *State) LogState() {
	s.RLock()
	defer s.RUnlock()

	message := Message{
		Type:  StateMessage,
		State: s,
	}
	logger.Info(message)

	if statePath := viper.GetString(constants.StatePath); statePath != "" {
		if err := logger.FileLogger(s, statePath); err != nil {
			logger.Fatalf("failed to persist state file: %s", err)
		}
	}
}

func (s *State) UnmarshalJSON(data []byte) error {
	type Alias State
	aux := (*Alias)(s)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if s.RWMutex == nil {
		s.RWMutex = &sync.RWMutex{}
	}
	return nil
}

func (s *State) MarshalJSON() ([]byte, error) {
	if s.isZero() {
		return json.Marshal(nil)
	}

	type Alias State
	p := Alias(*s)

	populatedStreams := []*StreamState{}
	for _, stream := range p.Streams {
		if stream.HoldsValue.Load() {
			populatedStreams = append(populatedStreams, stream)
		}
	}

	p.Streams = populatedStreams
	return json.Marshal(p)
}

// StreamState is the per-stream slice of the checkpoint
type StreamState struct {
	HoldsValue atomic.Bool `json:"-"` // true once the state carries a value worth serializing

	Stream    string   `json:"stream"`
	Namespace string   `json:"namespace"`
	State     sync.Map `json:"-"`
}

// MarshalJSON custom marshaller to handle sync.Map encoding
func (s *StreamState) MarshalJSON() ([]byte, error) {
	stateMap := make(map[string]interface{})
	s.State.Range(func(key, value interface{}) bool {
		strKey, ok := key.(string)
		if !ok {
			return false
		}
		stateMap[strKey] = value
		return true
	})

	type Alias StreamState
	return json.Marshal(&struct {
		*Alias
		State map[string]interface{} `json:"state"`
	}{
		Alias: (*Alias)(s),
		State: stateMap,
	})
}

// UnmarshalJSON custom unmarshaller to handle sync.Map decoding
func (s *StreamState) UnmarshalJSON(data []byte) error {
	type Alias StreamState
	aux := &struct {
		*Alias
		State map[string]interface{} `json:"state"`
	}{
		Alias: (*Alias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for key, value := range aux.State {
		s.State.Store(key, value)
	}
	if len(aux.State) > 0 {
		s.HoldsValue.Store(true)
	}

	return nil
}
