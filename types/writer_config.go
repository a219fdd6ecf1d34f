package types

import "github.com/goccy/go-json"

type DestinationType string

const (
	StdoutDestination  DestinationType = "stdout"
	ParquetDestination DestinationType = "parquet"
)

// WriterConfig is the destination half of the runtime configuration
type WriterConfig struct {
	Type DestinationType `json:"type"`
	// WriterConfig carries the destination specific settings, decoded
	// by the selected writer itself.
	WriterConfig any `json:"writer"`
	BatchSize    int `json:"batch_size,omitempty"`
}

func (w *WriterConfig) UnmarshalJSON(data []byte) error {
	type Alias WriterConfig
	aux := (*Alias)(w)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if w.BatchSize <= 0 {
		w.BatchSize = 10000
	}
	return nil
}
