package parquet

import (
	"fmt"

	"github.com/siphondata/siphon/utils"
)

type Config struct {
	// Path is the root the writer lays files under:
	// path/namespace/stream/<timestamped>.parquet
	Path string `json:"local_path" validate:"required"`
	// Compression codec: snappy (default), gzip, zstd or none
	Compression  string `json:"compression,omitempty"`
	RowGroupSize int64  `json:"row_group_size,omitempty"`
}

func (c *Config) Validate() error {
	if c.Compression != "" {
		switch c.Compression {
		case "snappy", "gzip", "zstd", "none", "uncompressed":
		default:
			return fmt.Errorf("invalid compression codec %q; valid options are snappy, gzip, zstd, none", c.Compression)
		}
	}

	if c.RowGroupSize < 0 {
		return fmt.Errorf("row_group_size must be a positive value")
	}
	if c.RowGroupSize == 0 {
		c.RowGroupSize = 128 * 1024 * 1024
	}

	return utils.Validate(c)
}
