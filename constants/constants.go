package constants

import (
	"errors"
	"time"
)

const (
	ParquetFileExt    = "parquet"
	SiphonID          = "_siphon_id"
	SiphonExtractedAt = "_siphon_extracted_at"

	// viper keys shared across packages
	ConfigFolder  = "CONFIG_FOLDER"
	StatePath     = "STATE_PATH"
	StreamsPath   = "STREAMS_PATH"
	EncryptionKey = "ENCRYPTION_KEY"

	// CursorTimeLayout prints a fixed-width nanosecond fraction so cursor
	// timestamps of any precision compare lexicographically in time order.
	CursorTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

	DefaultRetryCount        = 3
	DefaultPageSize          = 100
	DefaultRequestsPerSecond = 5
	DefaultRetryBaseDelay    = time.Second
	DefaultRetryMaxDelay     = 2 * time.Minute
)

var (
	// ErrAuthFailed marks credential rejection; never retried, aborts the whole run.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrRateLimited marks a source throttle response; retried with backoff.
	ErrRateLimited = errors.New("rate limited by source")
	// ErrTransient marks a recoverable transport failure; retried with backoff.
	ErrTransient = errors.New("transient request failure")
	// ErrNonRetryable short-circuits retry loops for errors that cannot heal.
	ErrNonRetryable = errors.New("non retryable error")
)
