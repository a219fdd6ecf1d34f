package telemetry

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	analytics "github.com/segmentio/analytics-go/v3"
	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/spf13/viper"
)

const (
	version         = "0.1.0"
	anonymousIDFile = "telemetry_id"
	disableEnvVar   = "SIPHON_TELEMETRY_DISABLED"
	writeKeyEnvVar  = "SIPHON_TELEMETRY_WRITE_KEY"
)

var (
	instance *Telemetry
	once     sync.Once
)

// Telemetry sends anonymous usage events; disabled entirely when no
// write key is configured or the opt-out env var is set.
type Telemetry struct {
	client      analytics.Client
	anonymousID string
	enabled     bool
	platform    platformInfo
}

type platformInfo struct {
	OS            string
	Arch          string
	SiphonVersion string
}

func Init() {
	once.Do(func() {
		writeKey := os.Getenv(writeKeyEnvVar)
		enabled := writeKey != "" && !strings.EqualFold(os.Getenv(disableEnvVar), "true")

		instance = &Telemetry{
			enabled:     enabled,
			anonymousID: loadAnonymousID(),
			platform: platformInfo{
				OS:            runtime.GOOS,
				Arch:          runtime.GOARCH,
				SiphonVersion: version,
			},
		}
		if enabled {
			instance.client = analytics.New(writeKey)
		}
	})
}

func GetInstance() *Telemetry {
	Init()
	return instance
}

// loadAnonymousID reuses the install-scoped id file so events of one
// deployment correlate across runs.
func loadAnonymousID() string {
	idPath := filepath.Join(viper.GetString(constants.ConfigFolder), anonymousIDFile)
	if data, err := os.ReadFile(idPath); err == nil && len(data) > 0 {
		return strings.TrimSpace(string(data))
	}

	id := utils.ULID()
	if err := os.WriteFile(idPath, []byte(id), 0o644); err != nil {
		logger.Debugf("failed to persist telemetry id: %s", err)
	}
	return id
}

// SendEvent is a no-op when telemetry is disabled
func (t *Telemetry) SendEvent(event string, properties map[string]interface{}) error {
	if !t.enabled || t.client == nil {
		return nil
	}

	props := analytics.NewProperties().
		Set("os", t.platform.OS).
		Set("arch", t.platform.Arch).
		Set("siphon_version", t.platform.SiphonVersion)
	for key, value := range properties {
		props.Set(key, value)
	}

	return t.client.Enqueue(analytics.Track{
		AnonymousId: t.anonymousID,
		Event:       event,
		Properties:  props,
	})
}

func (t *Telemetry) Flush() {
	if t.client != nil {
		_ = t.client.Close()
	}
}

// TrackDiscover reports the outcome of a discover command
func (t *Telemetry) TrackDiscover(sourceType string, streamCount int, duration time.Duration, discoverErr error) {
	props := map[string]interface{}{
		"source_type":  sourceType,
		"stream_count": streamCount,
		"duration_sec": duration.Seconds(),
		"success":      discoverErr == nil,
	}
	if err := t.SendEvent("DiscoverCompleted", props); err != nil {
		logger.Debugf("failed to send discover event: %s", err)
	}
}

// TrackSync reports the outcome of a sync run
func (t *Telemetry) TrackSync(sourceType string, records int64, duration time.Duration, syncErr error) {
	props := map[string]interface{}{
		"source_type":     sourceType,
		"records_flushed": records,
		"duration_sec":    duration.Seconds(),
		"success":         syncErr == nil,
	}
	if err := t.SendEvent("SyncCompleted", props); err != nil {
		logger.Debugf("failed to send sync event: %s", err)
	}
}
