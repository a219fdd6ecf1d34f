package protocol

import (
	"fmt"
	"sync"
	"time"

	"github.com/siphondata/siphon/destination"
	"github.com/siphondata/siphon/telemetry"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/spf13/cobra"
)

// syncCmd runs the extraction: full-refresh streams are cleared at the
// destination and re-extracted, incremental streams resume from their
// bookmark in the state file.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "siphon sync command",
	Long:  `Sync command starts the source fetchers and streams records into the configured destination`,
	Example: `
// Base command:
siphon sync --config path/to/config --destination path/to/destination/config --streams path/to/streams

// With State:
siphon sync --config path/to/config --destination path/to/destination/config --streams path/to/streams --state path/to/state
`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		} else if destinationConfigPath == "not-set" {
			return fmt.Errorf("--destination not passed")
		} else if streamsPath == "" {
			return fmt.Errorf("--streams not passed")
		}

		if err := utils.UnmarshalFile(configPath, connector.GetConfigRef(), true); err != nil {
			return err
		}

		destinationConfig = &types.WriterConfig{}
		if err := utils.UnmarshalFile(destinationConfigPath, destinationConfig, true); err != nil {
			return err
		}

		catalog = &types.Catalog{}
		if err := utils.UnmarshalFile(streamsPath, catalog, false); err != nil {
			return err
		}

		state = &types.State{
			RWMutex: &sync.RWMutex{},
			Type:    types.StreamType,
		}
		if statePath != "" {
			if err := utils.UnmarshalFile(statePath, state, false); err != nil {
				return err
			}
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := connector.Setup(cmd.Context()); err != nil {
			return err
		}

		configHash, err := utils.ComputeConfigHash(connector.GetConfigRef())
		if err != nil {
			return err
		}
		logger.Infof("starting %s sync run[%s]", connector.Type(), configHash)

		streams, err := connector.Discover(cmd.Context())
		if err != nil {
			return err
		}

		classification, err := GetStreamsClassification(catalog, streams, state)
		if err != nil {
			return err
		}

		if destinationConfig.BatchSize <= 0 {
			destinationConfig.BatchSize = int(batchSize)
		}

		// full-refresh streams always restart from scratch; their old
		// destination data goes first
		pool, err := destination.NewWriterPool(cmd.Context(), destinationConfig, classification.fullLoadIDs())
		if err != nil {
			return err
		}

		connector.SetupState(state)

		validStreams := append(classification.FullLoadStreams, classification.IncrementalStreams...)
		syncStart := time.Now()
		syncErr := connector.Sync(cmd.Context(), pool, validStreams...)

		logger.Infof("sync finished in %s; read %d records, flushed %d", time.Since(syncStart).String(), pool.ReadRecords(), pool.SyncedRecords())

		telemetryClient := telemetry.GetInstance()
		telemetryClient.TrackSync(connector.Type(), pool.SyncedRecords(), time.Since(syncStart), syncErr)
		telemetryClient.Flush()

		return syncErr
	},
}

func (s *StreamClassification) fullLoadIDs() []string {
	ids := make([]string, 0, len(s.FullLoadStreams))
	for _, stream := range s.FullLoadStreams {
		ids = append(ids, stream.ID())
	}

	return ids
}
