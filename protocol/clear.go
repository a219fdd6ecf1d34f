package protocol

import (
	"fmt"
	"sync"

	"github.com/siphondata/siphon/destination"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/spf13/cobra"
)

// clearCmd drops destination data and bookmarks for the selected
// streams so the next sync re-extracts them from scratch.
var clearCmd = &cobra.Command{
	Use:   "clear-destination",
	Short: "siphon clear command to clear destination data and state for selected streams",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if destinationConfigPath == "not-set" {
			return fmt.Errorf("--destination not passed")
		} else if streamsPath == "" {
			return fmt.Errorf("--streams not passed")
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
		classification, err := GetStreamsClassification(catalog, nil, state)
		if err != nil {
			return fmt.Errorf("failed to get selected streams for clearing: %s", err)
		}

		dropStreams := append(classification.IncrementalStreams, classification.FullLoadStreams...)
		dropIDs := make([]string, 0, len(dropStreams))
		for _, stream := range dropStreams {
			dropIDs = append(dropIDs, stream.ID())
		}

		if _, err := destination.NewWriterPool(cmd.Context(), destinationConfig, dropIDs); err != nil {
			return fmt.Errorf("failed to clear destination: %s", err)
		}

		for _, stream := range dropStreams {
			state.ResetCursor(stream.Self(), stream.Cursor())
		}
		state.LogState()

		logger.Infof("cleared destination data and state for %d streams", len(dropStreams))
		return nil
	},
}
