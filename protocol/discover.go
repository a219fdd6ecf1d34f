package protocol

import (
	"errors"
	"fmt"
	"time"

	"github.com/siphondata/siphon/telemetry"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/spf13/cobra"
)

// discoverCmd emits the catalog of streams the source exposes
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "discover command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		}

		return utils.UnmarshalFile(configPath, connector.GetConfigRef(), true)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		telemetryClient := telemetry.GetInstance()
		startTime := time.Now()
		defer telemetryClient.Flush()

		if err := connector.Setup(cmd.Context()); err != nil {
			return err
		}

		streams, err := connector.Discover(cmd.Context())
		telemetryClient.TrackDiscover(connector.Type(), len(streams), time.Since(startTime), err)
		if err != nil {
			return err
		}
		if len(streams) == 0 {
			return errors.New("no streams found in connector")
		}

		types.LogCatalog(streams)
		return nil
	},
}
