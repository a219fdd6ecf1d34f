package protocol

import (
	"fmt"

	"github.com/siphondata/siphon/destination"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/spf13/cobra"
)

// checkCmd verifies credentials against the source, or reachability of
// the destination when --destination is passed instead of --config. The
// outcome is reported as a CONNECTION_STATUS message, never as a
// process failure.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "check command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if destinationConfigPath == "not-set" && configPath == "not-set" {
			return fmt.Errorf("no connector config or destination config provided")
		}

		if destinationConfigPath != "not-set" {
			destinationConfig = &types.WriterConfig{}
			return utils.UnmarshalFile(destinationConfigPath, destinationConfig, true)
		}

		return utils.UnmarshalFile(configPath, connector.GetConfigRef(), true)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		err := func() error {
			if destinationConfigPath != "not-set" {
				_, err := destination.NewWriterPool(cmd.Context(), destinationConfig, nil)
				return err
			}

			return connector.Setup(cmd.Context())
		}()

		types.LogConnectionStatus(err)
	},
}
