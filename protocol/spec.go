package protocol

import (
	"fmt"

	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/spf13/cobra"
)

// specCmd emits the connector's configuration schema
var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "spec command",
	RunE: func(_ *cobra.Command, _ []string) error {
		spec := map[string]interface{}{}
		if err := utils.Unmarshal(connector.Spec(), &spec); err != nil {
			return fmt.Errorf("failed to serialize connector spec: %s", err)
		}

		types.LogSpec(spec)
		return nil
	},
}
