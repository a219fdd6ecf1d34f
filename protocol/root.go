package protocol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/drivers/abstract"
	"github.com/siphondata/siphon/telemetry"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath            string
	destinationConfigPath string
	statePath             string
	streamsPath           string
	encryptionKey         string
	batchSize             int64
	noSave                bool

	catalog           *types.Catalog
	state             *types.State
	destinationConfig *types.WriterConfig

	commands  = []*cobra.Command{}
	connector *abstract.AbstractDriver
)

// StreamClassification splits the catalog's selected streams by the sync
// mode they will run with; state is pruned to the streams that survive.
type StreamClassification struct {
	SelectedStreams    []string
	IncrementalStreams []types.StreamInterface
	FullLoadStreams    []types.StreamInterface
	NewStreamsState    []*types.StreamState
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "siphon",
	Short: "root command",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		viper.SetDefault(constants.ConfigFolder, os.TempDir())
		viper.SetDefault(constants.StatePath, filepath.Join(os.TempDir(), "state.json"))
		viper.SetDefault(constants.StreamsPath, filepath.Join(os.TempDir(), "streams.json"))
		if !noSave {
			configFolder := utils.Ternary(configPath == "not-set", filepath.Dir(destinationConfigPath), filepath.Dir(configPath)).(string)
			streamsPathEnv := utils.Ternary(streamsPath == "", filepath.Join(configFolder, "streams.json"), streamsPath).(string)
			statePathEnv := utils.Ternary(statePath == "", filepath.Join(configFolder, "state.json"), statePath).(string)
			viper.Set(constants.ConfigFolder, configFolder)
			viper.Set(constants.StatePath, statePathEnv)
			viper.Set(constants.StreamsPath, streamsPathEnv)
		}

		if encryptionKey != "" {
			viper.Set(constants.EncryptionKey, encryptionKey)
		}

		// logger and telemetry use CONFIG_FOLDER
		logger.Init()
		telemetry.Init()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'siphon --help' to display usage guide", args[0])
		}

		return nil
	},
}

// CreateRootCommand wires the driver into the command tree; called once
// from the connector entrypoint.
func CreateRootCommand(driver abstract.DriverInterface) *cobra.Command {
	RootCmd.AddCommand(commands...)
	connector = abstract.NewAbstractDriver(driver)

	return RootCmd
}

// GetStreamsClassification validates the configured streams against the
// source's discovered streams and buckets the survivors by sync mode.
// Passing nil streams skips source validation (used when clearing a
// destination without touching the source).
func GetStreamsClassification(catalog *types.Catalog, streams []*types.Stream, state *types.State) (*StreamClassification, error) {
	classifications := &StreamClassification{
		SelectedStreams:    []string{},
		IncrementalStreams: []types.StreamInterface{},
		FullLoadStreams:    []types.StreamInterface{},
		NewStreamsState:    []*types.StreamState{},
	}

	selectedStreamsMap := make(map[string]types.StreamMetadata)
	for namespace, streamsMetadata := range catalog.SelectedStreams {
		for _, streamMetadata := range streamsMetadata {
			selectedStreamsMap[utils.StreamIdentifier(streamMetadata.StreamName, namespace)] = streamMetadata
		}
	}

	stateStreamMap := make(map[string]*types.StreamState)
	for _, streamState := range state.Streams {
		stateStreamMap[utils.StreamIdentifier(streamState.Stream, streamState.Namespace)] = streamState
	}

	_, _ = utils.ArrayContains(catalog.Streams, func(elem *types.ConfiguredStream) bool {
		sMetadata, selected := selectedStreamsMap[elem.ID()]
		if !(catalog.SelectedStreams == nil || selected) {
			logger.Debugf("Skipping stream %s.%s; not in selected streams.", elem.Namespace(), elem.Name())
			return false
		}

		if streams != nil {
			source, found := types.StreamsToMap(streams...)[elem.ID()]
			if !found {
				logger.Warnf("Skipping; Configured Stream %s not found in source", elem.ID())
				return false
			}
			elem.StreamMetadata = sMetadata
			if err := elem.Validate(source); err != nil {
				logger.Warnf("Skipping; Configured Stream %s found invalid due to reason: %s", elem.ID(), err)
				return false
			}
		}

		classifications.SelectedStreams = append(classifications.SelectedStreams, elem.ID())
		switch elem.Stream.SyncMode {
		case types.INCREMENTAL:
			classifications.IncrementalStreams = append(classifications.IncrementalStreams, elem)
			if streamState, exists := stateStreamMap[elem.ID()]; exists {
				classifications.NewStreamsState = append(classifications.NewStreamsState, streamState)
			}
		default:
			classifications.FullLoadStreams = append(classifications.FullLoadStreams, elem)
		}

		return false
	})

	// state for deselected streams is dropped; a full refresh always
	// restarts from scratch so its state is dropped too
	if streams != nil {
		state.Streams = classifications.NewStreamsState
	}
	if len(classifications.SelectedStreams) == 0 {
		return nil, fmt.Errorf("no valid streams found in catalog")
	}

	logger.Infof("Valid selected streams are %s", strings.Join(classifications.SelectedStreams, ", "))
	return classifications, nil
}

func init() {
	commands = append(commands, specCmd, checkCmd, discoverCmd, syncCmd, clearCmd)
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "not-set", "(Required) Config for connector")
	RootCmd.PersistentFlags().StringVarP(&destinationConfigPath, "destination", "", "not-set", "(Required) Destination config for connector")
	RootCmd.PersistentFlags().StringVarP(&streamsPath, "catalog", "", "", "Path to the streams file for the connector")
	RootCmd.PersistentFlags().StringVarP(&streamsPath, "streams", "", "", "Path to the streams file for the connector")
	RootCmd.PersistentFlags().StringVarP(&statePath, "state", "", "", "(Optional) State for connector")
	RootCmd.PersistentFlags().Int64VarP(&batchSize, "destination-buffer-size", "", 10000, "(Optional) Batch size for destination")
	RootCmd.PersistentFlags().BoolVarP(&noSave, "no-save", "", false, "(Optional) Flag to skip logging artifacts in file")
	RootCmd.PersistentFlags().StringVarP(&encryptionKey, "encryption-key", "", "", "(Optional) Decryption key. Provide the ARN of a KMS key or a custom string based on your encryption configuration.")
	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
