package types

import (
	"path/filepath"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/spf13/viper"
)

// LogSpec emits the SPEC message and writes config.json into the config folder
func LogSpec(spec map[string]interface{}) {
	message := Message{
		Type: SpecMessage,
		Spec: spec,
	}

	logger.Info(message)
	if configFolder := viper.GetString(constants.ConfigFolder); configFolder != "" {
		if err := logger.FileLogger(message.Spec, filepath.Join(configFolder, "config.json")); err != nil {
			logger.Fatalf("failed to create spec file: %s", err)
		}
	}
}

// LogCatalog emits the CATALOG message and writes streams.json into the config folder
func LogCatalog(streams []*Stream) {
	message := Message{
		Type:    CatalogMessage,
		Catalog: GetWrappedCatalog(streams),
	}

	logger.Info(message)
	if configFolder := viper.GetString(constants.ConfigFolder); configFolder != "" {
		if err := logger.FileLogger(message.Catalog, filepath.Join(configFolder, "streams.json")); err != nil {
			logger.Fatalf("failed to create catalog file: %s", err)
		}
	}
}

// LogConnectionStatus emits the CONNECTION_STATUS message for the check command
func LogConnectionStatus(err error) {
	message := Message{
		Type:             ConnectionStatusMessage,
		ConnectionStatus: &StatusRow{},
	}
	if err != nil {
		message.ConnectionStatus.Message = err.Error()
		message.ConnectionStatus.Status = ConnectionFailed
	} else {
		message.ConnectionStatus.Status = ConnectionSucceed
	}

	logger.Info(message)
}
