package siphon

import (
	"os"

	_ "github.com/siphondata/siphon/destination/parquet" // registering local parquet writer
	_ "github.com/siphondata/siphon/destination/stdout"  // registering stdout writer
	"github.com/siphondata/siphon/drivers/abstract"
	"github.com/siphondata/siphon/protocol"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/siphondata/siphon/utils/safego"
)

// RegisterDriver is the entrypoint a driver binary calls from main
func RegisterDriver(driver abstract.DriverInterface) {
	defer safego.Recovery(true)

	// Execute the root command
	err := protocol.CreateRootCommand(driver).Execute()
	if err != nil {
		logger.Fatal(err)
	}

	os.Exit(0)
}
