package safego

import (
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/siphondata/siphon/utils/logger"
)

var startTime = time.Now()

// Recovery logs a recovered panic with its stack; with exit set it also
// terminates the process with a failure code. Deferred at the top of
// every connector entrypoint.
func Recovery(exit bool) {
	if err := recover(); err != nil {
		logger.Error(err)
		for _, line := range strings.Split(string(debug.Stack()), "\n") {
			logger.Error(strings.ReplaceAll(line, "\t", ""))
		}

		if exit {
			logger.Infof("Time of execution %v", time.Since(startTime).String())
			os.Exit(1)
		}
	}
}
