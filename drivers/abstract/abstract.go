package abstract

import (
	"context"
	"fmt"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/types"
)

// AbstractDriver wraps a concrete source driver with the shared sync
// machinery: discovery post-processing, the page loop, bookmark
// observation and checkpointing.
type AbstractDriver struct {
	driver DriverInterface
	state  *types.State
}

// DefaultColumns are attached to every discovered stream
var DefaultColumns = map[string]types.DataType{
	constants.SiphonID:          types.String,
	constants.SiphonExtractedAt: types.TimestampMilli,
}

func NewAbstractDriver(driver DriverInterface) *AbstractDriver {
	return &AbstractDriver{driver: driver}
}

func (a *AbstractDriver) SetupState(state *types.State) {
	a.state = state
	a.driver.SetupState(state)
}

func (a *AbstractDriver) GetConfigRef() Config {
	return a.driver.GetConfigRef()
}

func (a *AbstractDriver) Spec() any {
	return a.driver.Spec()
}

func (a *AbstractDriver) Type() string {
	return a.driver.Type()
}

func (a *AbstractDriver) Setup(ctx context.Context) error {
	return a.driver.Setup(ctx)
}

// Discover fetches the driver's stream descriptors and normalizes them:
// default columns attached, preferred sync mode selected.
func (a *AbstractDriver) Discover(ctx context.Context) ([]*types.Stream, error) {
	streams, err := a.driver.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover streams: %s", err)
	}

	for _, stream := range streams {
		for column, typ := range DefaultColumns {
			stream.UpsertField(column, typ, true)
		}

		if stream.SyncMode == "" {
			if stream.SupportedSyncModes.Exists(types.INCREMENTAL) {
				stream.SyncMode = types.INCREMENTAL
			} else {
				stream.SyncMode = types.FULLREFRESH
			}
		}
	}

	return streams, nil
}
