package abstract

import (
	"context"
	"net/url"

	"github.com/siphondata/siphon/pkg/rest"
	"github.com/siphondata/siphon/types"
)

type Config interface {
	Validate() error
}

// DriverInterface is implemented once per source API. The abstract
// layer owns the sync loop, checkpointing and error policy; the driver
// owns endpoints, query shapes and page decoding.
type DriverInterface interface {
	GetConfigRef() Config
	Spec() any
	Type() string
	// Setup builds the API client and verifies credentials
	Setup(ctx context.Context) error
	SetupState(state *types.State)
	// Discover returns the source's stream descriptors with schemas
	Discover(ctx context.Context) ([]*types.Stream, error)
	// BaseQuery returns the stream's fixed query parameters for this
	// run; for an incremental sync the bookmark is folded into the
	// source's filter syntax here, once, before the first page.
	BaseQuery(stream types.StreamInterface, bookmark any) (url.Values, error)
	// Paginator returns the page iterator matching the stream's
	// pagination strategy, seeded off the bookmark where relevant.
	Paginator(stream types.StreamInterface, bookmark any) (rest.Paginator, error)
	// ReadPage fetches and decodes one page
	ReadPage(ctx context.Context, stream types.StreamInterface, query url.Values) (*rest.Page, error)
}
