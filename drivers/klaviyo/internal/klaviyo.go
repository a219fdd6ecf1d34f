package driver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/siphondata/siphon/drivers/abstract"
	"github.com/siphondata/siphon/pkg/rest"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/siphondata/siphon/utils/typeutils"
)

const baseURL = "https://a.klaviyo.com/api"

type Klaviyo struct {
	config *Config
	client *rest.Client
	state  *types.State
}

func (k *Klaviyo) GetConfigRef() abstract.Config {
	k.config = &Config{}
	return k.config
}

func (k *Klaviyo) Spec() any {
	return spec
}

func (k *Klaviyo) Type() string {
	return "klaviyo"
}

func (k *Klaviyo) SetupState(state *types.State) {
	k.state = state
}

// Setup builds the API client and probes the account endpoint to verify
// the key before any stream work starts.
func (k *Klaviyo) Setup(ctx context.Context) error {
	if err := k.config.Validate(); err != nil {
		return fmt.Errorf("failed to validate config: %s", err)
	}

	headers := map[string]string{
		"Authorization": fmt.Sprintf("Klaviyo-API-Key %s", k.config.APIKey),
		"revision":      k.config.Revision,
	}
	if k.config.UserAgent != "" {
		headers["User-Agent"] = k.config.UserAgent
	}

	k.client = rest.NewClient(rest.Config{
		BaseURL:           baseURL,
		Headers:           headers,
		RequestsPerSecond: k.config.RequestsPerSecond,
		MaxRetries:        k.config.RetryCount,
	})

	probe := map[string]any{}
	if err := k.client.Fetch(ctx, rest.Request{Path: "/accounts"}, &probe); err != nil {
		return fmt.Errorf("failed to reach klaviyo: %s", err)
	}

	logger.Infof("connected to klaviyo api revision[%s]", k.config.Revision)
	return nil
}

func (k *Klaviyo) Discover(_ context.Context) ([]*types.Stream, error) {
	return klaviyoStreams(), nil
}

// BaseQuery folds the bookmark (or the configured start date) into
// Klaviyo's filter syntax and pins an ascending sort on the cursor so
// bookmark observation stays monotonic within a page sequence.
func (k *Klaviyo) BaseQuery(stream types.StreamInterface, bookmark any) (url.Values, error) {
	query := url.Values{}
	if stream.GetSyncMode() != types.INCREMENTAL {
		return query, nil
	}

	cursorField := stream.Cursor()
	if cursorField == "" {
		return nil, fmt.Errorf("stream[%s] has no cursor field for incremental sync", stream.ID())
	}

	bound, err := k.lowerBound(bookmark)
	if err != nil {
		return nil, fmt.Errorf("stream[%s]: %s", stream.ID(), err)
	}

	query.Set("filter", fmt.Sprintf("greater-than(%s,%s)", cursorField, bound.Format(time.RFC3339)))
	query.Set("sort", cursorField)
	return query, nil
}

func (k *Klaviyo) Paginator(stream types.StreamInterface, bookmark any) (rest.Paginator, error) {
	windowStart, err := k.lowerBound(bookmark)
	if err != nil {
		return nil, err
	}

	return rest.NewPaginator(stream, k.config.PageSize, windowStart, time.Now().UTC())
}

// ReadPage fetches one JSON:API page and flattens each resource's
// attributes one level into the record alongside id and type.
func (k *Klaviyo) ReadPage(ctx context.Context, stream types.StreamInterface, query url.Values) (*rest.Page, error) {
	var response pageResponse
	err := k.client.Fetch(ctx, rest.Request{
		Path:        stream.GetStream().Endpoint,
		QueryParams: query,
	}, &response)
	if err != nil {
		return nil, err
	}

	records := make([]map[string]any, 0, len(response.Data))
	for _, resource := range response.Data {
		records = append(records, resource.flatten())
	}

	return &rest.Page{
		Records:    records,
		NextCursor: nextCursorFromLink(response.Links.Next),
	}, nil
}

func (k *Klaviyo) lowerBound(bookmark any) (time.Time, error) {
	if bookmark == nil {
		return k.config.startTime(), nil
	}

	bound, err := typeutils.ReformatDate(bookmark, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("unusable bookmark value %v: %s", bookmark, err)
	}
	return bound.UTC(), nil
}

type pageResponse struct {
	Data  []resource `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type resource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

func (r resource) flatten() map[string]any {
	record := make(map[string]any, len(r.Attributes)+2)
	for key, value := range r.Attributes {
		record[key] = value
	}
	record["id"] = r.ID
	record["type"] = r.Type
	return record
}

// nextCursorFromLink pulls the page[cursor] token out of the links.next
// URL; an absent or unparsable link ends pagination.
func nextCursorFromLink(link string) string {
	if link == "" {
		return ""
	}

	parsed, err := url.Parse(link)
	if err != nil {
		logger.Warnf("ignoring malformed next link %q: %s", link, err)
		return ""
	}

	return parsed.Query().Get("page[cursor]")
}
