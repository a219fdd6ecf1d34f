package driver

import (
	"fmt"
	"time"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/utils"
)

const defaultRevision = "2024-10-15"

type Config struct {
	APIKey            string  `json:"api_key" validate:"required"`
	StartDate         string  `json:"start_date"`
	Revision          string  `json:"revision"`
	UserAgent         string  `json:"user_agent"`
	PageSize          int     `json:"page_size"`
	RetryCount        int     `json:"backoff_retry_count"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// Validate checks the configuration and fills defaults for any missing fields
func (c *Config) Validate() error {
	if c.StartDate == "" {
		c.StartDate = "2000-01-01T00:00:00Z"
	}
	if _, err := time.Parse(time.RFC3339, c.StartDate); err != nil {
		return fmt.Errorf("invalid start_date %q; expected RFC3339 format: %s", c.StartDate, err)
	}

	if c.Revision == "" {
		c.Revision = defaultRevision
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		c.PageSize = constants.DefaultPageSize
	}
	if c.RetryCount <= 0 {
		c.RetryCount = constants.DefaultRetryCount
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = constants.DefaultRequestsPerSecond
	}

	return utils.Validate(c)
}

func (c *Config) startTime() time.Time {
	parsed, _ := time.Parse(time.RFC3339, c.StartDate)
	return parsed.UTC()
}

// spec is the hand-maintained configuration schema emitted by the spec command
var spec = map[string]interface{}{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"title":   "Klaviyo Source Spec",
	"properties": map[string]interface{}{
		"api_key": map[string]interface{}{
			"type":        "string",
			"title":       "API Key",
			"description": "Klaviyo private API key used to authenticate requests",
			"secret":      true,
			"order":       1,
		},
		"start_date": map[string]interface{}{
			"type":        "string",
			"format":      "date-time",
			"title":       "Start Date",
			"description": "The earliest record date to sync, in RFC3339 format",
			"default":     "2000-01-01T00:00:00Z",
			"order":       2,
		},
		"revision": map[string]interface{}{
			"type":        "string",
			"title":       "API Revision",
			"description": "Klaviyo API endpoint revision",
			"default":     defaultRevision,
			"order":       3,
		},
		"page_size": map[string]interface{}{
			"type":        "integer",
			"title":       "Page Size",
			"description": "Records requested per page, capped at 100 by the source",
			"default":     constants.DefaultPageSize,
			"order":       4,
		},
		"backoff_retry_count": map[string]interface{}{
			"type":        "integer",
			"title":       "Retry Count",
			"description": "Number of retries on throttled or transient request failures",
			"default":     constants.DefaultRetryCount,
			"order":       5,
		},
		"requests_per_second": map[string]interface{}{
			"type":        "number",
			"title":       "Requests Per Second",
			"description": "Client-side rate limit applied across all streams",
			"default":     constants.DefaultRequestsPerSecond,
			"order":       6,
		},
		"user_agent": map[string]interface{}{
			"type":  "string",
			"title": "User Agent",
			"order": 7,
		},
	},
	"required": []string{"api_key"},
}
