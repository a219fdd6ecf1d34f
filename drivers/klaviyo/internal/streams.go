package driver

import (
	"github.com/siphondata/siphon/types"
)

// Stream descriptors are static; the Klaviyo API has no schema-discovery
// surface, so schemas mirror the documented resource attributes.

func eventsStream() *types.Stream {
	stream := types.NewStream("events", "klaviyo").
		WithEndpoint("/events").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("datetime")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("metric_id", types.String, true)
	stream.UpsertField("profile_id", types.String, true)
	stream.UpsertField("uuid", types.String, true)
	stream.UpsertField("timestamp", types.Int64, true)
	stream.UpsertField("datetime", types.Timestamp, true)
	stream.UpsertField("event_properties", types.Object, true)
	return stream
}

func campaignsStream() *types.Stream {
	stream := types.NewStream("campaigns", "klaviyo").
		WithEndpoint("/campaigns").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated_at")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	stream.UpsertField("status", types.String, true)
	stream.UpsertField("archived", types.Bool, true)
	stream.UpsertField("audiences", types.Object, true)
	stream.UpsertField("send_options", types.Object, true)
	stream.UpsertField("tracking_options", types.Object, true)
	stream.UpsertField("send_time", types.Timestamp, true)
	stream.UpsertField("scheduled_at", types.Timestamp, true)
	stream.UpsertField("created_at", types.Timestamp, true)
	stream.UpsertField("updated_at", types.Timestamp, true)
	return stream
}

func profilesStream() *types.Stream {
	stream := types.NewStream("profiles", "klaviyo").
		WithEndpoint("/profiles").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("email", types.String, true)
	stream.UpsertField("phone_number", types.String, true)
	stream.UpsertField("external_id", types.String, true)
	stream.UpsertField("first_name", types.String, true)
	stream.UpsertField("last_name", types.String, true)
	stream.UpsertField("organization", types.String, true)
	stream.UpsertField("title", types.String, true)
	stream.UpsertField("location", types.Object, true)
	stream.UpsertField("properties", types.Object, true)
	stream.UpsertField("created", types.Timestamp, true)
	stream.UpsertField("updated", types.Timestamp, true)
	return stream
}

func metricsStream() *types.Stream {
	stream := types.NewStream("metrics", "klaviyo").
		WithEndpoint("/metrics").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	stream.UpsertField("integration", types.Object, true)
	stream.UpsertField("created", types.Timestamp, true)
	stream.UpsertField("updated", types.Timestamp, true)
	return stream
}

func listsStream() *types.Stream {
	stream := types.NewStream("lists", "klaviyo").
		WithEndpoint("/lists").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	stream.UpsertField("opt_in_process", types.String, true)
	stream.UpsertField("created", types.Timestamp, true)
	stream.UpsertField("updated", types.Timestamp, true)
	return stream
}

func segmentsStream() *types.Stream {
	stream := types.NewStream("segments", "klaviyo").
		WithEndpoint("/segments").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	stream.UpsertField("definition", types.Object, true)
	stream.UpsertField("is_active", types.Bool, true)
	stream.UpsertField("is_processing", types.Bool, true)
	stream.UpsertField("is_starred", types.Bool, true)
	stream.UpsertField("created", types.Timestamp, true)
	stream.UpsertField("updated", types.Timestamp, true)
	return stream
}

func flowsStream() *types.Stream {
	stream := types.NewStream("flows", "klaviyo").
		WithEndpoint("/flows").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	stream.UpsertField("status", types.String, true)
	stream.UpsertField("archived", types.Bool, true)
	stream.UpsertField("trigger_type", types.String, true)
	stream.UpsertField("created", types.Timestamp, true)
	stream.UpsertField("updated", types.Timestamp, true)
	return stream
}

func templatesStream() *types.Stream {
	stream := types.NewStream("templates", "klaviyo").
		WithEndpoint("/templates").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithPrimaryKey("id").
		WithCursorField("updated")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	stream.UpsertField("editor_type", types.String, true)
	stream.UpsertField("html", types.String, true)
	stream.UpsertField("text", types.String, true)
	stream.UpsertField("created", types.Timestamp, true)
	stream.UpsertField("updated", types.Timestamp, true)
	return stream
}

// tags has no timestamp attribute to filter on; full refresh only
func tagsStream() *types.Stream {
	stream := types.NewStream("tags", "klaviyo").
		WithEndpoint("/tags").
		WithPagination(types.PaginateCursor).
		WithSyncMode(types.FULLREFRESH).
		WithPrimaryKey("id")

	stream.UpsertField("id", types.String, false)
	stream.MarkRequired("id")
	stream.UpsertField("type", types.String, true)
	stream.UpsertField("name", types.String, true)
	return stream
}

func klaviyoStreams() []*types.Stream {
	return []*types.Stream{
		eventsStream(),
		campaignsStream(),
		profilesStream(),
		metricsStream(),
		listsStream(),
		segmentsStream(),
		flowsStream(),
		templatesStream(),
		tagsStream(),
	}
}
