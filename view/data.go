package view

import (
	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/tag"
)

// Data is an immutable point-in-time snapshot of a view. Start is the
// registration timestamp, End the query timestamp; both are sampled at the
// synchronous call sites, never inside the queue worker.
type Data struct {
	Descriptor Descriptor
	Start      clock.Timestamp
	End        clock.Timestamp
	Rows       []Row
}

// Row is the aggregated state of one tag combination. Tags follow the
// descriptor's tag key order, with UnknownTagValue filling keys the recorded
// contexts did not carry.
type Row struct {
	Tags  []tag.Tag
	Stats DistributionStats
}
