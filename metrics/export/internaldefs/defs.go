package internaldefs

import (
	ticketreg "github.com/ssoforge/ticketreg"
)

// CounterDef binds a registry [ticketreg.MetricID] to an exported
// instrument name and help text shared by all exporters.
type CounterDef struct {
	ID   ticketreg.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported registry counter.
var CounterDefs = []CounterDef{
	{ID: ticketreg.MetricTicketsAdded, Name: "ticketreg_tickets_added_total", Help: "Tickets persisted by AddTicket."},
	{ID: ticketreg.MetricTicketsFetched, Name: "ticketreg_tickets_fetched_total", Help: "Successful ticket reads."},
	{ID: ticketreg.MetricTicketsNotFound, Name: "ticketreg_tickets_not_found_total", Help: "Lookups reporting absent or expired tickets."},
	{ID: ticketreg.MetricLazyEvictions, Name: "ticketreg_lazy_evictions_total", Help: "Expired tickets deleted as a side effect of a read."},
	{ID: ticketreg.MetricTicketsDeleted, Name: "ticketreg_tickets_deleted_total", Help: "Store entries removed by cascade deletes."},
	{ID: ticketreg.MetricDecodeFailures, Name: "ticketreg_decode_failures_total", Help: "Decrypt or deserialize failures on stored payloads."},
	{ID: ticketreg.MetricOrphanCleanups, Name: "ticketreg_orphan_cleanups_total", Help: "Encoded tickets removed while cipher operations were disabled."},
}
