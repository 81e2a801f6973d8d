// Package export turns row data into a spreadsheet in bounded chunks.
//
// An Exporter runs one job at a time through a small state machine:
//
//	idle → loading → resolving → streaming → finalizing → done
//	                     │            │
//	                     └─→ error ←──┤
//	                                  └─→ cancelled
//
// Row data is pulled once (directly or from a Producer), the column plan is
// resolved once, header rows are written, and data rows are appended chunk by
// chunk with a yield after each chunk. Cancellation and supersession by a newer
// job are observed only at those yield points. Failures never escape Export:
// they end the job in the error state.
package export
