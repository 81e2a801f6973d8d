// Package source loads row data for export and browsing. Each loader is an
// export.Producer, so the pipeline calls it once when a job starts.
package source
