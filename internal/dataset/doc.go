// Package dataset defines the row records that flow from a data source into
// the export pipeline and the virtual list.
//
// A Row is an insertion-ordered map so that the key order of the first record
// (as it appeared in JSON, a spreadsheet header, or a generator) becomes the
// default column order of an export.
package dataset
