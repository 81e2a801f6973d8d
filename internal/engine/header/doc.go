// Package header turns a tree of column headers into the rows, merge regions
// and ordered data keys of a spreadsheet header block.
//
// Group nodes span the columns of all leaves beneath them; leaf nodes carry the
// data key of exactly one column. The resulting Plan depends only on the tree,
// never on row data.
package header
