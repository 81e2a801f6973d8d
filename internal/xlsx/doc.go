// Package xlsx builds spreadsheet documents row by row and hands finished
// documents to a delivery target.
//
// Rows are streamed through an excelize StreamWriter, so memory stays bounded
// by the shared-strings table rather than the full cell grid.
package xlsx
