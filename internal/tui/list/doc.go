// Package listview provides a virtual scrolling list for Bubble Tea.
//
// Only items inside the viewport, plus an overscan margin, are rendered. The
// offset bookkeeping lives in the window engine, so items may span several
// terminal lines each and the list still scrolls in O(log n) per keypress.
package listview
