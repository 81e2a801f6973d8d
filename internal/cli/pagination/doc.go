// Package pagination holds the paging and sorting flags shared by list
// commands such as `resinhook jobs`.
package pagination
