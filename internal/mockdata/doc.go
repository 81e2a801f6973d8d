// Package mockdata generates fake bank transactions and accounts for demos,
// the mock API and load testing the export pipeline.
//
// Rows come in two key sets: Chinese keys, which export as-is, and English
// keys, which pair with the header maps in this package to produce Chinese
// column labels.
package mockdata
