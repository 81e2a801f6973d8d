// Package api serves the mock bank-data HTTP API.
//
// Routes:
//
//	GET  /api/health            liveness probe
//	GET  /api/excel/export      generated rows as JSON
//	GET  /api/excel/download    generated rows as an xlsx attachment
//	POST /api/excel/import      xlsx upload parsed back into rows
//	GET  /api/excel/jobs        recent export jobs
//
// Every response is JSON except downloads. Unknown routes get a JSON 404 and
// handler failures a JSON 500.
package api
