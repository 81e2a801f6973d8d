// Package cache keeps fetched row payloads on disk with a TTL.
//
// Remote row sources are slow and often re-requested while iterating on
// export options, so the last response for each source is stored as a JSON
// file under the cache directory (default ~/.resinhook/cache). Keys are SHA256
// digests of the request, which keeps file names short and filesystem safe.
package cache
