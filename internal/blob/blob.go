// Package blob stores uploaded media and hands back durable public URLs.
package blob

import "io"

// Store persists an uploaded file and returns a publicly dereferenceable
// URL. The file must be durable before the URL is handed out; job records
// only ever reference URLs that have been fully written.
type Store interface {
	Upload(name string, r io.Reader) (url string, err error)
}
