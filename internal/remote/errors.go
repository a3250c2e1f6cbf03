package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteStoreError is returned for any non-2xx response from the mail API.
// Body holds the raw response text.
type RemoteStoreError struct {
	Status int
	Body   string
	Method string
	Path   string
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("API Error %d on %s %s: %s", e.Status, e.Method, e.Path, e.Body)
}

// NotFound reports whether the store answered 404.
func (e *RemoteStoreError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsRemoteStoreError reports whether err (or any error in its chain) is a
// RemoteStoreError.
func IsRemoteStoreError(err error) bool {
	var storeErr *RemoteStoreError
	return errors.As(err, &storeErr)
}

// IsNotFound reports whether err carries a 404 from the mail API.
func IsNotFound(err error) bool {
	var storeErr *RemoteStoreError
	return errors.As(err, &storeErr) && storeErr.NotFound()
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// RemoteStoreError.
func StatusCode(err error) int {
	var storeErr *RemoteStoreError
	if errors.As(err, &storeErr) {
		return storeErr.Status
	}
	return 0
}
