package device

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrStationNotReady is reported when the station answers 503 while it is still booting
var ErrStationNotReady = errors.New("station not ready")

// StatusError is returned for any reply other than 200 OK
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Is makes errors.Is(err, ErrStationNotReady) match 503 replies
func (e *StatusError) Is(target error) bool {
	return target == ErrStationNotReady && e.Code == http.StatusServiceUnavailable
}

// StatusCode extracts the HTTP status of err, 0 when err is not a *StatusError
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
