package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// maxBodyBytes bounds how much of an upstream body is read.
const maxBodyBytes = 4 << 20

// ErrEmptyBody is returned by DecodeJSON when a 2xx response carries no
// document (an empty body or a JSON null).
var ErrEmptyBody = errors.New("empty response body")

// ParseResponseError consumes a non-2xx response and translates it into an
// AppError named after upstream.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	detail := strings.TrimSpace(string(body))

	path := ""
	if resp.Request != nil {
		path = resp.Request.URL.Path
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(upstream+" resource", path)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s rejected the request: %s", upstream, detail))
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return apperrors.ServiceUnavailable(
			upstream+" is unavailable",
			fmt.Errorf("status %d: %s", resp.StatusCode, detail),
		)
	default:
		return fmt.Errorf("%s returned status %d: %s", upstream, resp.StatusCode, detail)
	}
}

// DecodeJSON reads a 2xx body into dst. It returns ErrEmptyBody when the
// upstream answered with no document.
func DecodeJSON(resp *http.Response, dst any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
