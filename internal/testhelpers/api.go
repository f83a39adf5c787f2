package testhelpers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stretchr/testify/require"
)

// BuildAuthRequest sets standard headers for authenticated test requests.
func (h *TestHelper) BuildAuthRequest(method, reqURL, jwtString string, body []byte) *http.Request {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(body))
	require.NoError(h.T, err)

	if jwtString != "" {
		req.Header.Set("Authorization", "Bearer "+jwtString)
	}
	if (method == http.MethodPost || method == http.MethodPut) && len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request) *http.Response {
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// Restore the body so it can be read again if needed.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}
