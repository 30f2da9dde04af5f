package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertMessageResponse verifies a {"message": ...} error body
func AssertMessageResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body struct {
		Message string `json:"message"`
	}
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, expectedMessage, body.Message)
}

// AssertPlainTextResponse verifies a plain text error body such as the middleware emits
func AssertPlainTextResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertFieldErrors verifies a validation response names exactly the given fields
func AssertFieldErrors(t *testing.T, resp *http.Response, fields ...string) {
	t.Helper()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unexpected status code")

	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	AssertJSONResponse(t, resp, &body)

	got := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		got = append(got, e.Field)
	}
	assert.ElementsMatch(t, fields, got)
}
