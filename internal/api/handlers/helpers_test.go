package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
