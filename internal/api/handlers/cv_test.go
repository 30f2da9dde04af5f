package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCVHandler(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, ownerToken := testutil.NewUserBuilder().WithName("Ada", "Lovelace").BuildAndAuthenticate(t, ts)
	colleague, colleagueToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	cvURL := ts.APIURL(fmt.Sprintf("/user/%s/cv", owner.ID))

	getCV := func(t *testing.T) domain.CVDocument {
		t.Helper()
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, cvURL, nil, colleagueToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc domain.CVDocument
		testutil.AssertJSONResponse(t, resp, &doc)
		return doc
	}

	t.Run("empty cv", func(t *testing.T) {
		doc := getCV(t)
		assert.Equal(t, owner.ID.String(), doc.ID)
		assert.Equal(t, "Ada", doc.FirstName)
		assert.NotNil(t, doc.Experiences)
		assert.Empty(t, doc.Experiences)
		assert.Empty(t, doc.Projects)
		assert.Empty(t, doc.Feedbacks)
	})

	t.Run("reflects new records", func(t *testing.T) {
		experience := map[string]string{
			"userId":      owner.ID.String(),
			"companyName": "Acme",
			"role":        "Engineer",
			"startDate":   "2020-01-01",
			"description": "Built things",
		}
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/experience"), experience, ownerToken))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		feedback := map[string]string{
			"fromUser":    colleague.ID.String(),
			"toUser":      owner.ID.String(),
			"companyName": "Acme",
			"content":     "Great teammate",
		}
		resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/feedback"), feedback, colleagueToken))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		doc := getCV(t)
		require.Len(t, doc.Experiences, 1)
		assert.Equal(t, "Acme", doc.Experiences[0].CompanyName)
		require.Len(t, doc.Feedbacks, 1)
		assert.Equal(t, colleague.ID.String(), doc.Feedbacks[0].FromUser)
	})

	t.Run("reflects profile update", func(t *testing.T) {
		update := map[string]string{"title": "Principal Engineer"}
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPut, ts.APIURL("/users/"+owner.ID.String()), update, ownerToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, "Principal Engineer", getCV(t).Title)
	})

	t.Run("author deletion drops feedback", func(t *testing.T) {
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/users/"+colleague.ID.String()), nil, colleagueToken))
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, cvURL, nil, ownerToken))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc domain.CVDocument
		testutil.AssertJSONResponse(t, resp, &doc)
		assert.Empty(t, doc.Feedbacks)
		assert.Len(t, doc.Experiences, 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		url := ts.APIURL("/user/8f14e45f-ceea-4e67-a5c3-8e1d2a3b4c5d/cv")
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, ownerToken))
		testutil.AssertMessageResponse(t, resp, http.StatusNotFound, "User not found")
	})

	t.Run("invalid user id", func(t *testing.T) {
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/user/nope/cv"), nil, ownerToken))
		testutil.AssertFieldErrors(t, resp, "userId")
	})
}
