package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *string
		wantErr bool
	}{
		{name: "empty is ongoing", input: ""},
		{name: "until now is ongoing", input: "until now"},
		{name: "case and spaces ignored", input: "  Until Now "},
		{name: "date", input: "2022-02-12", want: strPtr("2022-02-12")},
		{name: "wrong layout", input: "12.02.2022", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEndDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatEndDate(got))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestNewCVDocument(t *testing.T) {
	user := &User{ID: uuid.New(), FirstName: "Ada", Email: "ada@example.com", Image: DefaultUserImage}
	start, err := ParseDate("2020-01-01")
	require.NoError(t, err)

	doc := NewCVDocument(user,
		[]*Experience{{ID: 7, UserID: user.ID, CompanyName: "Acme", Role: "Engineer", StartDate: start}},
		nil,
		nil,
	)

	assert.Equal(t, user.ID.String(), doc.ID)
	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, uint(7), doc.Experiences[0].ID)
	assert.Equal(t, "2020-01-01", doc.Experiences[0].StartDate)
	assert.Nil(t, doc.Experiences[0].EndDate)
	assert.NotNil(t, doc.Projects)
	assert.NotNil(t, doc.Feedbacks)
}

func TestActor_CanManage(t *testing.T) {
	owner := uuid.New()
	assert.True(t, Actor{ID: owner, Role: RoleUser}.CanManage(owner))
	assert.False(t, Actor{ID: uuid.New(), Role: RoleUser}.CanManage(owner))
	assert.True(t, Actor{ID: uuid.New(), Role: RoleAdmin}.CanManage(owner))
}
