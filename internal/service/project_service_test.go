package service

import (
	"context"
	"testing"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	other := e.user(t, "other@example.com")

	project, err := e.services.Project.Create(ctx, owner, CreateProjectInput{
		UserID:      owner.ID.String(),
		Description: "Compiler",
		Image:       pngUpload(),
	})
	require.NoError(t, err)
	require.NotEqual(t, domain.DefaultProjectImage, project.Image)
	firstImage := project.Image

	_, err = e.services.Project.Create(ctx, owner, CreateProjectInput{
		UserID:      owner.ID.String(),
		Description: "Compiler",
	})
	assert.ErrorIs(t, err, ErrProjectExists)

	_, err = e.services.Project.Create(ctx, other, CreateProjectInput{
		UserID:      owner.ID.String(),
		Description: "Not mine",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.services.Project.Update(ctx, other, project.ID, UpdateProjectInput{Description: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := e.services.Project.Update(ctx, owner, project.ID, UpdateProjectInput{
		Description: strPtr("Optimising compiler"),
		Image:       pngUpload(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Optimising compiler", updated.Description)
	assert.NotEqual(t, firstImage, updated.Image)

	_, _, err = e.store.Open(ctx, firstImage)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := e.services.Project.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Image, got.Image)

	require.NoError(t, e.services.Project.Delete(ctx, owner, project.ID))
	_, _, err = e.store.Open(ctx, updated.Image)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = e.services.Project.Get(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_DefaultImageSurvivesDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")

	project, err := e.services.Project.Create(ctx, owner, CreateProjectInput{
		UserID:      owner.ID.String(),
		Description: "Placeholder",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectImage, project.Image)

	require.NoError(t, e.services.Project.Delete(ctx, owner, project.ID))

	rc, _, err := e.store.Open(ctx, domain.DefaultProjectImage)
	require.NoError(t, err)
	rc.Close()
}

func TestProjectService_Validation(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")

	_, err := e.services.Project.Create(context.Background(), owner, CreateProjectInput{UserID: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "userId")
	assert.Contains(t, err.Error(), "description")
}
