package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func pngUpload(name string) *models.Upload {
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	return &models.Upload{Filename: name, Size: int64(len(content)), Content: bytes.NewReader(content)}
}

func TestResourceService_Lifecycle(t *testing.T) {
	semesters := newMemSemesters(models.DefaultSemesterNames...)
	store := newTestStore(t)
	service := NewResourceService(newMemResources(semesters), semesters, trustedAuthz(), store, zerolog.Nop())
	ctx := context.Background()

	first, err := service.Create(ctx, admin, dto.ResourceInput{Title: "Calculus Notes", SemesterID: 1}, pdfUpload("notes.pdf", pdfBytes(512, 'n')))
	require.NoError(t, err)
	desc := "Whiteboard photos from the data lab"
	second, err := service.Create(ctx, admin, dto.ResourceInput{Title: "Lab Photos", SemesterID: 1, Description: &desc}, pngUpload("lab board.png"))
	require.NoError(t, err)

	all, err := service.List(ctx, models.ContentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	matched, err := service.List(ctx, models.ContentFilter{Search: "DATA"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Lab Photos", matched[0].Title)

	d, err := service.Download(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.ContentType)
	assert.Contains(t, d.FileName, "lab_board.png")

	updated, err := service.Update(ctx, admin, first.ID, dto.ResourceInput{Title: "Calculus Notes v2", SemesterID: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, *first.FilePath, *updated.FilePath)
	assert.Equal(t, int64(2), updated.SemesterID)

	require.NoError(t, service.Delete(ctx, admin, first.ID))
	assert.ErrorIs(t, service.Delete(ctx, admin, first.ID), apperrors.ErrResourceNotFound)
	assert.Len(t, storedFiles(t, store), 1)
}

func TestResourceService_RejectsUnsupportedType(t *testing.T) {
	semesters := newMemSemesters(models.DefaultSemesterNames...)
	store := newTestStore(t)
	service := NewResourceService(newMemResources(semesters), semesters, trustedAuthz(), store, zerolog.Nop())

	content := []byte("#!/bin/sh\necho not a study resource\n")
	_, err := service.Create(context.Background(), admin, dto.ResourceInput{Title: "Script", SemesterID: 1},
		&models.Upload{Filename: "notes.pdf", Size: int64(len(content)), Content: bytes.NewReader(content)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, storedFiles(t, store))
}

func TestResourceService_UpdateReplacesFile(t *testing.T) {
	semesters := newMemSemesters(models.DefaultSemesterNames...)
	store := newTestStore(t)
	service := NewResourceService(newMemResources(semesters), semesters, trustedAuthz(), store, zerolog.Nop())
	ctx := context.Background()

	original, err := service.Create(ctx, admin, dto.ResourceInput{Title: "Circuit Diagrams", SemesterID: 3}, pdfUpload("circuits.pdf", pdfBytes(256, 'c')))
	require.NoError(t, err)
	require.NotNil(t, original.FilePath)
	require.Equal(t, []string{*original.FilePath}, storedFiles(t, store))

	updated, err := service.Update(ctx, admin, original.ID, dto.ResourceInput{Title: "Circuit Diagrams", SemesterID: 3}, pngUpload("circuits scan.png"))
	require.NoError(t, err)
	require.NotNil(t, updated.FilePath)
	assert.NotEqual(t, *original.FilePath, *updated.FilePath)
	assert.Contains(t, *updated.FilePath, "circuits_scan.png")
	assert.Equal(t, []string{*updated.FilePath}, storedFiles(t, store), "replaced file must be removed")

	d, err := service.Download(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.ContentType)
}
