package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/blobstore"
)

const megabyte = 1024 * 1024

func newPaperService(t *testing.T) (QuestionPaperService, *blobstore.LocalStore) {
	t.Helper()
	semesters := newMemSemesters(models.DefaultSemesterNames...)
	store := newTestStore(t)
	return NewQuestionPaperService(newMemPapers(semesters), semesters, trustedAuthz(), store, zerolog.Nop()), store
}

func TestQuestionPaperService_SizeLimit(t *testing.T) {
	service, store := newPaperService(t)
	ctx := context.Background()
	input := dto.QuestionPaperInput{SemesterID: 2, Course: "Calculus", Year: 2023}

	qp, err := service.Create(ctx, admin, input, pdfUpload("calc.pdf", pdfBytes(10*megabyte, 'c')))
	require.NoError(t, err, "a 10MB PDF is accepted")
	assert.NotZero(t, qp.ID)

	_, err = service.Create(ctx, admin, input, pdfUpload("calc.pdf", pdfBytes(15*megabyte, 'c')))
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "file", verr.Fields[0].Field)

	assert.Len(t, storedFiles(t, store), 1)
}

func TestQuestionPaperService_YearRange(t *testing.T) {
	service, _ := newPaperService(t)

	_, err := service.Create(context.Background(), admin,
		dto.QuestionPaperInput{SemesterID: 2, Course: "Calculus", Year: 1850},
		pdfUpload("calc.pdf", pdfBytes(512, 'c')))
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "year", verr.Fields[0].Field)
}

func TestQuestionPaperService_DownloadName(t *testing.T) {
	service, _ := newPaperService(t)
	ctx := context.Background()

	blank := "   "
	qp, err := service.Create(ctx, admin,
		dto.QuestionPaperInput{SemesterID: 2, Course: "Data Structures", Year: 2022, FileName: &blank},
		pdfUpload("upload.pdf", pdfBytes(512, 'd')))
	require.NoError(t, err)
	assert.Nil(t, qp.FileName, "blank display names are not stored")

	d, err := service.Download(ctx, qp.ID)
	require.NoError(t, err)
	assert.Equal(t, "data_structures_2022.pdf", d.FileName)
	assert.Equal(t, "application/pdf", d.ContentType)
}

func TestQuestionPaperService_ListOrderAndSearch(t *testing.T) {
	service, _ := newPaperService(t)
	ctx := context.Background()

	papers := []dto.QuestionPaperInput{
		{SemesterID: 3, Course: "Operating Systems", Year: 2021},
		{SemesterID: 3, Course: "Data Structures", Year: 2023},
		{SemesterID: 3, Course: "Algorithms", Year: 2023},
	}
	for _, p := range papers {
		_, err := service.Create(ctx, admin, p, pdfUpload("p.pdf", pdfBytes(256, 'p')))
		require.NoError(t, err)
	}

	all, err := service.List(ctx, models.ContentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Algorithms", "Data Structures", "Operating Systems"},
		[]string{all[0].Course, all[1].Course, all[2].Course})

	byYear, err := service.List(ctx, models.ContentFilter{Search: "2021"})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "Operating Systems", byYear[0].Course)
}

func TestQuestionPaperService_UpdateAndDelete(t *testing.T) {
	service, store := newPaperService(t)
	ctx := context.Background()
	input := dto.QuestionPaperInput{SemesterID: 2, Course: "Physics", Year: 2020}

	qp, err := service.Create(ctx, admin, input, pdfUpload("a.pdf", pdfBytes(512, 'a')))
	require.NoError(t, err)
	oldPath := qp.FilePath

	input.Year = 2021
	updated, err := service.Update(ctx, admin, qp.ID, input, pdfUpload("b.pdf", pdfBytes(512, 'b')))
	require.NoError(t, err)
	assert.Equal(t, 2021, updated.Year)
	assert.NotEqual(t, oldPath, updated.FilePath)
	assert.Equal(t, []string{updated.FilePath}, storedFiles(t, store))

	require.NoError(t, service.Delete(ctx, admin, qp.ID))
	assert.Empty(t, storedFiles(t, store))
	assert.ErrorIs(t, service.Delete(ctx, admin, qp.ID), apperrors.ErrResourceNotFound)
}
