package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveReportWithoutStorage(t *testing.T) {
	SetS3Service(nil)

	archived, err := ArchiveReport(context.Background(), "x.pdf", "application/pdf", []byte("%PDF"), time.Now())
	assert.NoError(t, err)
	assert.Nil(t, archived)
}

func TestArchiveReport(t *testing.T) {
	mock := NewMockS3Service()
	mock.SetAsMockForTesting()
	defer SetS3Service(nil)

	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	archived, err := ArchiveReport(context.Background(), "relatorio.csv", "text/csv", []byte("a;b\n"), now)
	require.NoError(t, err)
	require.NotNil(t, archived)

	assert.Equal(t, "reports/2024/03/relatorio.csv", archived.Key)
	assert.Contains(t, archived.URL, "reports/2024/03/relatorio.csv")
	assert.True(t, mock.Exists(archived.Key))
	assert.Equal(t, "text/csv", mock.ContentType(archived.Key))
	assert.Equal(t, []byte("a;b\n"), mock.Objects()[archived.Key])
}

func TestArchiveReportUploadFailure(t *testing.T) {
	mock := NewMockS3Service()
	mock.FailWith = errors.New("bucket unavailable")
	mock.SetAsMockForTesting()
	defer SetS3Service(nil)

	archived, err := ArchiveReport(context.Background(), "relatorio.pdf", "application/pdf", []byte("%PDF"), time.Now())
	require.Error(t, err)
	assert.Nil(t, archived)
	assert.Contains(t, err.Error(), "bucket unavailable")
}
