package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/reporting"
)

type mockPutter struct {
	mock.Mock
	bodies map[string][]byte
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	if m.bodies == nil {
		m.bodies = map[string][]byte{}
	}
	m.bodies[aws.ToString(params.Key)] = body
	args := m.Called(aws.ToString(params.Bucket), aws.ToString(params.Key), aws.ToString(params.ContentType))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func archivedReport() *schemas.Report {
	end := time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	return &schemas.Report{
		ID:          "r-7",
		Window:      schemas.NewTrailingWindow(end, 7*24*time.Hour),
		Threats:     schemas.ThreatIntelligence{GeographicThreats: []string{}},
		Status:      schemas.StatusCompliant,
		GeneratedAt: end,
	}
}

func TestArchive_UploadsJSONAndHTML(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", "reports", "weekly/2024/06/10/r-7.json", "application/json").Return(&s3.PutObjectOutput{}, nil).Once()
	putter.On("PutObject", "reports", "weekly/2024/06/10/r-7.html", "text/html; charset=utf-8").Return(&s3.PutObjectOutput{}, nil).Once()

	a := newS3Archiver(putter, "reports", "weekly", zap.NewNop())
	uri, err := a.Archive(context.Background(), archivedReport())
	require.NoError(t, err)

	assert.Equal(t, "s3://reports/weekly/2024/06/10/r-7.json", uri)
	putter.AssertExpectations(t)

	decoded, err := reporting.DecodeJSON(putter.bodies["weekly/2024/06/10/r-7.json"])
	require.NoError(t, err)
	assert.Equal(t, "r-7", decoded.ID)
	assert.Contains(t, string(putter.bodies["weekly/2024/06/10/r-7.html"]), "r-7")
}

func TestArchive_UploadFailureStopsEarly(t *testing.T) {
	putter := new(mockPutter)
	denied := errors.New("AccessDenied")
	putter.On("PutObject", "reports", mock.Anything, mock.Anything).Return(nil, denied).Once()

	_, err := newS3Archiver(putter, "reports", "", zap.NewNop()).Archive(context.Background(), archivedReport())
	assert.ErrorIs(t, err, denied)
	putter.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestKey_EmptyPrefix(t *testing.T) {
	a := newS3Archiver(new(mockPutter), "b", "", zap.NewNop())
	assert.Equal(t, "2024/06/10/r-7.html", a.Key(archivedReport(), reporting.FormatHTML))
}
