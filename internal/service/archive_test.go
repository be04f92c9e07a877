package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/whatshouldieat/backend/internal/mocks"
)

type mockUploader struct {
	mock.Mock
	body []byte
}

func (m *mockUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func newTestArchiver(next *mocks.MockImageSynthesizer, uploader *mockUploader) *S3ImageArchiver {
	return &S3ImageArchiver{
		next:     next,
		uploader: uploader,
		bucket:   "meal-images-test",
		urlFor:   func(key string) string { return "https://meal-images-test.s3.amazonaws.com/" + key },
	}
}

func TestS3ImageArchiver_UploadsAndReturnsPublicURL(t *testing.T) {
	next := new(mocks.MockImageSynthesizer)
	next.On("GenerateImage", mock.Anything, "duck rice").Return("data:image/jpeg;base64,aGVsbG8=", nil)

	uploader := new(mockUploader)
	uploader.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "meal-images-test" && *in.ContentType == "image/jpeg"
	})).Return(&s3.PutObjectOutput{}, nil)

	got, err := newTestArchiver(next, uploader).GenerateImage(context.Background(), "duck rice")
	require.NoError(t, err)
	assert.Regexp(t, `^https://meal-images-test\.s3\.amazonaws\.com/meal-images/[0-9a-f-]+\.jpeg$`, got)
	assert.Equal(t, []byte("hello"), uploader.body)
}

func TestS3ImageArchiver_FallsBackToInlinePayload(t *testing.T) {
	next := new(mocks.MockImageSynthesizer)
	next.On("GenerateImage", mock.Anything, "duck rice").Return("data:image/png;base64,aGVsbG8=", nil)

	uploader := new(mockUploader)
	uploader.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	got, err := newTestArchiver(next, uploader).GenerateImage(context.Background(), "duck rice")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", got)
}

func TestS3ImageArchiver_PropagatesGenerationFailure(t *testing.T) {
	next := new(mocks.MockImageSynthesizer)
	next.On("GenerateImage", mock.Anything, "duck rice").Return("", ErrNoImageData)

	uploader := new(mockUploader)
	_, err := newTestArchiver(next, uploader).GenerateImage(context.Background(), "duck rice")
	assert.ErrorIs(t, err, ErrNoImageData)
	uploader.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestDecodeDataURI(t *testing.T) {
	mime, data, err := decodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("hello"), data)

	_, _, err = decodeDataURI("https://example.com/a.png")
	assert.Error(t, err)
	_, _, err = decodeDataURI("data:text/plain,hello")
	assert.Error(t, err)
}
