package media

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3 struct {
	mock.Mock
}

func (m *MockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

type MockRekognition struct {
	mock.Mock
}

func (m *MockRekognition) DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rekognition.DetectLabelsOutput), args.Error(1)
}

func TestS3Archive_Store(t *testing.T) {
	client := new(MockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Bucket == "photos" && *in.ContentType == "image/jpeg" && string(body) == "jpeg-bytes"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	archive := &S3Archive{client: client, bucket: "photos", baseURL: "https://cdn.example.com"}
	url, err := archive.Store(context.Background(), "u1", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Regexp(t, `^https://cdn\.example\.com/meal-photos/u1/[0-9a-f-]{36}\.jpg$`, url)
	client.AssertExpectations(t)
}

func TestS3Archive_StoreFailure(t *testing.T) {
	client := new(MockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	archive := &S3Archive{client: client, bucket: "photos"}
	_, err := archive.Store(context.Background(), "u1", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "access denied")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", extension("image/jpeg"))
	assert.Equal(t, ".png", extension("image/png"))
	assert.Equal(t, ".heic", extension("image/heic"))
}

func label(name string, parents ...string) rektypes.Label {
	l := rektypes.Label{Name: aws.String(name)}
	for _, p := range parents {
		l.Parents = append(l.Parents, rektypes.Parent{Name: aws.String(p)})
	}
	return l
}

func TestRekognitionGuard(t *testing.T) {
	tests := []struct {
		name    string
		labels  []rektypes.Label
		notFood bool
	}{
		{name: "food label", labels: []rektypes.Label{label("Plate"), label("Food")}},
		{name: "food parent", labels: []rektypes.Label{label("Pizza", "Food")}},
		{name: "no food", labels: []rektypes.Label{label("Car"), label("Vehicle")}, notFood: true},
		{name: "nothing detected", notFood: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockRekognition)
			client.On("DetectLabels", mock.Anything, mock.Anything).
				Return(&rekognition.DetectLabelsOutput{Labels: tt.labels}, nil)
			guard := &RekognitionGuard{client: client, minConfidence: 75}

			_, err := guard.Check(context.Background(), []byte("img"))
			if tt.notFood {
				assert.ErrorIs(t, err, ErrNotFood)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
