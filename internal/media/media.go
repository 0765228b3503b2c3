package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrNotFood rejects a photo before it is sent for estimation.
var ErrNotFood = errors.New("image does not show food")

// LoadAWSConfig reads credentials the usual AWS way for the given region.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return cfg, nil
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive keeps a copy of every analysed meal photo.
type S3Archive struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

func NewS3Archive(cfg aws.Config, bucket, baseURL string) *S3Archive {
	return &S3Archive{client: s3.NewFromConfig(cfg), bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}

// Store uploads the photo under the user's prefix and returns its URL.
func (a *S3Archive) Store(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("meal-photos/%s/%s%s", userID, uuid.NewString(), extension(contentType))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	if a.baseURL == "" {
		return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s", a.baseURL, key), nil
}

type detectLabelsAPI interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, opts ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

var foodLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "fruit": true, "vegetable": true,
	"dessert": true, "bread": true, "snack": true, "produce": true, "lunch": true,
	"dinner": true, "breakfast": true, "beverage": true, "drink": true,
}

// RekognitionGuard refuses photos in which no food-like label is detected.
type RekognitionGuard struct {
	client        detectLabelsAPI
	minConfidence float32
}

func NewRekognitionGuard(cfg aws.Config) *RekognitionGuard {
	return &RekognitionGuard{client: rekognition.NewFromConfig(cfg), minConfidence: 75}
}

func isFood(l rektypes.Label) bool {
	if l.Name != nil && foodLabels[strings.ToLower(*l.Name)] {
		return true
	}
	for _, p := range l.Parents {
		if p.Name != nil && foodLabels[strings.ToLower(*p.Name)] {
			return true
		}
	}
	return false
}

// Check returns the detected labels, and ErrNotFood when none is food.
func (g *RekognitionGuard) Check(ctx context.Context, data []byte) ([]string, error) {
	out, err := g.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &rektypes.Image{Bytes: data},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(g.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("label detection failed: %w", err)
	}
	var labels []string
	food := false
	for _, l := range out.Labels {
		if l.Name != nil {
			labels = append(labels, *l.Name)
		}
		food = food || isFood(l)
	}
	if !food {
		return labels, fmt.Errorf("%w (labels: %s)", ErrNotFood, strings.Join(labels, ", "))
	}
	return labels, nil
}
