package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/whatshouldieat/backend/config"
)

// ObjectUploader is the subset of the S3 client used for archiving
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageArchiver uploads generated images to S3 and hands back their public
// URL instead of the inline payload. Upload failures fall back to the inline
// payload.
type S3ImageArchiver struct {
	next     ImageSynthesizer
	uploader ObjectUploader
	bucket   string
	urlFor   func(key string) string
}

// NewS3ImageArchiver wraps next with S3 archiving
func NewS3ImageArchiver(next ImageSynthesizer, s3Config *config.S3Config) *S3ImageArchiver {
	return &S3ImageArchiver{
		next:     next,
		uploader: s3Config.Client,
		bucket:   s3Config.BucketName,
		urlFor:   s3Config.PublicURL,
	}
}

// GenerateImage generates through the wrapped synthesizer and archives the result
func (a *S3ImageArchiver) GenerateImage(ctx context.Context, keywords string) (string, error) {
	payload, err := a.next.GenerateImage(ctx, keywords)
	if err != nil {
		return "", err
	}

	publicURL, err := a.upload(ctx, payload)
	if err != nil {
		log.Printf("[ImageService] Failed to upload to S3, returning inline image: %v", err)
		return payload, nil
	}
	return publicURL, nil
}

func (a *S3ImageArchiver) upload(ctx context.Context, payload string) (string, error) {
	mimeType, data, err := decodeDataURI(payload)
	if err != nil {
		return "", err
	}

	ext := "png"
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" {
		ext = sub
	}
	key := fmt.Sprintf("meal-images/%s.%s", uuid.New().String(), ext)

	_, err = a.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := a.urlFor(key)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

// decodeDataURI splits a base64 data URI into its MIME type and bytes
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, b64, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return strings.TrimSuffix(meta, ";base64"), data, nil
}
