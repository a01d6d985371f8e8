package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"hooparchives_server/access"
)

// ErrObjectNotFound is returned when a requested object-store key does not
// exist. For the worker this is a non-retriable condition.
var ErrObjectNotFound = errors.New("object not found")

// rawKeyPrefix is where producers put raw uploads; derived clips land under
// the deterministic key convention in models.DerivedClipKey.
const rawKeyPrefix = "raw/"

// S3Service is the object-store boundary. Every operation maps its key onto
// the raw-uploads or derived-clips prefix and checks the caller's grant for
// that prefix before touching S3.
type S3Service struct {
	Client    *s3.Client
	Bucket    string
	Policy    *access.Policy
	Principal access.Principal

	downloader *manager.Downloader
	uploader   *manager.Uploader
}

// NewS3Service wires an S3 client into a policy-checked object store for
// one principal.
func NewS3Service(client *s3.Client, bucket string, policy *access.Policy, principal access.Principal) *S3Service {
	return &S3Service{
		Client:     client,
		Bucket:     bucket,
		Policy:     policy,
		Principal:  principal,
		downloader: manager.NewDownloader(client),
		uploader:   manager.NewUploader(client),
	}
}

// Head returns the size of an object, or ErrObjectNotFound.
func (ss *S3Service) Head(ctx context.Context, key string) (int64, error) {
	if err := ss.Policy.Authorize(ss.Principal, resourceForKey(key), access.OpRead); err != nil {
		return 0, err
	}

	output, err := ss.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(ss.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return 0, fmt.Errorf("failed to head object '%s': %w", key, err)
	}
	return aws.ToInt64(output.ContentLength), nil
}

// Download streams an object into a local file and returns the byte count.
func (ss *S3Service) Download(ctx context.Context, key, path string) (int64, error) {
	if err := ss.Policy.Authorize(ss.Principal, resourceForKey(key), access.OpRead); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer file.Close()

	n, err := ss.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(ss.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return 0, fmt.Errorf("failed to download object '%s': %w", key, err)
	}
	return n, nil
}

// Upload streams a local file to the given key, overwriting any existing
// object.
func (ss *S3Service) Upload(ctx context.Context, path, key string) error {
	if err := ss.Policy.Authorize(ss.Principal, resourceForKey(key), access.OpWrite); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file for upload: %w", err)
	}
	defer file.Close()

	_, err = ss.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ss.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object '%s': %w", key, err)
	}
	return nil
}

// PresignUpload generates a presigned URL for a producer's raw upload and
// returns the key the upload will land under.
func (ss *S3Service) PresignUpload(ctx context.Context, fileName, fileType string) (string, string, error) {
	key := rawKeyPrefix + time.Now().Format("20060102150405") + "-" + fileName
	if err := ss.Policy.Authorize(ss.Principal, resourceForKey(key), access.OpWrite); err != nil {
		return "", "", err
	}

	params := &s3.PutObjectInput{
		Bucket:      aws.String(ss.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(ss.Client)
	presignedURL, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presignedURL.URL, key, nil
}

// PresignRead generates a presigned URL for reading an object.
func (ss *S3Service) PresignRead(ctx context.Context, key string) (string, error) {
	if err := ss.Policy.Authorize(ss.Principal, resourceForKey(key), access.OpRead); err != nil {
		return "", err
	}

	params := &s3.GetObjectInput{
		Bucket: aws.String(ss.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(ss.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presignedURL.URL, nil
}

func resourceForKey(key string) access.Resource {
	if strings.HasPrefix(key, "clips/") {
		return access.ResourceDerivedClips
	}
	return access.ResourceRawUploads
}

func isNotFound(err error) bool {
	var notFound *s3types.NotFound
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
