package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
)

// MaxUploadSize is the largest accepted image upload.
const MaxUploadSize = 5 << 20

// MediaStore keeps uploaded images and hands back their public URL.
type MediaStore interface {
	Save(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, url string) error
}

// ValidateImage rejects files over MaxUploadSize and anything whose content
// does not sniff as an image.
func ValidateImage(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return apperror.Validation("File too large, maximum size is 5MB")
	}
	f, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("failed to detect upload type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return apperror.Validation("Only image files are allowed!")
	}
	return nil
}

func objectName(folder, filename string) string {
	return fmt.Sprintf("%s-%d%s", folder, time.Now().UnixNano(), strings.ToLower(filepath.Ext(filename)))
}

// S3Config points at an S3 compatible bucket (Supabase storage in production).
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// S3MediaStore stores uploads as public-read objects.
type S3MediaStore struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

func NewS3MediaStore(cfg S3Config) (*S3MediaStore, error) {
	if cfg.Region == "" || cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing required S3 configuration")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Endpoint:         aws.String(cfg.Endpoint),
		DisableSSL:       aws.Bool(false),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return newS3MediaStore(s3.New(sess), cfg.Bucket, cfg.PublicURL), nil
}

func newS3MediaStore(client s3iface.S3API, bucket, publicURL string) *S3MediaStore {
	return &S3MediaStore{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

func (s *S3MediaStore) urlPrefix() string {
	return fmt.Sprintf("%s/object/public/%s/", s.publicURL, s.bucket)
}

func (s *S3MediaStore) Save(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	body, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	key := path.Join(folder, objectName(folder, file.Filename))
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(mimetype.Detect(body).String()),
	})
	if err != nil {
		log.Printf("[S3MediaStore.Save] upload error: %v", err)
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	url := s.urlPrefix() + key
	log.Printf("[S3MediaStore.Save] stored %s", url)
	return url, nil
}

// Remove deletes the object behind url. URLs outside the bucket are ignored.
func (s *S3MediaStore) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.urlPrefix())
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

// LocalMediaStore writes uploads below dir and serves them under /uploads.
type LocalMediaStore struct {
	dir    string
	prefix string
}

const localMediaPrefix = "/uploads/"

func NewLocalMediaStore(dir string) *LocalMediaStore {
	return &LocalMediaStore{dir: dir, prefix: localMediaPrefix}
}

func (s *LocalMediaStore) Dir() string { return s.dir }

func (s *LocalMediaStore) Save(_ context.Context, folder string, file *multipart.FileHeader) (string, error) {
	target := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := objectName(folder, file.Filename)
	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return s.prefix + folder + "/" + name, nil
}

// Remove deletes the file behind url. Missing files and foreign URLs are
// ignored.
func (s *LocalMediaStore) Remove(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.prefix)
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", url, err)
	}
	return nil
}
