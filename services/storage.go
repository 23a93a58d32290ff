package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	MaxUploadSize     int64 = 10 << 20
	defaultUploadDir        = "uploads"
	LocalUploadPrefix       = "/uploads/"
)

// AllowedUploadTypes are the media types accepted by Upload.
var AllowedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"video/mp4",
	"video/webm",
	"video/ogg",
}

// FileStore persists an uploaded object under name and returns the URL it is served from.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// UploadResult is returned to clients after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type UploadService struct {
	store   FileStore
	maxSize int64
}

func NewUploadService(store FileStore) *UploadService {
	return &UploadService{store: store, maxSize: MaxUploadSize}
}

func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// LocalDir is the directory uploads are written to, or "" when they are not stored locally.
func (s *UploadService) LocalDir() string {
	if local, ok := s.store.(*LocalStore); ok {
		return local.Dir()
	}
	return ""
}

// Upload validates size and content type, then stores the file under a random name
// that keeps the original extension.
func (s *UploadService) Upload(ctx context.Context, filename, declaredType string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, errs.NewBadRequestError("Please select a file to upload")
	}
	if int64(len(data)) > s.maxSize {
		return nil, errs.NewMaxBodySizeExceededError(s.maxSize)
	}

	detected := mimetype.Detect(data)
	contentType, ok := resolveContentType(detected, declaredType)
	if !ok {
		return nil, errs.NewUnsupportedMediaTypeError(detected.String(), AllowedUploadTypes)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		ext = detected.Extension()
	}
	name := uuid.NewString() + ext

	url, err := s.store.Save(ctx, name, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("filename", name).Msg("Failed to store upload")
		return nil, errs.NewInternalError("Failed to upload file")
	}

	return &UploadResult{
		URL:      url,
		Type:     contentType,
		Filename: name,
		Size:     int64(len(data)),
	}, nil
}

// resolveContentType prefers the sniffed type and its parents. The declared type is only
// trusted when sniffing was inconclusive or found the same container under another family
// (audio/ogg for video/ogg).
func resolveContentType(detected *mimetype.MIME, declared string) (string, bool) {
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range AllowedUploadTypes {
			if m.Is(allowed) {
				return allowed, true
			}
		}
	}

	declared, _, err := mime.ParseMediaType(declared)
	if err != nil || !isAllowedType(declared) {
		return "", false
	}
	if detected.Is("application/octet-stream") || subtype(detected.String()) == subtype(declared) {
		return declared, true
	}
	return "", false
}

func isAllowedType(contentType string) bool {
	for _, allowed := range AllowedUploadTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

func subtype(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	_, sub, _ := strings.Cut(mediaType, "/")
	return sub
}

// LocalStore writes uploads to a directory served under LocalUploadPrefix.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = defaultUploadDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	target := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return LocalUploadPrefix + filepath.Base(name), nil
}

// ObjectPutter is the part of the S3 client used by S3Store.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes uploads to a bucket.
type S3Store struct {
	client        ObjectPutter
	bucket        string
	prefix        string
	region        string
	publicBaseURL string
}

func NewS3Store(client ObjectPutter, bucket, prefix, region, publicBaseURL string) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		region:        region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// NewFileStore returns an S3Store when S3_BUCKET is set and a LocalStore otherwise.
func NewFileStore(ctx context.Context, cfg map[string]string) (FileStore, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		local, err := NewLocalStore(config.GetString(cfg, "UPLOAD_DIR", defaultUploadDir))
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	log.Info().Str("bucket", bucket).Str("region", awsCfg.Region).Msg("Storing uploads in S3")
	return NewS3Store(
		s3.NewFromConfig(awsCfg),
		bucket,
		config.GetString(cfg, "S3_PREFIX", ""),
		awsCfg.Region,
		config.GetString(cfg, "UPLOAD_PUBLIC_BASE_URL", ""),
	), nil
}
