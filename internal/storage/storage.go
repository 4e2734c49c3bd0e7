package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
)

// Storage publishes static assets and returns the URL clients should load them from.
type Storage interface {
	SaveFile(filename string, body io.ReadSeeker) (string, error)
}

type LocalStorage struct {
	dir     string
	baseURL string
}

type SpacesStorage struct {
	client s3iface.S3API
	bucket string
	cdnURL string
}

// NewLocalStorage writes into dir; files are expected to be served under baseURL.
func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: cdnURL,
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// normalizeFilename strips everything but alphanumerics, dash and underscore
// from the base name. Asset names are stable so re-publishing overwrites.
func normalizeFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	if base == "" {
		base = "file"
	}
	return base + ext
}

func (ls *LocalStorage) SaveFile(filename string, body io.ReadSeeker) (string, error) {
	name := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", name).Msg("asset name normalized")

	if err := os.MkdirAll(ls.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(ls.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return ls.baseURL + "/" + name, nil
}

func (ss *SpacesStorage) SaveFile(filename string, body io.ReadSeeker) (string, error) {
	name := normalizeFilename(filename)
	key := "assets/" + name

	_, err := ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(getContentType(name)),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload asset to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), key), nil
}

func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
