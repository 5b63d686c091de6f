package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrEmptyBody = errors.New("media: empty body")

// Config del bucket de imágenes. Endpoint + PathStyle para MinIO/localstack.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string

	// PublicBaseURL (CDN) se antepone a la key; vacío => URL del bucket.
	PublicBaseURL string

	// Para tests.
	HTTPClient *http.Client
}

// Store implementa media.Store sobre S3.
type Store struct {
	client *s3.Client
	bucket string
	public string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO/localstack no aceptan el body aws-chunked con trailer de checksum.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})

	public, err := publicBase(cfg, region)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, bucket: cfg.Bucket, public: public}, nil
}

func publicBase(cfg Config, region string) (string, error) {
	switch {
	case cfg.PublicBaseURL != "":
		if _, err := url.ParseRequestURI(cfg.PublicBaseURL); err != nil {
			return "", fmt.Errorf("invalid public base url: %w", err)
		}
		return strings.TrimRight(cfg.PublicBaseURL, "/"), nil
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket, nil
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region), nil
	}
}

// Put sube el objeto y devuelve su URL pública.
func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	key = strings.TrimLeft(key, "/")
	// PutObject necesita un body seekable para firmar el payload.
	buf, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read media body: %w", err)
	}
	if len(buf) == 0 {
		return "", ErrEmptyBody
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.public + "/" + key, nil
}
