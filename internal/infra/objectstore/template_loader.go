package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	UseSSL    bool
}

// TemplateLoader reads the question bank from a single JSON object in a bucket.
// The object has the same shape as the embedded bank.
type TemplateLoader struct {
	client *minio.Client
	bucket string
	object string
}

func NewTemplateLoader(opts Options) (*TemplateLoader, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &TemplateLoader{client: client, bucket: opts.Bucket, object: opts.Object}, nil
}

func (l *TemplateLoader) LoadTemplates(ctx context.Context) (map[string][]domain.QuestionTemplate, error) {
	obj, err := l.client.GetObject(ctx, l.bucket, l.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", l.bucket, l.object, err)
	}
	defer obj.Close()

	bank, err := decodeBank(obj)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", l.bucket, l.object, err)
	}
	return bank, nil
}

// Publish uploads bank as the loader's object, creating the bucket if needed.
func (l *TemplateLoader) Publish(ctx context.Context, bank map[string][]domain.QuestionTemplate) error {
	exists, err := l.client.BucketExists(ctx, l.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", l.bucket, err)
	}
	if !exists {
		if err := l.client.MakeBucket(ctx, l.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", l.bucket, err)
		}
	}

	raw, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = l.client.PutObject(ctx, l.bucket, l.object, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", l.bucket, l.object, err)
	}
	return nil
}

func decodeBank(r io.Reader) (map[string][]domain.QuestionTemplate, error) {
	var bank map[string][]domain.QuestionTemplate
	if err := json.NewDecoder(r).Decode(&bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return bank, nil
}
