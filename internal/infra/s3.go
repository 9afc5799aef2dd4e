package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Vovarama1992/pdf_tools/internal/config"
	"github.com/Vovarama1992/pdf_tools/internal/uploads"
)

// S3Store: uploads.Store поверх S3-совместимого бакета.
// PUT в S3 атомарен на объект, поэтому отдельных блокировок не нужно.
type S3Store struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, cfg config.S3, prefix string) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (s *S3Store) key(name string) string {
	return s.prefix + name
}

// Save буферизует файл, чтобы отдать в PutObject точный размер
func (s *S3Store) Save(ctx context.Context, name string, r io.Reader) error {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		// "поддиректории" без Recursive приходят с завершающим слешем
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		names = append(names, path.Base(obj.Key))
	}
	return names, nil
}

func (s *S3Store) Open(ctx context.Context, name string) (*uploads.Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapS3Err(err)
	}

	// GetObject ленивый, ошибка отсутствия приходит только на Stat/Read
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, mapS3Err(err)
	}

	return &uploads.Object{Body: obj, Size: st.Size}, nil
}

func mapS3Err(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return uploads.ErrNotFound
	}
	return err
}
