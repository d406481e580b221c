// Package archive keeps raw model responses in object storage so rejected
// generations can be inspected later. Writes are best effort.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type Archive interface {
	SaveResponse(ctx context.Context, lessonID uuid.UUID, raw string) error
}

// ObjectName is the key a lesson's raw response is stored under.
func ObjectName(lessonID uuid.UUID) string {
	return fmt.Sprintf("lessons/%s/response.txt", lessonID)
}

type minioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinIO(client *minio.Client, bucket string) Archive {
	if client == nil || bucket == "" {
		return Noop()
	}
	return &minioArchive{client: client, bucket: bucket}
}

func (a *minioArchive) SaveResponse(ctx context.Context, lessonID uuid.UUID, raw string) error {
	body := []byte(raw)
	_, err := a.client.PutObject(ctx, a.bucket, ObjectName(lessonID), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	return err
}

type noop struct{}

func Noop() Archive { return noop{} }

func (noop) SaveResponse(context.Context, uuid.UUID, string) error { return nil }
