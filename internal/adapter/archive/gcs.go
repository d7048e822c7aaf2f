// Package archive keeps copies of receipt images in Google Cloud Storage.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"cloud.google.com/go/storage"

	"github.com/iho/debtledger/internal/usecase"
)

// DefaultUploadTimeout bounds one upload.
const DefaultUploadTimeout = 30 * time.Second

type bucket interface {
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := b.handle.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

// GCSArchive implements usecase.ReceiptArchive.
type GCSArchive struct {
	bucket  bucket
	name    string
	idGen   usecase.IDGenerator
	timeout time.Duration
}

// NewGCSArchive creates a new GCSArchive writing to bucketName.
func NewGCSArchive(client *storage.Client, bucketName string, idGen usecase.IDGenerator) *GCSArchive {
	return newArchive(gcsBucket{handle: client.Bucket(bucketName)}, bucketName, idGen)
}

func newArchive(b bucket, name string, idGen usecase.IDGenerator) *GCSArchive {
	return &GCSArchive{
		bucket:  b,
		name:    name,
		idGen:   idGen,
		timeout: DefaultUploadTimeout,
	}
}

// Store uploads image to receipts/<account>/<id>.<ext> and returns its gs:// URI.
func (a *GCSArchive) Store(ctx context.Context, accountID string, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	contentType := http.DetectContentType(image)
	object := path.Join("receipts", accountID, a.idGen.Generate()+extension(contentType))

	w := a.bucket.NewWriter(ctx, object, contentType)

	if _, err := w.Write(image); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", object, err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %s: %w", object, err)
	}

	return "gs://" + a.name + "/" + object, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
