package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"workout-tracker/internal/config"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==== Fake byte store ====

type fakeFileStorage struct {
	objects     map[string][]byte
	uploaded    []string
	deleted     []string
	uploadErr   error
	downloadErr error
	deleteErr   error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: make(map[string][]byte)}
}

func (f *fakeFileStorage) Upload(_ context.Context, objectKey, _ string, body io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[objectKey] = data
	f.uploaded = append(f.uploaded, objectKey)
	return nil
}

func (f *fakeFileStorage) Download(_ context.Context, objectKey string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://store.example/" + objectKey, nil
}

// ==== Tests ====

func TestAttachmentHandlerRejectsDisallowedExtensions(t *testing.T) {
	handler := NewAttachmentHandler(config.StorageModeEmbedded, nil)
	ownerID := primitive.NewObjectID()

	badNames := []string{
		"malware.exe",
		"notes.txt",
		"archive.tar.gz",
		"certificate",
		"certificate.",
		"certificate.pdf.exe",
	}
	for _, name := range badNames {
		file := &IncomingFile{
			Data:     []byte("payload"),
			FileName: name,
			// Declared MIME type never overrides the filename check.
			ContentType: "application/pdf",
			Size:        7,
		}
		_, err := handler.Process(context.Background(), ownerID, file)
		require.ErrorIs(t, err, ErrInvalidAttachmentFormat, "expected rejection for %q", name)
	}
}

func TestAttachmentHandlerRejectsEmptyFiles(t *testing.T) {
	ownerID := primitive.NewObjectID()
	empty := &IncomingFile{FileName: "proof.pdf", ContentType: "application/pdf"}

	embedded := NewAttachmentHandler(config.StorageModeEmbedded, nil)
	_, err := embedded.Process(context.Background(), ownerID, empty)
	require.ErrorIs(t, err, ErrEmptyAttachment)

	store := newFakeFileStorage()
	referenced := NewAttachmentHandler(config.StorageModeReferenced, store)
	_, err = referenced.Process(context.Background(), ownerID, empty)
	require.ErrorIs(t, err, ErrEmptyAttachment)
	require.Empty(t, store.uploaded)
}

func TestAttachmentHandlerAcceptsAllowedExtensionsCaseInsensitive(t *testing.T) {
	handler := NewAttachmentHandler(config.StorageModeEmbedded, nil)
	ownerID := primitive.NewObjectID()

	for _, name := range []string{"run.pdf", "run.PDF", "run.Jpg", "run.JPEG", "run.png", "run.PnG"} {
		file := &IncomingFile{Data: []byte("payload"), FileName: name, ContentType: "image/png", Size: 7}
		cert, err := handler.Process(context.Background(), ownerID, file)
		require.NoError(t, err, "expected %q to be accepted", name)
		require.NotNil(t, cert)
	}
}

func TestAttachmentHandlerEmbeddedMode(t *testing.T) {
	handler := NewAttachmentHandler(config.StorageModeEmbedded, nil)

	file := &IncomingFile{
		Data:        []byte("%PDF-1.4 fake"),
		FileName:    "marathon.pdf",
		ContentType: "application/pdf",
		Size:        13,
	}
	cert, err := handler.Process(context.Background(), primitive.NewObjectID(), file)
	require.NoError(t, err)

	require.True(t, cert.Embedded())
	require.False(t, cert.Referenced())
	require.Equal(t, file.Data, cert.Data)
	require.Equal(t, "application/pdf", cert.ContentType)
	require.Equal(t, "marathon.pdf", cert.FileName)
	require.Equal(t, int64(13), cert.Size)
}

func TestAttachmentHandlerReferencedMode(t *testing.T) {
	store := newFakeFileStorage()
	handler := NewAttachmentHandler(config.StorageModeReferenced, store)
	ownerID := primitive.NewObjectID()

	file := &IncomingFile{
		Data:        []byte("fake image bytes"),
		FileName:    "Result.JPG",
		ContentType: "image/jpeg",
		Size:        16,
	}
	cert, err := handler.Process(context.Background(), ownerID, file)
	require.NoError(t, err)

	require.True(t, cert.Referenced())
	require.False(t, cert.Embedded())
	require.Empty(t, cert.Data)
	require.True(t, strings.HasPrefix(cert.StoragePath, "certificates/"+ownerID.Hex()+"/"))
	require.True(t, strings.HasSuffix(cert.StoragePath, ".jpg"))

	// Bytes were written before Process returned.
	require.Len(t, store.uploaded, 1)
	require.True(t, bytes.Equal(file.Data, store.objects[cert.StoragePath]))
}

func TestAttachmentHandlerReferencedUploadFailure(t *testing.T) {
	store := newFakeFileStorage()
	store.uploadErr = errors.New("connection refused")
	handler := NewAttachmentHandler(config.StorageModeReferenced, store)

	file := &IncomingFile{Data: []byte("x"), FileName: "a.png", ContentType: "image/png", Size: 1}
	_, err := handler.Process(context.Background(), primitive.NewObjectID(), file)
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAttachmentHandlerRelease(t *testing.T) {
	store := newFakeFileStorage()
	handler := NewAttachmentHandler(config.StorageModeReferenced, store)
	ownerID := primitive.NewObjectID()

	file := &IncomingFile{Data: []byte("x"), FileName: "a.png", ContentType: "image/png", Size: 1}
	cert, err := handler.Process(context.Background(), ownerID, file)
	require.NoError(t, err)

	require.NoError(t, handler.Release(context.Background(), cert))
	require.Equal(t, []string{cert.StoragePath}, store.deleted)

	// Releasing a nil or embedded certificate is a no-op.
	require.NoError(t, handler.Release(context.Background(), nil))
	embedded := &IncomingFile{Data: []byte("x"), FileName: "b.pdf", ContentType: "application/pdf", Size: 1}
	embCert, err := NewAttachmentHandler(config.StorageModeEmbedded, nil).Process(context.Background(), ownerID, embedded)
	require.NoError(t, err)
	require.NoError(t, handler.Release(context.Background(), embCert))
	require.Len(t, store.deleted, 1)
}

func TestAttachmentHandlerFetch(t *testing.T) {
	store := newFakeFileStorage()
	referenced := NewAttachmentHandler(config.StorageModeReferenced, store)
	ownerID := primitive.NewObjectID()

	file := &IncomingFile{Data: []byte("referenced bytes"), FileName: "a.pdf", ContentType: "application/pdf", Size: 16}
	cert, err := referenced.Process(context.Background(), ownerID, file)
	require.NoError(t, err)

	data, err := referenced.Fetch(context.Background(), cert)
	require.NoError(t, err)
	require.Equal(t, file.Data, data)

	embedded := NewAttachmentHandler(config.StorageModeEmbedded, nil)
	embFile := &IncomingFile{Data: []byte("embedded bytes"), FileName: "b.pdf", ContentType: "application/pdf", Size: 14}
	embCert, err := embedded.Process(context.Background(), ownerID, embFile)
	require.NoError(t, err)

	data, err = embedded.Fetch(context.Background(), embCert)
	require.NoError(t, err)
	require.Equal(t, embFile.Data, data)

	store.downloadErr = errors.New("timeout")
	_, err = referenced.Fetch(context.Background(), cert)
	require.ErrorIs(t, err, ErrStorageUnavailable)
}
