package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"

	"workout-tracker/internal/config"
	"workout-tracker/internal/domain"
	"workout-tracker/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IncomingFile is the already-decoded product of a multipart upload:
// the raw bytes plus what the uploader declared about them.
type IncomingFile struct {
	Data        []byte
	FileName    string
	ContentType string
	Size        int64
}

// Extensions accepted for workout certificates. Checked against the
// original filename, case-insensitively, regardless of declared MIME type.
var allowedCertificateExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AttachmentHandler turns an incoming file into a storage-ready
// certificate value, or rejects it. The storage mode is fixed at
// construction: embedded copies the bytes into the workout document,
// referenced writes them to the byte store and keeps only the key.
type AttachmentHandler struct {
	mode        string
	fileStorage storage.FileStorage
}

// NewAttachmentHandler creates an attachment handler for the given mode.
// fileStorage may be nil in embedded mode.
func NewAttachmentHandler(mode string, fileStorage storage.FileStorage) *AttachmentHandler {
	if mode == config.StorageModeReferenced && fileStorage == nil {
		panic("referenced certificate mode requires a file storage")
	}
	return &AttachmentHandler{
		mode:        mode,
		fileStorage: fileStorage,
	}
}

// Validate checks the file's original filename against the extension
// allow-list and rejects empty files. A zero-byte certificate would
// store neither inline bytes nor a storage key, leaving a record that
// claims a certificate it cannot serve.
func (h *AttachmentHandler) Validate(file *IncomingFile) error {
	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !allowedCertificateExtensions[ext] {
		return ErrInvalidAttachmentFormat
	}
	if len(file.Data) == 0 {
		return ErrEmptyAttachment
	}
	return nil
}

// Process validates the file and converts it into a certificate. In
// referenced mode the bytes are written to the byte store before this
// returns, so a caller that fails to commit the owning record MUST call
// Release on the returned certificate to avoid orphaned objects.
func (h *AttachmentHandler) Process(ctx context.Context, ownerID primitive.ObjectID, file *IncomingFile) (*domain.Certificate, error) {
	if err := h.Validate(file); err != nil {
		return nil, err
	}

	cert := &domain.Certificate{
		ContentType: file.ContentType,
		FileName:    file.FileName,
		Size:        file.Size,
	}

	if h.mode == config.StorageModeEmbedded {
		cert.Data = file.Data
		return cert, nil
	}

	ext := strings.ToLower(filepath.Ext(file.FileName))
	objectKey := path.Join("certificates", ownerID.Hex(), uuid.NewString()+ext)

	if err := h.fileStorage.Upload(ctx, objectKey, file.ContentType, bytes.NewReader(file.Data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	cert.StoragePath = objectKey
	return cert, nil
}

// Release frees the externally stored bytes behind a certificate. A nil
// or embedded certificate is a no-op.
func (h *AttachmentHandler) Release(ctx context.Context, cert *domain.Certificate) error {
	if !cert.Referenced() {
		return nil
	}
	return h.fileStorage.DeleteObject(ctx, cert.StoragePath)
}

// ReleaseQuietly frees referenced bytes where only a log line is wanted
// on failure, e.g. when replacing a certificate after the new record
// state is already committed.
func (h *AttachmentHandler) ReleaseQuietly(ctx context.Context, cert *domain.Certificate) {
	if err := h.Release(ctx, cert); err != nil {
		log.Printf("WARN: Failed to release certificate object '%s': %v", cert.StoragePath, err)
	}
}

// Fetch returns the raw certificate bytes, reading from the byte store
// for referenced certificates.
func (h *AttachmentHandler) Fetch(ctx context.Context, cert *domain.Certificate) ([]byte, error) {
	if cert.Embedded() {
		return cert.Data, nil
	}
	if !cert.Referenced() {
		return nil, ErrCertificateNotFound
	}
	data, err := h.fileStorage.Download(ctx, cert.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return data, nil
}
