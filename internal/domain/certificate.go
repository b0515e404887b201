package domain

// Certificate stores a workout's supporting document. Exactly one of
// Data (embedded mode) or StoragePath (referenced mode) is populated;
// ContentType is always set. In referenced mode the actual bytes live
// in the external object store under StoragePath.
type Certificate struct {
	ContentType string `bson:"contentType" json:"contentType"`           // MIME type (e.g. "application/pdf")
	StoragePath string `bson:"storagePath,omitempty" json:"-"`           // Object key in the byte store - internal use
	Data        []byte `bson:"data,omitempty" json:"-"`                  // Raw bytes when stored embedded - never serialized to JSON
	FileName    string `bson:"fileName,omitempty" json:"fileName,omitempty"` // Original filename provided by the uploader
	Size        int64  `bson:"size,omitempty" json:"size,omitempty"`     // File size in bytes
}

// Embedded reports whether the certificate bytes are stored inside the
// workout document itself.
func (c *Certificate) Embedded() bool {
	return c != nil && len(c.Data) > 0
}

// Referenced reports whether the certificate bytes live in the external
// byte store.
func (c *Certificate) Referenced() bool {
	return c != nil && c.StoragePath != ""
}
