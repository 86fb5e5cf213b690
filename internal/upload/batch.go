package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

// File is an accepted upload with its preview.
type File struct {
	ID          string
	Name        string
	ContentType string
	Size        int
	Preview     string // data URL
	data        []byte
}

// Rejection describes a file that was not accepted.
type Rejection struct {
	Name    string
	Message string
}

// Notice is the text shown to the user for a rejected file.
func (r Rejection) Notice() string {
	return r.Name + ": " + r.Message
}

// Batch is a set of selected files: one preview per accepted file and one
// rejection per invalid file. Invalid files never block valid ones.
type Batch struct {
	ID          string
	Files       []File
	Rejections  []Rejection
	CreatedAt   time.Time
	previewSize int
}

// NewBatch creates an empty batch with thumbnails limited to previewSize pixels.
func NewBatch(previewSize int) *Batch {
	return &Batch{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		previewSize: previewSize,
	}
}

// Add validates a file and either adds a preview or records a rejection.
// It reports whether the file was accepted.
func (b *Batch) Add(name, declaredType string, data []byte) bool {
	contentType := DetectContentType(declaredType, data)
	if contentType == "" {
		b.Rejections = append(b.Rejections, Rejection{Name: name, Message: RejectionMessage})
		return false
	}

	b.Files = append(b.Files, File{
		ID:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Size:        len(data),
		Preview:     PreviewURL(data, contentType, b.previewSize),
		data:        data,
	})
	return true
}

// AddFileHeader reads a multipart file and adds it to the batch.
func (b *Batch) AddFileHeader(fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("could not open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", fh.Filename, err)
	}
	b.Add(fh.Filename, fh.Header.Get("Content-Type"), data)
	return nil
}

// AddPath reads a file from disk and adds it to the batch.
// The type is always sniffed from the content.
func (b *Batch) AddPath(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	b.Add(filepath.Base(path), "", data)
	return nil
}

// Remove drops one accepted file. It reports whether the file existed.
func (b *Batch) Remove(fileID string) bool {
	idx := slices.IndexFunc(b.Files, func(f File) bool { return f.ID == fileID })
	if idx < 0 {
		return false
	}
	b.Files = slices.Delete(b.Files, idx, idx+1)
	return true
}

// clone copies the batch. File data is shared; it is never written after Add.
func (b *Batch) clone() *Batch {
	c := *b
	c.Files = slices.Clone(b.Files)
	c.Rejections = slices.Clone(b.Rejections)
	return &c
}

// SubmitEnabled reports whether there is at least one preview to submit.
func (b *Batch) SubmitEnabled() bool {
	return len(b.Files) > 0
}

// Notices returns the rejection texts of the batch.
func (b *Batch) Notices() []string {
	notices := make([]string, 0, len(b.Rejections))
	for _, r := range b.Rejections {
		notices = append(notices, r.Notice())
	}
	return notices
}

// UploadFiles returns the accepted files ready to be sent to the backend.
func (b *Batch) UploadFiles() []facerec.UploadFile {
	files := make([]facerec.UploadFile, 0, len(b.Files))
	for _, f := range b.Files {
		files = append(files, facerec.UploadFile{Name: f.Name, ContentType: f.ContentType, Data: f.data})
	}
	return files
}

// Size returns the total size of the accepted files in bytes.
func (b *Batch) Size() int64 {
	var total int64
	for _, f := range b.Files {
		total += int64(f.Size)
	}
	return total
}
