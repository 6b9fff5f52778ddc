// Package attachment turns uploaded files into base64 attachments that can be
// stored with a message and forwarded to the model.
package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"gwi.com/globallaunch-advisor/internal/logger"
	"gwi.com/globallaunch-advisor/internal/store"
)

// DefaultMaxSize is the per-file ceiling, measured before encoding.
const DefaultMaxSize int64 = 10 * 1024 * 1024

const octetStream = "application/octet-stream"

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// batchWorkers bounds how many files of one upload are encoded at once.
const batchWorkers = 4

// acceptedTypes holds every non-image type that may be attached: PDF and the
// document types known by extension.
var acceptedTypes = func() map[string]bool {
	m := map[string]bool{"application/pdf": true}
	for _, t := range extensionTypes {
		m[t] = true
	}
	return m
}()

// Supported reports whether files of the given MIME type may be attached.
func Supported(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || acceptedTypes[mimeType]
}

var extensionTypes = map[string]string{
	".md":   "text/markdown",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".ppt":  "application/vnd.ms-powerpoint",
}

// Source is one file offered for upload.
type Source interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}

// InferMIMEType picks the attachment type from the reported content type,
// falling back to the file extension when none was reported.
func InferMIMEType(name, reported string) string {
	ext := strings.ToLower(filepath.Ext(name))
	reported = strings.TrimSpace(reported)
	if base, _, ok := strings.Cut(reported, ";"); ok {
		reported = strings.TrimSpace(base)
	}

	switch {
	case reported == "" || reported == octetStream:
		if t, ok := extensionTypes[ext]; ok {
			return t
		}
		return octetStream
	case ext == ".md" && reported == "text/plain":
		return "text/markdown"
	default:
		return reported
	}
}

type Encoder struct {
	MaxSize int64
}

func NewEncoder(maxSize int64) *Encoder {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Encoder{MaxSize: maxSize}
}

// Encode reads src fully and returns it base64-encoded.
func (e *Encoder) Encode(src Source) (store.Attachment, error) {
	if src.Size() > e.MaxSize {
		return store.Attachment{}, fmt.Errorf("%s: %w", src.Name(), ErrFileTooLarge)
	}
	mimeType := InferMIMEType(src.Name(), src.ContentType())
	if !Supported(mimeType) {
		return store.Attachment{}, fmt.Errorf("%s (%s): %w", src.Name(), mimeType, ErrUnsupportedType)
	}

	rc, err := src.Open()
	if err != nil {
		return store.Attachment{}, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	// Reported sizes are advisory; never read past the ceiling.
	data, err := io.ReadAll(io.LimitReader(rc, e.MaxSize+1))
	if err != nil {
		return store.Attachment{}, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if int64(len(data)) > e.MaxSize {
		return store.Attachment{}, fmt.Errorf("%s: %w", src.Name(), ErrFileTooLarge)
	}

	return store.Attachment{
		Name:     src.Name(),
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Batch is the outcome of encoding several files at once.
type Batch struct {
	Attachments []store.Attachment
	Warnings    []string
}

// EncodeBatch encodes every source concurrently. Rejected files are dropped
// with a warning; the rest are returned in input order. Files not yet started
// when ctx is done are rejected.
func (e *Encoder) EncodeBatch(ctx context.Context, sources []Source) Batch {
	results := make([]*store.Attachment, len(sources))
	failures := make([]error, len(sources))

	var g errgroup.Group
	g.SetLimit(batchWorkers)
	for i, src := range sources {
		i, src := i, src // per-iteration copies; go.mod targets go 1.21
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			att, err := e.Encode(src)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = &att
			return nil
		})
	}
	_ = g.Wait()

	var batch Batch
	for i, att := range results {
		if att != nil {
			batch.Attachments = append(batch.Attachments, *att)
			continue
		}
		batch.Warnings = append(batch.Warnings, e.warning(sources[i], failures[i]))
		logger.Warn("Attachment rejected", "file", sources[i].Name(), "error", failures[i])
	}
	return batch
}

func (e *Encoder) warning(src Source, err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File %s is too large (max %dMB)", src.Name(), e.MaxSize/(1024*1024))
	case errors.Is(err, ErrUnsupportedType):
		return fmt.Sprintf("File %s is not supported (use images, PDF, text, Markdown, Word, PowerPoint or CSV)", src.Name())
	}
	return fmt.Sprintf("File %s could not be read, please try again", src.Name())
}

type headerSource struct {
	fh *multipart.FileHeader
}

// FromFileHeader adapts a multipart upload.
func FromFileHeader(fh *multipart.FileHeader) Source {
	return headerSource{fh: fh}
}

func (h headerSource) Name() string        { return h.fh.Filename }
func (h headerSource) Size() int64         { return h.fh.Size }
func (h headerSource) ContentType() string { return h.fh.Header.Get("Content-Type") }

func (h headerSource) Open() (io.ReadCloser, error) {
	return h.fh.Open()
}

type byteSource struct {
	name        string
	contentType string
	data        []byte
}

// FromBytes adapts an in-memory file.
func FromBytes(name, contentType string, data []byte) Source {
	return byteSource{name: name, contentType: contentType, data: data}
}

func (b byteSource) Name() string        { return b.name }
func (b byteSource) Size() int64         { return int64(len(b.data)) }
func (b byteSource) ContentType() string { return b.contentType }

func (b byteSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}
