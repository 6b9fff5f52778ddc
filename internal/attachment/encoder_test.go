package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		reported string
		expected string
	}{
		{name: "markdown without type", file: "notes.md", reported: "", expected: "text/markdown"},
		{name: "markdown reported as plain text", file: "README.MD", reported: "text/plain", expected: "text/markdown"},
		{name: "plain text", file: "a.txt", reported: "", expected: "text/plain"},
		{name: "csv", file: "bom.csv", reported: "", expected: "text/csv"},
		{name: "docx", file: "plan.docx", reported: "", expected: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "doc", file: "plan.doc", reported: "", expected: "application/msword"},
		{name: "pptx", file: "deck.pptx", reported: "", expected: "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{name: "ppt", file: "deck.ppt", reported: "", expected: "application/vnd.ms-powerpoint"},
		{name: "generic binary treated as unreported", file: "bom.csv", reported: "application/octet-stream", expected: "text/csv"},
		{name: "reported type wins", file: "photo.png", reported: "image/png", expected: "image/png"},
		{name: "parameters dropped", file: "a.txt", reported: "text/plain; charset=utf-8", expected: "text/plain"},
		{name: "unknown extension", file: "blob.xyz", reported: "", expected: "application/octet-stream"},
		{name: "no extension", file: "Makefile", reported: "", expected: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferMIMEType(tt.file, tt.reported))
		})
	}
}

func TestEncode(t *testing.T) {
	enc := NewEncoder(0)

	att, err := enc.Encode(FromBytes("brief.md", "", []byte("# Feeder")))

	require.NoError(t, err)
	assert.Equal(t, "brief.md", att.Name)
	assert.Equal(t, "text/markdown", att.MIMEType)
	decoded, err := base64.StdEncoding.DecodeString(att.Data)
	require.NoError(t, err)
	assert.Equal(t, "# Feeder", string(decoded))
}

func TestEncodeRejectsOversizedFile(t *testing.T) {
	enc := NewEncoder(8)

	_, err := enc.Encode(FromBytes("big.bin", "", bytes.Repeat([]byte("x"), 9)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = enc.Encode(FromBytes("exact.txt", "", bytes.Repeat([]byte("x"), 8)))
	assert.NoError(t, err)
}

// lyingSource under-reports its size.
type lyingSource struct {
	byteSource
}

func (lyingSource) Size() int64 { return 1 }

func TestEncodeEnforcesCeilingOnBytesRead(t *testing.T) {
	enc := NewEncoder(4)
	src := lyingSource{byteSource{name: "liar.txt", data: []byte("0123456789")}}

	_, err := enc.Encode(src)

	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestEncodeDefaultCeilingIsTenMiB(t *testing.T) {
	enc := NewEncoder(0)
	assert.Equal(t, int64(10*1024*1024), enc.MaxSize)

	_, err := enc.Encode(FromBytes("huge.pdf", "application/pdf", make([]byte, 10*1024*1024+1)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestEncodeFileTypes(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		reported string
		accepted bool
	}{
		{name: "png", file: "shelf.png", reported: "image/png", accepted: true},
		{name: "webp", file: "box.webp", reported: "image/webp", accepted: true},
		{name: "pdf", file: "bom.pdf", reported: "application/pdf", accepted: true},
		{name: "text", file: "notes.txt", reported: "", accepted: true},
		{name: "markdown", file: "brief.md", reported: "", accepted: true},
		{name: "csv", file: "costs.csv", reported: "application/octet-stream", accepted: true},
		{name: "docx", file: "plan.docx", reported: "", accepted: true},
		{name: "ppt", file: "deck.ppt", reported: "", accepted: true},
		{name: "executable", file: "setup.exe", reported: "", accepted: false},
		{name: "video", file: "clip.mp4", reported: "video/mp4", accepted: false},
		{name: "zip", file: "bundle.zip", reported: "application/zip", accepted: false},
		{name: "html", file: "page.html", reported: "text/html", accepted: false},
	}

	enc := NewEncoder(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(FromBytes(tt.file, tt.reported, []byte("MZ")))
			if tt.accepted {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestEncodeBatchRejectsUnsupportedTypes(t *testing.T) {
	enc := NewEncoder(0)
	sources := []Source{
		FromBytes("setup.exe", "", []byte("MZ")),
		FromBytes("photo.jpg", "image/jpeg", []byte{0xff, 0xd8}),
		FromBytes("clip.mp4", "video/mp4", []byte("ftyp")),
	}

	batch := enc.EncodeBatch(context.Background(), sources)

	require.Len(t, batch.Attachments, 1)
	assert.Equal(t, "photo.jpg", batch.Attachments[0].Name)
	require.Len(t, batch.Warnings, 2)
	assert.Contains(t, batch.Warnings[0], "setup.exe is not supported")
	assert.Contains(t, batch.Warnings[1], "clip.mp4 is not supported")
}

func TestEncodeBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := NewEncoder(0).EncodeBatch(ctx, []Source{
		FromBytes("a.txt", "", []byte("alpha")),
		FromBytes("b.txt", "", []byte("beta")),
	})

	assert.Empty(t, batch.Attachments)
	assert.Len(t, batch.Warnings, 2)
}

type failingSource struct {
	byteSource
}

func (failingSource) Open() (io.ReadCloser, error) { return nil, errors.New("disk gone") }

func TestEncodeBatchPartialFailure(t *testing.T) {
	enc := NewEncoder(16)
	sources := []Source{
		FromBytes("a.txt", "", []byte("alpha")),
		FromBytes("too-big-1.bin", "", bytes.Repeat([]byte("x"), 17)),
		FromBytes("b.csv", "", []byte("x,y")),
		FromBytes("too-big-2.bin", "", bytes.Repeat([]byte("x"), 100)),
		FromBytes("c.md", "text/plain", []byte("# c")),
	}

	batch := enc.EncodeBatch(context.Background(), sources)

	require.Len(t, batch.Attachments, 3)
	assert.Equal(t, "a.txt", batch.Attachments[0].Name)
	assert.Equal(t, "b.csv", batch.Attachments[1].Name)
	assert.Equal(t, "c.md", batch.Attachments[2].Name)
	assert.Equal(t, "text/markdown", batch.Attachments[2].MIMEType)
	require.Len(t, batch.Warnings, 2)
	assert.Contains(t, batch.Warnings[0], "too-big-1.bin")
	assert.Contains(t, batch.Warnings[1], "too-big-2.bin")
}

func TestEncodeBatchReadFailureDoesNotBlockSiblings(t *testing.T) {
	enc := NewEncoder(0)
	sources := []Source{
		failingSource{byteSource{name: "broken.pdf"}},
		FromBytes("ok.txt", "", []byte("fine")),
	}

	batch := enc.EncodeBatch(context.Background(), sources)

	require.Len(t, batch.Attachments, 1)
	assert.Equal(t, "ok.txt", batch.Attachments[0].Name)
	require.Len(t, batch.Warnings, 1)
	assert.Contains(t, batch.Warnings[0], "broken.pdf")
}

func TestEncodeBatchEmpty(t *testing.T) {
	batch := NewEncoder(0).EncodeBatch(context.Background(), nil)

	assert.Empty(t, batch.Attachments)
	assert.Empty(t, batch.Warnings)
}
