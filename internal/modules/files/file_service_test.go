package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploader records stored objects and can fail on the Nth upload.
type fakeUploader struct {
	stored  map[string]string
	deleted []string
	failOn  int // 1-based upload number to fail, 0 for never
	calls   int
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: make(map[string]string)}
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return "", fmt.Errorf("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.stored[key] = string(data)
	return "https://cdn.example/" + key, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.stored, key)
	return nil
}

// multipartHeaders builds real *multipart.FileHeader values the way the HTTP
// layer would hand them over.
func multipartHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := w.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["photos"]
}

func TestService_UploadBatch(t *testing.T) {
	uploader := newFakeUploader()
	svc := NewService(uploader)

	refs, err := svc.UploadBatch(context.Background(), "member-1", multipartHeaders(t, "a.jpg", "b.png"))
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "a.jpg", refs[0].Filename)
	assert.Equal(t, "b.png", refs[1].Filename)
	for _, ref := range refs {
		assert.True(t, strings.HasPrefix(ref.FileID, "photos/member-1/"), "keys are namespaced per member")
		assert.NotEmpty(t, ref.PreviewURL)
	}
	assert.Equal(t, ".jpg", refs[0].FileID[len(refs[0].FileID)-4:], "original extension survives")
	assert.Len(t, uploader.stored, 2)
}

func TestService_UploadBatchAllOrNothing(t *testing.T) {
	uploader := newFakeUploader()
	uploader.failOn = 3
	svc := NewService(uploader)

	refs, err := svc.UploadBatch(context.Background(), "member-1", multipartHeaders(t, "a.jpg", "b.jpg", "c.jpg"))
	require.Error(t, err)
	assert.Nil(t, refs)

	// The two objects stored before the failure are cleaned up; nothing
	// partial survives for the caller to commit to a draft.
	assert.Empty(t, uploader.stored)
	assert.Len(t, uploader.deleted, 2)
}
