package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
	"github.com/tendant/media-catalog/pkg/mediacatalog/storage/memory"
)

func TestBackendPutGet(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	url, err := backend.Put(ctx, "certificates/abc.pdf", "application/pdf", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, "memory://objects/certificates/abc.pdf", url)
	assert.Equal(t, 1, backend.Len())

	data, contentType, ok := backend.Get("certificates/abc.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, "application/pdf", contentType)
}

func TestBackendURLPrefix(t *testing.T) {
	backend := memory.New(memory.WithURLPrefix("https://cdn.example.com/"))

	url, err := backend.Put(context.Background(), "gallery/a.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/gallery/a.png", url)
}

func TestBackendDelete(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	_, err := backend.Put(ctx, "gallery/a.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, backend.Delete(ctx, "gallery/a.png"))
	assert.Equal(t, 0, backend.Len())

	err = backend.Delete(ctx, "gallery/a.png")
	var serr *mediacatalog.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "memory", serr.Backend)
	assert.Equal(t, "delete", serr.Op)
}
