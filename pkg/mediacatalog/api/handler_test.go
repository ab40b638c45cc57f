package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
	"github.com/tendant/media-catalog/pkg/mediacatalog/api"
	"github.com/tendant/media-catalog/pkg/mediacatalog/repo/memory"
	memorystorage "github.com/tendant/media-catalog/pkg/mediacatalog/storage/memory"
)

func setupTestServer(t *testing.T) (*httptest.Server, *memorystorage.Backend) {
	t.Helper()

	store := memorystorage.New()
	svc, err := mediacatalog.New(
		mediacatalog.WithRepository(memory.New()),
		mediacatalog.WithObjectStore(store),
	)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api/certificates", api.NewCatalogHandler(svc, mediacatalog.ClassCertificate).Routes())
	r.Mount("/api/gallery", api.NewCatalogHandler(svc, mediacatalog.ClassGallery).Routes())

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server, store
}

// multipartUpload builds a multipart body with the given form fields and one
// file part carrying an explicit Content-Type.
func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func decodeRecord(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))
	return decoded
}

func TestCreateCertificateUpload(t *testing.T) {
	server, store := setupTestServer(t)

	payload := bytes.Repeat([]byte("a"), 2<<20)
	body, contentType := multipartUpload(t, map[string]string{
		"title":      "Donation Certificate",
		"provenance": "file",
		"date":       "2024-03-15",
	}, "donation.pdf", "application/pdf", payload)

	resp, err := http.Post(server.URL+"/api/certificates", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	record := decodeRecord(t, resp.Body)
	assert.Equal(t, "certificate", record["class"])
	assert.Equal(t, "file", record["provenance"])
	assert.Equal(t, "application/pdf", record["content_type"])
	assert.Equal(t, "Donation Certificate", record["title"])

	locationURL, _ := record["location_url"].(string)
	assert.True(t, strings.HasSuffix(locationURL, ".pdf"))
	assert.Contains(t, locationURL, "certificates/")
	assert.True(t, strings.HasPrefix(record["occurred_at"].(string), "2024-03-15"))

	assert.Equal(t, 1, store.Len())
}

func TestCreateGalleryFromURL(t *testing.T) {
	server, store := setupTestServer(t)

	body := `{"title":"Annual Day","provenance":"url","type":"video","url":"https://example.com/v.mp4","content_type":"video/mp4"}`
	resp, err := http.Post(server.URL+"/api/gallery", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	record := decodeRecord(t, resp.Body)
	assert.Equal(t, "gallery", record["class"])
	assert.Equal(t, "video", record["media_type"])
	// URL provenance stores the location verbatim and writes no object.
	assert.Equal(t, "https://example.com/v.mp4", record["location_url"])
	assert.Equal(t, 0, store.Len())
}

func TestCreateRejectsBadUploads(t *testing.T) {
	server, store := setupTestServer(t)

	tests := []struct {
		name     string
		path     string
		fields   map[string]string
		filename string
		fileType string
		size     int
		reason   string
	}{
		{
			name:     "video as certificate",
			path:     "/api/certificates",
			fields:   map[string]string{"title": "Bad", "provenance": "file"},
			filename: "clip.mp4",
			fileType: "video/mp4",
			size:     1024,
			reason:   "unsupported_type",
		},
		{
			name:     "oversize certificate",
			path:     "/api/certificates",
			fields:   map[string]string{"title": "Big", "provenance": "file"},
			filename: "big.pdf",
			fileType: "application/pdf",
			size:     10<<20 + 1,
			reason:   "too_large",
		},
		{
			name:     "video mime on gallery image",
			path:     "/api/gallery",
			fields:   map[string]string{"title": "Bad", "provenance": "file", "type": "image"},
			filename: "clip.mp4",
			fileType: "video/mp4",
			size:     1024,
			reason:   "unsupported_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.fields, tt.filename, tt.fileType, bytes.Repeat([]byte("b"), tt.size))

			resp, err := http.Post(server.URL+tt.path, contentType, body)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errBody map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
			assert.Equal(t, tt.reason, errBody["reason"])

			// Rejections leave no stored objects behind.
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestCreateRejectsMalformedURL(t *testing.T) {
	server, _ := setupTestServer(t)

	body := `{"title":"Bad","provenance":"url","type":"image","url":"not a url"}`
	resp, err := http.Post(server.URL+"/api/gallery", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "malformed_url", errBody["reason"])
}

func TestListRecords(t *testing.T) {
	server, _ := setupTestServer(t)

	t.Run("empty catalog lists as empty array", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/certificates")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(raw))
	})

	t.Run("classes do not intermix", func(t *testing.T) {
		body := `{"title":"Photo","provenance":"url","type":"image","url":"https://example.com/p.png"}`
		resp, err := http.Post(server.URL+"/api/gallery", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = http.Get(server.URL + "/api/gallery")
		require.NoError(t, err)
		defer resp.Body.Close()

		var records []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
		require.Len(t, records, 1)

		resp2, err := http.Get(server.URL + "/api/certificates")
		require.NoError(t, err)
		defer resp2.Body.Close()

		var certs []map[string]any
		require.NoError(t, json.NewDecoder(resp2.Body).Decode(&certs))
		assert.Empty(t, certs)
	})
}

func TestDeleteRecord(t *testing.T) {
	server, _ := setupTestServer(t)

	body := `{"title":"Photo","provenance":"url","type":"image","url":"https://example.com/p.png"}`
	resp, err := http.Post(server.URL+"/api/gallery", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	record := decodeRecord(t, resp.Body)
	resp.Body.Close()
	id := record["id"].(string)

	doDelete := func(path string) (*http.Response, map[string]any) {
		req, err := http.NewRequest(http.MethodDelete, server.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var decoded map[string]any
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		}
		return resp, decoded
	}

	t.Run("delete succeeds", func(t *testing.T) {
		resp, decoded := doDelete("/api/gallery/" + id)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, decoded["success"])
	})

	t.Run("repeated delete still succeeds", func(t *testing.T) {
		resp, decoded := doDelete("/api/gallery/" + id)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, decoded["success"])
	})

	t.Run("never-created id succeeds", func(t *testing.T) {
		resp, decoded := doDelete("/api/gallery/" + uuid.NewString())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, decoded["success"])
	})

	t.Run("non-uuid id is rejected", func(t *testing.T) {
		resp, _ := doDelete("/api/gallery/not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
