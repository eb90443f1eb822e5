package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leca/showroom-gallery/internal/auth"
	"github.com/leca/showroom-gallery/internal/catalog"
	"github.com/leca/showroom-gallery/internal/config"
	"github.com/leca/showroom-gallery/internal/handler"
	"github.com/leca/showroom-gallery/internal/metadata"
	"github.com/leca/showroom-gallery/internal/model"
	"github.com/leca/showroom-gallery/internal/router"
	"github.com/leca/showroom-gallery/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "admin"
	testPassword = "admin123"
)

// testServer builds a server in local storage mode backed by temporary
// directories, mirroring the production wiring.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	meta, err := metadata.NewJSONFile(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(func() { meta.Close() })

	cfg := &config.Config{
		StorageMode:    config.StorageLocal,
		UploadsPath:    t.TempDir(),
		MaxUploadBytes: 5 << 20,
	}

	blobs := storage.NewFileSystem(cfg.UploadsPath)
	h := &handler.Handler{
		Catalog: catalog.NewLocal(meta, blobs, cfg.MaxUploadBytes),
		Auth:    auth.NewCredentials(testUser, testPassword, ""),
	}

	srv := router.New(h, cfg)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts
}

// multipartUpload builds a multipart body with a file part and the given
// form fields.
func multipartUpload(t *testing.T, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if content != nil {
		fw, err := w.CreateFormFile("image", "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, ts *httptest.Server, content []byte, fields map[string]string) *http.Response {
	t.Helper()
	body, contentType := multipartUpload(t, content, fields)
	resp, err := http.Post(ts.URL+"/api/upload", contentType, body)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target), "body: %s", data)
}

type uploadResponse struct {
	Success bool        `json:"success"`
	Image   model.Image `json:"image"`
}

func uploadImage(t *testing.T, ts *httptest.Server, section, category string, content []byte) model.Image {
	t.Helper()
	resp := postUpload(t, ts, content, map[string]string{
		"section":  section,
		"category": category,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out uploadResponse
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	return out.Image
}

func TestLogin(t *testing.T) {
	ts := testServer(t)

	body := strings.NewReader(`{"username":"admin","password":"admin123"}`)
	resp, err := http.Post(ts.URL+"/api/login", "application/json", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "Login valid", out.Message)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := testServer(t)

	body := strings.NewReader(`{"username":"admin","password":"wrong"}`)
	resp, err := http.Post(ts.URL+"/api/login", "application/json", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &out)
	assert.False(t, out.Success)
	assert.Equal(t, "Invalid credentials", out.Message)
}

func TestUpload(t *testing.T) {
	ts := testServer(t)

	img := uploadImage(t, ts, "Showroom", "Sofas", []byte("image bytes"))
	assert.NotEmpty(t, img.ID)
	assert.Equal(t, "Showroom", img.Section)
	assert.Equal(t, "Sofas", img.Category)
	assert.True(t, strings.HasPrefix(img.Path, "uploads/Showroom/"), "path: %s", img.Path)
}

func TestUploadWithoutFile(t *testing.T) {
	ts := testServer(t)

	resp := postUpload(t, ts, nil, map[string]string{"section": "Showroom"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "No file uploaded", out.Error)
}

func TestUploadWithoutSection(t *testing.T) {
	ts := testServer(t)

	resp := postUpload(t, ts, []byte("x"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "Section is required", out.Error)
}

func TestUploadTooLarge(t *testing.T) {
	ts := testServer(t)

	big := bytes.Repeat([]byte("z"), (5<<20)+1)
	resp := postUpload(t, ts, big, map[string]string{"section": "Showroom"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestListBySectionAndAll(t *testing.T) {
	ts := testServer(t)

	a := uploadImage(t, ts, "Showroom", "Sofas", []byte("a"))
	b := uploadImage(t, ts, "Interior", "Lamps", []byte("b"))
	c := uploadImage(t, ts, "Showroom", "Tables", []byte("c"))

	var images []model.Image
	resp, err := http.Get(ts.URL + "/api/images/all")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &images)
	require.Len(t, images, 3)

	// Most recent first.
	assert.Equal(t, c.ID, images[0].ID)
	assert.Equal(t, b.ID, images[1].ID)
	assert.Equal(t, a.ID, images[2].ID)

	resp, err = http.Get(ts.URL + "/api/images/Showroom")
	require.NoError(t, err)
	decodeBody(t, resp, &images)
	require.Len(t, images, 2)
	assert.Equal(t, c.ID, images[0].ID)
	assert.Equal(t, a.ID, images[1].ID)
}

func TestListEmptySection(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/images/Furniture")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func doDelete(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestDeleteByPath(t *testing.T) {
	ts := testServer(t)

	img := uploadImage(t, ts, "Showroom", "Sofas", []byte("doomed"))
	resp := doDelete(t, ts.URL+"/api/images/"+img.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "Image deleted", out.Message)

	// Gone from listings, and the blob no longer serves.
	var images []model.Image
	listResp, err := http.Get(ts.URL + "/api/images/all")
	require.NoError(t, err)
	decodeBody(t, listResp, &images)
	assert.Empty(t, images)

	blobResp, err := http.Get(ts.URL + "/" + img.Path)
	require.NoError(t, err)
	blobResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, blobResp.StatusCode)
}

func TestDeleteByQuery(t *testing.T) {
	ts := testServer(t)

	img := uploadImage(t, ts, "Showroom", "Sofas", []byte("doomed"))
	resp := doDelete(t, ts.URL+"/api/images?id="+img.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var images []model.Image
	listResp, err := http.Get(ts.URL + "/api/images/all")
	require.NoError(t, err)
	decodeBody(t, listResp, &images)
	assert.Empty(t, images)
}

func TestDeleteNotFound(t *testing.T) {
	ts := testServer(t)

	uploadImage(t, ts, "Showroom", "Sofas", []byte("survivor"))

	resp := doDelete(t, ts.URL+"/api/images/123456789")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "Image not found", out.Error)

	// Catalog unchanged.
	var images []model.Image
	listResp, err := http.Get(ts.URL + "/api/images/all")
	require.NoError(t, err)
	decodeBody(t, listResp, &images)
	assert.Len(t, images, 1)
}

func TestDeleteByQueryMissingID(t *testing.T) {
	ts := testServer(t)

	resp := doDelete(t, ts.URL+"/api/images")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRoundTrip(t *testing.T) {
	ts := testServer(t)
	payload := []byte("byte-for-byte payload")

	img := uploadImage(t, ts, "Showroom", "Sofas", payload)

	resp, err := http.Get(ts.URL + "/" + img.Path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
