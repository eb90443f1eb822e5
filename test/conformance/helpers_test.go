//go:build conformance

package conformance

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// apiURL builds a full URL for the given API path suffix.
func apiURL(path string) string {
	return strings.TrimRight(baseURL, "/") + "/api" + path
}

// doRequest performs an HTTP request and returns the response.
func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// doJSON performs an HTTP request with a JSON body and returns the
// status plus the decoded response.
func doJSON(t *testing.T, method, url string, body io.Reader) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := doRequest(t, req)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	return resp.StatusCode, raw
}

// uploadImage uploads content under section/category and returns the
// status plus the decoded response.
func uploadImage(t *testing.T, section, category string, content []byte) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", "conformance.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if section != "" {
		if err := w.WriteField("section", section); err != nil {
			t.Fatalf("write section: %v", err)
		}
	}
	if category != "" {
		if err := w.WriteField("category", category); err != nil {
			t.Fatalf("write category: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest("POST", apiURL("/upload"), &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := doRequest(t, req)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	return resp.StatusCode, raw
}

// listImages fetches the image list for a section.
func listImages(t *testing.T, section string) []map[string]any {
	t.Helper()
	resp, err := http.Get(apiURL("/images/" + section))
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list images: unexpected status %d", resp.StatusCode)
	}
	var images []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&images); err != nil {
		t.Fatalf("decode image list: %v", err)
	}
	return images
}

// deleteImage issues a query-param delete for the given id.
func deleteImage(t *testing.T, id string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest("DELETE", apiURL("/images")+"?id="+url.QueryEscape(id), nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	resp := doRequest(t, req)
	defer resp.Body.Close()
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode delete response: %v", err)
	}
	return resp.StatusCode, raw
}
