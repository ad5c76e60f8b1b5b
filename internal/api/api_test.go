package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lllllllleong/toolsuite/internal/registry"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestServer(t *testing.T, maxUpload int64) (*httptest.Server, *SessionStore) {
	t.Helper()
	store := NewSessionStore(time.Minute)
	h := NewHandler(registry.Default(), store, maxUpload)
	srv := httptest.NewServer(NewRouter(h, Options{RequestTimeout: 10 * time.Second}))
	t.Cleanup(srv.Close)
	return srv, store
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthAndCatalog(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tools?category=PDF")
	require.NoError(t, err)
	defer resp.Body.Close()
	list := decode[struct {
		Tools []registry.Descriptor `json:"tools"`
		Total int                   `json:"total"`
	}](t, resp)
	assert.Equal(t, 7, list.Total)
	assert.Equal(t, "pdf-merge", list.Tools[0].ID)

	resp, err = http.Get(srv.URL + "/api/tools/pdf-to-jpg")
	require.NoError(t, err)
	defer resp.Body.Close()
	d := decode[registry.Descriptor](t, resp)
	assert.False(t, d.Available)

	resp, err = http.Get(srv.URL + "/api/tools/flux-capacitor")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	apiErr := decode[APIError](t, resp)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	resp, err = http.Get(srv.URL + "/api/suites/image-suite")
	require.NoError(t, err)
	defer resp.Body.Close()
	suite := decode[struct {
		Tools []registry.Descriptor `json:"tools"`
	}](t, resp)
	require.Len(t, suite.Tools, 6)
	assert.Equal(t, "image-cropper", suite.Tools[0].ID)
}

func TestRunTextTool(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)

	resp := postJSON(t, srv.URL+"/api/tools/word-counter/run", runRequest{Text: "hello world"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[tools.Result](t, resp)
	assert.Equal(t, tools.KindText, res.Kind)
	assert.Contains(t, res.Value, "Words: 2")

	resp = postJSON(t, srv.URL+"/api/tools/json-formatter/run", runRequest{Text: "{bad"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	res = decode[tools.Result](t, resp)
	assert.Equal(t, tools.KindError, res.Kind)
	assert.NotEmpty(t, res.Message)
}

func TestRunComingSoonAndUnknown(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)

	resp := postJSON(t, srv.URL+"/api/tools/image-background-remover/run", runRequest{})
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Equal(t, "This tool is coming soon.", decode[APIError](t, resp).Message)

	resp = postJSON(t, srv.URL+"/api/tools/nope/run", runRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunFileToolMultipart(t *testing.T) {
	srv, _ := newTestServer(t, 4<<20)

	body, contentType := multipartBody(t, map[string][]byte{"photo.png": pngBytes(t, 30, 20)}, map[string]string{"format": "jpeg"})
	resp, err := http.Post(srv.URL+"/api/tools/image-format-converter/run", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename=converted.jpeg`)
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 30, cfg.Width)
}

func TestUploadLimit(t *testing.T) {
	srv, _ := newTestServer(t, 1<<10)

	body, contentType := multipartBody(t, map[string][]byte{"big.png": bytes.Repeat([]byte{1}, 4<<10)}, nil)
	resp, err := http.Post(srv.URL+"/api/tools/image-compressor/run", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decode[APIError](t, resp).Code)
}

func TestUnsupportedContentType(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)
	resp, err := http.Post(srv.URL+"/api/tools/word-counter/run", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMsgpackNegotiation(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/tools/hash-generator/run", strings.NewReader(`{"text":"abc","params":{"algorithm":"SHA-1"}}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/msgpack")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, mimeMsgpack, resp.Header.Get("Content-Type"))
	var res map[string]any
	require.NoError(t, msgpack.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "text", res["kind"])
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", res["value"])
}

func TestWantsMsgpack(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, wantsMsgpack(r))
	r.Header.Set("Accept", "text/html, application/msgpack;q=0.9")
	assert.True(t, wantsMsgpack(r))
}
