package transfer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/zipconsole/types"
	"github.com/moyoez/zipconsole/upload"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL + "/api"
	opts.HTTPClient = srv.Client()
	return NewClient(opts)
}

func zipItem(name, content string) types.QueueItem {
	return types.QueueItem{Name: name, Size: int64(len(content)), Payload: upload.BytesSource(content)}
}

func TestUploadZipFileSendsMultipartFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload-zip", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "a.zip", header.Filename)
		assert.Equal(t, "application/zip", header.Header.Get("Content-Type"))
		assert.Equal(t, "PK-content", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"zip_file_id":"z1","status":"UPLOADED"}`))
	}, Options{Token: func() string { return "tok-1" }})

	data, err := c.UploadZipFile(context.Background(), zipItem("a.zip", "PK-content"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"zip_file_id": "z1", "status": "UPLOADED"}, data)
}

func TestUploadZipFileNon2xxCarriesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"corrupt archive"}`))
	}, Options{})

	_, err := c.UploadZipFile(context.Background(), zipItem("bad.zip", "x"))
	require.Error(t, err)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnprocessableEntity, respErr.StatusCode)
	assert.Equal(t, map[string]any{"detail": "corrupt archive"}, respErr.Body)
	assert.Contains(t, err.Error(), "corrupt archive")

	detail := upload.ExtractFailure(err)
	assert.Equal(t, types.FailureBody, detail.Kind)
	assert.Equal(t, "corrupt archive", detail.Summary())
}

func TestUploadZipFileEmptyErrorBodyFallsBackToMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, Options{})

	_, err := c.UploadZipFile(context.Background(), zipItem("a.zip", "x"))
	require.Error(t, err)
	detail := upload.ExtractFailure(err)
	assert.Equal(t, types.FailureMessage, detail.Kind)
	assert.Contains(t, detail.Message, "403")
}

func TestUploadZipFileWithoutPayload(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }, Options{})
	_, err := c.UploadZipFile(context.Background(), types.QueueItem{Name: "ghost.zip"})
	require.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestUploadZipFileRequiresServerURL(t *testing.T) {
	c := NewClient(Options{})
	_, err := c.UploadZipFile(context.Background(), zipItem("a.zip", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestBreakerOpensAfterConsecutiveServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, Options{BreakerFailures: 2, BreakerCooldown: time.Minute})

	for range 2 {
		_, err := c.UploadZipFile(context.Background(), zipItem("a.zip", "x"))
		var respErr *ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
	}

	_, err := c.UploadZipFile(context.Background(), zipItem("a.zip", "x"))
	require.Error(t, err)
	assert.True(t, IsCircuitOpen(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, Options{BreakerFailures: 1})

	for range 3 {
		_, err := c.UploadZipFile(context.Background(), zipItem("a.zip", "x"))
		assert.False(t, IsCircuitOpen(err))
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestCancelledContextFailsFast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, Options{UploadsPerSecond: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.UploadZipFile(ctx, zipItem("a.zip", "x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestListZipFilesAcceptsBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get_all_students_zip_files/u-1", r.URL.Path)
		_, _ = w.Write([]byte(`[{"uuid":"z1","file_name":"a.zip","upload_status":"UPLOADED","extraction_status":null}]`))
	}, Options{})

	rows, err := c.ListZipFiles(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "z1", rows[0].UUID)
	assert.Equal(t, "UPLOADED", rows[0].UploadStatus)
	assert.Nil(t, rows[0].ExtractionStatus)
}

func TestListZipDocumentsAcceptsWrappedData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get_all_files_within_zip_file/z%201", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"data":[{"uuid":"d1","document_name":"id.pdf","document_type":"ID_CARD"}]}`))
	}, Options{})

	docs, err := c.ListZipDocuments(context.Background(), "z 1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ID_CARD", docs[0].DocumentType)
}

func TestDecodeList(t *testing.T) {
	items, err := decodeList[types.DocumentRecord]([]byte(`{"message":"nothing"}`))
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = decodeList[types.DocumentRecord]([]byte(`  `))
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = decodeList[types.DocumentRecord]([]byte(`[{"uuid":`))
	require.Error(t, err)
}

func TestDecodeBody(t *testing.T) {
	assert.Nil(t, decodeBody(nil))
	assert.Equal(t, "plain text", decodeBody([]byte("plain text")))
	assert.Equal(t, []any{float64(1)}, decodeBody([]byte("[1]")))
}
