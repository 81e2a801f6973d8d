package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/resinhook/internal/api"
	"github.com/rshade/resinhook/internal/mockdata"
	"github.com/rshade/resinhook/internal/store"
)

func fixedGenerator() *mockdata.Generator {
	return mockdata.New(11, func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) })
}

func newServer(t *testing.T, st *store.Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.New(api.Options{
		Logger:    zerolog.Nop(),
		Store:     st,
		Generator: fixedGenerator,
		ChunkSize: 50,
	}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, status int) map[string]any {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, status, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv := newServer(t, nil)
	body := getJSON(t, srv.URL+"/api/health", http.StatusOK)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "API is running", body["message"])
}

func TestNotFound(t *testing.T) {
	srv := newServer(t, nil)
	body := getJSON(t, srv.URL+"/api/nope", http.StatusNotFound)
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "/api/nope", body["path"])
}

func TestExport(t *testing.T) {
	srv := newServer(t, nil)

	tests := []struct {
		name  string
		query string
		total float64
	}{
		{"default count", "", 500},
		{"explicit count", "?count=7", 7},
		{"accounts capped", "?type=accounts&count=1000", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := getJSON(t, srv.URL+"/api/excel/export"+tt.query, http.StatusOK)
			assert.Equal(t, true, body["ok"])
			assert.Equal(t, tt.total, body["total"])
			assert.Len(t, body["data"], int(tt.total))
		})
	}

	t.Run("english keys keep order", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/excel/export?count=1&keys=en") //nolint:noctx // test
		require.NoError(t, err)
		defer resp.Body.Close()
		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.Regexp(t, `^\{"ok":true,"data":\[\{"txnId":.*"remark":".*"\}\],"total":1\}`, buf.String())
	})

	t.Run("txnType filter", func(t *testing.T) {
		body := getJSON(t, srv.URL+"/api/excel/export?count=200&keys=en&txnType=deposit", http.StatusOK)
		for _, row := range body["data"].([]any) {
			assert.Equal(t, "deposit", row.(map[string]any)["type"])
		}
	})
}

func TestDownload(t *testing.T) {
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer st.Close()
	srv := newServer(t, st)

	resp, err := http.Get(srv.URL + "/api/excel/download?count=120&keys=en&filename=my%20report") //nolint:noctx // test
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename*=UTF-8''my%20report.xlsx", resp.Header.Get("Content-Disposition"))

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("交易流水")
	require.NoError(t, err)
	require.Len(t, rows, 121)
	assert.Equal(t, "交易流水号", rows[0][0])
	assert.Equal(t, "备注", rows[0][9])

	jobs := getJSON(t, srv.URL+"/api/excel/jobs", http.StatusOK)
	assert.Equal(t, float64(1), jobs["total"])
	job := jobs["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "done", job["status"])
	assert.Equal(t, "my report.xlsx", job["filename"])
	assert.Equal(t, "api:transactions", job["source"])
}

func TestDownload_EmptyResult(t *testing.T) {
	srv := newServer(t, nil)
	body := getJSON(t, srv.URL+"/api/excel/download?count=5&txnType=none", http.StatusInternalServerError)
	assert.Equal(t, "no data to export", body["error"])
}

func TestImport(t *testing.T) {
	srv := newServer(t, nil)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"name", "score"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"alice", 90}))
	var workbook bytes.Buffer
	require.NoError(t, f.Write(&workbook))
	require.NoError(t, f.Close())

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "in.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/excel/import", mw.FormDataContentType(), &form) //nolint:noctx // test
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["total"])
	row := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "alice", row["name"])
	assert.Equal(t, float64(90), row["score"])
}

func TestImport_BadBody(t *testing.T) {
	srv := newServer(t, nil)
	resp, err := http.Post(srv.URL+"/api/excel/import", "application/octet-stream", bytes.NewReader([]byte("nope"))) //nolint:noctx // test
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobs_WithoutStore(t *testing.T) {
	srv := newServer(t, nil)
	body := getJSON(t, srv.URL+"/api/excel/jobs", http.StatusOK)
	assert.Equal(t, float64(0), body["total"])
	assert.Empty(t, body["data"])
}

func TestCORS(t *testing.T) {
	srv := newServer(t, nil)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/health", nil) //nolint:noctx // test
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t,
		"attachment; filename*=UTF-8''%E9%93%B6%E8%A1%8C%E6%B5%81%E6%B0%B4.xlsx",
		api.ContentDisposition(mockdata.DefaultDownloadName))
}
