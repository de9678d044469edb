package ui

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"serviceboard/app"
	"serviceboard/domain/core"
	"serviceboard/domain/report"
	"serviceboard/internal/dataset"
	apperrors "serviceboard/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockReportAPI struct {
	mock.Mock
}

func (m *MockReportAPI) Ingest(ctx context.Context, data []byte, filename string) (*app.IngestResult, error) {
	args := m.Called(ctx, data, filename)
	if r, ok := args.Get(0).(*app.IngestResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportAPI) Latest(ctx context.Context) (*report.Document, error) {
	args := m.Called(ctx)
	if d, ok := args.Get(0).(*report.Document); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportAPI) Summary(ctx context.Context) ([]dataset.ColumnSummary, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).([]dataset.ColumnSummary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportAPI) ListReports(ctx context.Context, limit int) ([]*report.ArchivedReport, error) {
	args := m.Called(ctx, limit)
	if r, ok := args.Get(0).([]*report.ArchivedReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportAPI) GetReport(ctx context.Context, id core.ReportID) (*report.ArchivedReport, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*report.ArchivedReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func sampleDocument() *report.Document {
	ds := &report.Dataset{
		Title:   "Service Employee Rank",
		Columns: []string{"Employee", "Rank"},
		Rows: []report.Record{
			{"Employee": report.StringValue("Jane Doe"), "Rank": report.IntegerValue(1)},
		},
		FieldTypes: map[string]report.FieldType{"Employee": report.FieldString, "Rank": report.FieldNumber},
	}
	meta := report.Metadata{"Level": "Store", "Exported": "Dec 22 2025  5:17:17:583PM"}
	return report.NewDocument(meta, ds, report.Source{DataSheet: "Data", Filename: "rank.xlsx"}, "2025-12-22T17:17:17Z")
}

func newTestServer(api ReportAPI, opts Options) http.Handler {
	return NewServer(api, opts, nil).Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(&MockReportAPI{}, Options{}), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	w := do(t, newTestServer(&MockReportAPI{}, Options{}), httptest.NewRequest(http.MethodOptions, "/api/upload", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestDataAndMeta(t *testing.T) {
	api := &MockReportAPI{}
	api.On("Latest", mock.Anything).Return(sampleDocument(), nil)
	h := newTestServer(api, Options{})

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "Service Employee Rank", gjson.Get(body, "dataset.title").String())
	assert.Equal(t, "Jane Doe", gjson.Get(body, "dataset.rows.0.Employee").String())
	assert.Equal(t, "number", gjson.Get(body, "fieldTypes.Rank").String())
	assert.Equal(t, "Data", gjson.Get(body, "source.dataSheet").String())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/api/meta", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Store", gjson.Get(w.Body.String(), "Level").String())
	assert.False(t, gjson.Get(w.Body.String(), "dataset").Exists())
}

func TestNoDataYet(t *testing.T) {
	api := &MockReportAPI{}
	api.On("Latest", mock.Anything).Return(nil, core.ErrNoDocument)
	api.On("Summary", mock.Anything).Return(nil, core.ErrNoDocument)
	h := newTestServer(api, Options{})

	for _, path := range []string{"/api/data", "/api/meta", "/api/summary"} {
		w := do(t, h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"No data yet. Upload an .xlsx first."}`, w.Body.String(), path)
	}
}

func TestLatestFailure(t *testing.T) {
	api := &MockReportAPI{}
	api.On("Latest", mock.Anything).Return(nil, errors.New("disk gone"))

	w := do(t, newTestServer(api, Options{}), httptest.NewRequest(http.MethodGet, "/api/data", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk gone")
}

func TestSummary(t *testing.T) {
	api := &MockReportAPI{}
	api.On("Summary", mock.Anything).Return([]dataset.ColumnSummary{
		{Column: "Rank", Type: report.FieldNumber, Count: 2, Min: 1, Max: 2, Mean: 1.5, Median: 1.5},
	}, nil)

	w := do(t, newTestServer(api, Options{}), httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rank", gjson.Get(w.Body.String(), "columns.0.column").String())
	assert.Equal(t, 1.5, gjson.Get(w.Body.String(), "columns.0.mean").Float())
}

func TestUpload(t *testing.T) {
	api := &MockReportAPI{}
	doc := sampleDocument()
	id := core.ReportID(core.NewID())
	api.On("Ingest", mock.Anything, []byte("PK-workbook"), "rank.xlsx").
		Return(&app.IngestResult{ID: id, Document: doc, Archived: true}, nil).Once()

	w := do(t, newTestServer(api, Options{UploadMaxBytes: 1 << 20}), uploadRequest(t, "file", "rank.xlsx", []byte("PK-workbook")))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, gjson.Get(body, "ok").Bool())
	assert.Equal(t, id.String(), gjson.Get(body, "id").String())
	assert.Equal(t, "Store", gjson.Get(body, "meta.Level").String())
	assert.True(t, gjson.Get(body, "archived").Bool())
	api.AssertExpectations(t)
}

func TestUpload_MissingField(t *testing.T) {
	api := &MockReportAPI{}
	w := do(t, newTestServer(api, Options{UploadMaxBytes: 1 << 20}), uploadRequest(t, "workbook", "rank.xlsx", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing file field 'file'."}`, w.Body.String())
	api.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_TooLarge(t *testing.T) {
	api := &MockReportAPI{}
	w := do(t, newTestServer(api, Options{UploadMaxBytes: 16}), uploadRequest(t, "file", "big.xlsx", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, apperrors.CodePayloadTooLarge, gjson.Get(w.Body.String(), "code").String())
	api.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_Rejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		app  string
	}{
		{"invalid archive", apperrors.InvalidArchive("not a zip", nil), http.StatusUnprocessableEntity, apperrors.CodeInvalidArchive},
		{"missing header", apperrors.HeaderNotFound("Data"), http.StatusUnprocessableEntity, apperrors.CodeHeaderNotFound},
		{"storage failure", errors.New("read-only file system"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockReportAPI{}
			api.On("Ingest", mock.Anything, mock.Anything, "bad.xlsx").Return(nil, tt.err)

			w := do(t, newTestServer(api, Options{UploadMaxBytes: 1 << 20}), uploadRequest(t, "file", "bad.xlsx", []byte("nope")))
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.app, gjson.Get(w.Body.String(), "code").String())
		})
	}
}

func TestListReports(t *testing.T) {
	api := &MockReportAPI{}
	api.On("ListReports", mock.Anything, 5).Return([]*report.ArchivedReport{
		{ID: core.ReportID(core.NewID()), Filename: "rank.xlsx", RowCount: 3, Sheets: []string{"Data"}},
	}, nil).Once()
	api.On("ListReports", mock.Anything, 0).Return(nil, nil).Once()
	h := newTestServer(api, Options{})

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/api/reports?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rank.xlsx", gjson.Get(w.Body.String(), "reports.0.filename").String())
	assert.False(t, gjson.Get(w.Body.String(), "reports.0.document").Exists())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reports":[]}`, w.Body.String())

	for _, bad := range []string{"abc", "0", "-1", "100000"} {
		w = do(t, h, httptest.NewRequest(http.MethodGet, "/api/reports?limit="+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
	api.AssertExpectations(t)
}

func TestGetReport(t *testing.T) {
	id := core.ReportID(core.NewID())
	missing := core.ReportID(core.NewID())
	api := &MockReportAPI{}
	api.On("GetReport", mock.Anything, id).Return(&report.ArchivedReport{
		ID:       id,
		Filename: "rank.xlsx",
		Document: []byte(`{"meta":{"Level":"Store"}}`),
	}, nil)
	api.On("GetReport", mock.Anything, missing).Return(nil, core.ErrReportNotFound)
	h := newTestServer(api, Options{})

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/api/reports/"+id.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Store", gjson.Get(w.Body.String(), "document.meta.Level").String())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/api/reports/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/api/reports/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReports_ArchiveDisabled(t *testing.T) {
	api := &MockReportAPI{}
	api.On("ListReports", mock.Anything, 0).Return(nil, app.ErrArchiveDisabled)

	w := do(t, newTestServer(api, Options{}), httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>board</html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0644))
	h := newTestServer(&MockReportAPI{}, Options{StaticDir: dir})

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/reports/today", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "board")

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticMissingDir(t *testing.T) {
	h := newTestServer(&MockReportAPI{}, Options{StaticDir: filepath.Join(t.TempDir(), "missing")})
	w := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
