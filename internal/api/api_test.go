package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/categorizer"
	"kakeibo/internal/importer"
	"kakeibo/internal/ledger"
	"kakeibo/internal/logging"
	"kakeibo/internal/metrics"
	"kakeibo/internal/models"
	"kakeibo/internal/store"
	"kakeibo/internal/textencoding"
)

const testSecret = "test-secret-0123456789"

const sumitomoCSV = "4980-****-****-****,三井住友カード,山田太郎様\n" +
	"2024/02/01,ローソン,540,1,1,540,\n" +
	"2024/03/03,JR東日本,\"1,200\",1,1,\"1,200\",\n"

type testServer struct {
	app   *fiber.App
	store *store.MemoryStore
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logging.NewMockLogger()
	st := store.NewMemoryStore()
	m := metrics.New()
	imp := importer.New(st,
		textencoding.NewNormalizer(0, logger),
		categorizer.NewKeywordClassifier(logger),
		logger).WithRecorder(m)
	app := NewRouter(imp, ledger.New(st, logger), Options{JWTSecret: testSecret, Metrics: m}, logger)

	token, err := IssueToken(testSecret, "u1", time.Hour)
	require.NoError(t, err)
	return &testServer{app: app, store: st, token: token}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	code, _ := s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, code)

	forged, err := IssueToken("another-secret-0123456789", "u1", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	code, _ = s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, code)

	expired, err := IssueToken(testSecret, "u1", -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	code, _ = s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUploadAndAutoAssign(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, uploadRequest(t, "statement.csv", sumitomoCSV))
	require.Equal(t, http.StatusOK, code, string(body))
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.JSONEq(t, `[]`, string(raw["errors"]))
	var result models.UploadResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, models.VendorSumitomo, result.Vendor)

	code, body = s.do(t, uploadRequest(t, "statement.CSV", sumitomoCSV))
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 2, result.Duplicate)

	code, _ = s.do(t, jsonRequest(http.MethodPost, "/api/categories", `{"name":"交通","type":"expense","keywords":["JR"]}`))
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(t, httptest.NewRequest(http.MethodPost, "/api/categories/auto-assign", nil))
	require.Equal(t, http.StatusOK, code)
	var assign models.AssignResult
	require.NoError(t, json.Unmarshal(body, &assign))
	assert.Equal(t, 1, assign.Assigned)
	assert.Equal(t, 2, assign.Total)
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, uploadRequest(t, "statement.txt", sumitomoCSV))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "CSV")

	code, body = s.do(t, uploadRequest(t, "statement.csv", "a,b\n1,2\n"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "rakuten, sumitomo")

	code, body = s.do(t, uploadRequest(t, "statement.csv", "  \n"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "empty")

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/upload", nil)
	code, _ = s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTransactionsListAndDelete(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, uploadRequest(t, "statement.csv", sumitomoCSV))
	require.Equal(t, http.StatusOK, code)

	code, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/transactions?month=2024-02", nil))
	require.Equal(t, http.StatusOK, code)
	var txs []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "2024-02-01", txs[0]["date"])
	assert.Equal(t, "ローソン", txs[0]["description"])

	code, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/transactions?month=bad", nil))
	assert.Equal(t, http.StatusBadRequest, code)

	id := txs[0]["id"].(string)
	code, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+id, nil))
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/transactions?month=2024-02", nil))
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(body))
}

func TestCategoriesCRUD(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, jsonRequest(http.MethodPost, "/api/categories", `{"name":"食費","type":"expense","keywords":[]}`))
	require.Equal(t, http.StatusCreated, code)
	var created models.Category
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Nil(t, created.Keywords)
	assert.Equal(t, models.DefaultCategoryColor, created.Color)

	code, body = s.do(t, jsonRequest(http.MethodPost, "/api/categories", `{"name":"食費","type":"expense"}`))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "already exists")

	code, _ = s.do(t, jsonRequest(http.MethodPost, "/api/categories", `{"name":"振替","type":"transfer"}`))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, jsonRequest(http.MethodPost, "/api/categories", `{"name":"給与","type":"income"}`))
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/categories?type=income", nil))
	require.Equal(t, http.StatusOK, code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(body, &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "給与", cats[0].Name)

	code, body = s.do(t, jsonRequest(http.MethodPut, "/api/categories/"+created.ID, `{"keywords":["セブン"]}`))
	require.Equal(t, http.StatusOK, code)
	var updated models.Category
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, []string{"セブン"}, updated.Keywords)

	code, _ = s.do(t, jsonRequest(http.MethodPut, "/api/categories/missing", `{"name":"x"}`))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/categories/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/categories/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, uploadRequest(t, "statement.csv", "a,b\n"))
	require.Equal(t, http.StatusBadRequest, code)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `kakeibo_upload_rejections_total{reason="format"} 1`)
}
