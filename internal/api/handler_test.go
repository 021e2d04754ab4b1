package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/pipeline"
	"github.com/cleared-dev/stmt2csv/internal/sink"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	p, err := pipeline.New(config.Default())
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	return NewApp(&Handler{Pipeline: p, Sources: layout.DefaultRegistry(), Log: logger})
}

func uploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/statement.html")
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, resp *http.Response) ConvertResponse {
	t.Helper()
	var out ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "dev", result["version"])
}

func TestConvert_JSON(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/api/convert", "jan.html", fixture(t)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, "jan.html", out.Document)
	assert.Equal(t, 5, out.Count)
	require.Len(t, out.Transactions, 5)
	assert.Equal(t, "CHEQUE DEPOSIT", out.Transactions[2].Description)
	assert.Equal(t, "123456", out.Transactions[2].Cheque)
	assert.False(t, out.Transactions[2].Withdrawal.Valid)
	assert.Equal(t, "500.00", out.Transactions[2].Deposit.Decimal.StringFixed(2))
	require.NotNil(t, out.Counts)
	assert.Equal(t, 5, out.Counts.Headers)
}

func TestConvert_CSV(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/api/convert?format=csv", "jan.html", fixture(t)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "jan.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	txns, err := sink.ReadCSV(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, txns, 5)
}

func TestConvert_CountMismatch(t *testing.T) {
	app := setupTestApp(t)
	broken := strings.Replace(string(fixture(t)), "DEBIT PURCHASE\n<br>", "", 1)

	resp, err := app.Test(uploadRequest(t, "/api/convert", "feb.html", []byte(broken)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	out := decode(t, resp)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "headers=4")
	assert.Empty(t, out.Transactions)
	require.NotNil(t, out.Counts)
	assert.Equal(t, 4, out.Counts.Headers)
	assert.Equal(t, 5, out.Counts.TransactionDates)
}

func TestConvert_RequiresFile(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestConvert_UnsupportedType(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(uploadRequest(t, "/api/convert", "notes.txt", []byte("hello")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}
