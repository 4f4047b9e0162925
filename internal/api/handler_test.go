package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/logger"
)

func testServer() *Server {
	return NewServer(logger.Nop(), config.Defaults())
}

// documentForm builds a multipart body carrying pre-extracted pages as the
// "document" form field, plus any extra fields.
func documentForm(t *testing.T, doc string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("document", doc))
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

const consistentDoc = `{
  "pages": [
    {
      "number": 1,
      "tables": [
        [
          ["Txn Date", "Value Date", "Narration", "Debit", "Credit", "Balance"],
          ["01-Jan-2025", "01-Jan-2025", "OPENING", "", "", "1,000.00"],
          ["02-Jan-2025", "02-Jan-2025", "ATM WITHDRAWAL", "50.00", "", "950.00"]
        ]
      ]
    }
  ]
}`

const inconsistentDoc = `{
  "pages": [
    {
      "number": 1,
      "tables": [
        [
          ["Txn Date", "Value Date", "Narration", "Debit", "Credit", "Balance"],
          ["01-Jan-2025", "01-Jan-2025", "R1", "", "", "100.00"],
          ["02-Jan-2025", "02-Jan-2025", "R2", "", "", "700.00"],
          ["03-Jan-2025", "03-Jan-2025", "R3", "", "", "300.00"]
        ]
      ]
    }
  ]
}`

func TestHealthEndpoint(t *testing.T) {
	app := testServer().App()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "fiber", body["engine"])
}

func TestConvertRequiresInput(t *testing.T) {
	app := testServer().App()

	req := httptest.NewRequest("POST", "/api/convert", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "no input")
}

func TestConvertDocumentField(t *testing.T) {
	app := testServer().App()

	form, contentType := documentForm(t, consistentDoc, nil)
	req := httptest.NewRequest("POST", "/api/convert", form)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Records, 2)
	assert.Equal(t, "2025-01-02", body.Records[1].TxnDate)
	assert.Equal(t, "50.00", body.Records[1].Debit)
	assert.True(t, body.Records[1].Consistent)
	assert.Equal(t, "50.00", body.TotalDebit)
	assert.Equal(t, "0.00", body.TotalCredit)
	assert.InDelta(t, 1.0, body.Score.Rate, 1e-9)
	assert.Contains(t, body.CSV, "TXN_DATE,VAL_DATE")
	assert.Contains(t, body.CSV, "2025-01-02")
}

func TestConvertInconsistentLedgerIsUnprocessable(t *testing.T) {
	app := testServer().App()

	form, contentType := documentForm(t, inconsistentDoc, nil)
	req := httptest.NewRequest("POST", "/api/convert", form)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	// Best attempt still ships, flagged per record.
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
	require.Len(t, body.Records, 3)
	assert.True(t, body.Records[0].Consistent)
	assert.False(t, body.Records[1].Consistent)
	assert.NotEmpty(t, body.Attempts)
}

func TestConvertMalformedDocument(t *testing.T) {
	app := testServer().App()

	form, contentType := documentForm(t, "{not json", nil)
	req := httptest.NewRequest("POST", "/api/convert", form)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestConvertHeaderToggle(t *testing.T) {
	app := testServer().App()

	form, contentType := documentForm(t, consistentDoc, map[string]string{"header": "false"})
	req := httptest.NewRequest("POST", "/api/convert", form)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.CSV, "# ")
}
