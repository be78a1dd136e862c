package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParseTextHandler_Success(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService(garciaReply, nil))

	c, rec := postJSON(e, "/api/v1/parse", `{"text":"pt: thomas garcia, surgical wound"}`)
	if err := h.ParseText(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.RawText != "pt: thomas garcia, surgical wound" {
		t.Errorf("raw_text = %q", resp.RawText)
	}
	if resp.ParsedData.ExtractedData.PatientName != "Thomas Garcia" {
		t.Errorf("unexpected parsed data: %+v", resp.ParsedData.ExtractedData)
	}
}

func TestParseTextHandler_ShortText(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService(garciaReply, nil))

	c, _ := postJSON(e, "/api/v1/parse", `{"text":"hi"}`)
	err := h.ParseText(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestParseTextHandler_ModelFailure(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService("", errors.New("deadline exceeded")))

	c, _ := postJSON(e, "/api/v1/parse", `{"text":"a referral long enough to parse"}`)
	err := h.ParseText(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %v", err)
	}
}

func multipartUpload(t *testing.T, filename string, content []byte) (*http.Request, error) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/document", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, nil
}

func TestParseDocumentHandler_PlainTextUpload(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService(garciaReply, nil))

	req, err := multipartUpload(t, "referral.txt", []byte(sampleReferrals["missing_insurance"]))
	if err != nil {
		t.Fatalf("build upload: %v", err)
	}
	rec := httptest.NewRecorder()

	if err := h.ParseDocument(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.RawText, "Thomas Garcia") {
		t.Error("raw_text should carry the extracted document text")
	}
}

func TestParseDocumentHandler_UnreadableUpload(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService(garciaReply, nil))

	req, err := multipartUpload(t, "scan.pdf", []byte("%PDF-1.4 garbage"))
	if err != nil {
		t.Fatalf("build upload: %v", err)
	}
	rec := httptest.NewRecorder()

	herr := h.ParseDocument(e.NewContext(req, rec))
	httpErr, ok := herr.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %v", herr)
	}
}

func TestParseDocumentHandler_MissingFile(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService(garciaReply, nil))

	c, _ := postJSON(e, "/api/v1/parse/document", `{}`)
	err := h.ParseDocument(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestSamplesHandler(t *testing.T) {
	e := echo.New()
	h := NewHandler(modelService("", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/samples", nil)
	rec := httptest.NewRecorder()
	if err := h.Samples(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var samples map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &samples); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"clean", "messy", "missing_insurance"} {
		if samples[key] == "" {
			t.Errorf("missing sample %q", key)
		}
	}
}

func TestSamples_ReturnsACopy(t *testing.T) {
	s := Samples()
	s["clean"] = "mutated"
	if Samples()["clean"] == "mutated" {
		t.Error("Samples must not expose the backing map")
	}
}
