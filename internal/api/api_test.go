package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supplyops/planner/internal/domain"
	"github.com/supplyops/planner/internal/service"
	"github.com/supplyops/planner/internal/session"
)

const demandCSV = `Articles,DateDuMois - Mois,UVC_2025,Classification_ABC
P1,janvier,10,A
P1,février,20,A
`

type planResponse struct {
	SessionID        string             `json:"session_id"`
	Products         []string           `json:"products"`
	SelectedProducts []string           `json:"selected_products"`
	Plan             domain.Plan        `json:"plan"`
	InitialStocks    map[string]float64 `json:"initial_stocks"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewPlanningService(session.NewMemoryStore(time.Minute), nil, nil)
	return NewRouter(svc, t.TempDir(), nil)
}

func uploadSession(t *testing.T, router *gin.Engine) planResponse {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "demand.csv")
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write([]byte(demandCSV)); err != nil {
		t.Fatalf("failed to write multipart body: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	return resp
}

func TestUploadAndGetPlan(t *testing.T) {
	router := newTestRouter(t)

	created := uploadSession(t, router)
	if created.SessionID == "" || len(created.Plan) != 2 {
		t.Fatalf("unexpected upload response: %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.SessionID+"/plan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get plan returned %d: %s", rec.Code, rec.Body.String())
	}

	var got planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode plan response: %v", err)
	}
	if len(got.Plan) != 2 || got.Plan[0].Month != 1 {
		t.Errorf("unexpected plan: %+v", got.Plan)
	}
}

func TestUploadRejectsMissingColumns(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "demand.csv")
	fmt.Fprint(part, "Articles,UVC_2025\nP1,10\n")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing columns, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "missing required columns") {
		t.Errorf("error should mention the missing columns: %s", rec.Body.String())
	}
}

func TestSubmitEditedPlan(t *testing.T) {
	router := newTestRouter(t)
	created := uploadSession(t, router)

	edited := created.Plan.Clone()
	for i := range edited {
		if edited[i].Month == 2 {
			edited[i].Demand = 42
		}
	}

	payload, _ := json.Marshal(map[string]interface{}{"plan": edited})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+created.SessionID+"/plan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("submit plan returned %d: %s", rec.Code, rec.Body.String())
	}

	var got planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, row := range got.Plan {
		if row.Month == 2 && row.Demand != 42 {
			t.Errorf("edited demand not reflected in regenerated plan: %+v", row)
		}
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	router := newTestRouter(t)
	created := uploadSession(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.SessionID+"/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export returned %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Articles,Month,") {
		t.Errorf("unexpected export body: %s", rec.Body.String())
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope/plan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestUpdateStocksValidation(t *testing.T) {
	router := newTestRouter(t)
	created := uploadSession(t, router)

	payload, _ := json.Marshal(map[string]interface{}{
		"initial_stocks": map[string]float64{"P1": -5},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+created.SessionID+"/stocks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative stock, got %d: %s", rec.Code, rec.Body.String())
	}
}
