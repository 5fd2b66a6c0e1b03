package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/handler"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
)

// --- MOCK SERVICE ---

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) ListAlerts(ctx context.Context, filters dto.AlertFilters) (*dto.AlertListResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AlertListResponse), args.Error(1)
}

func (m *MockAlertService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertService) CreateAlert(ctx context.Context, input dto.CreateAlertDTO) (*models.Alert, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertService) UpdateAlertStatus(ctx context.Context, id uuid.UUID, status string) (*models.Alert, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertService) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAlertService) GetStats(ctx context.Context) (*dto.AlertStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AlertStats), args.Error(1)
}

// --- SETUP ---

func setupAlertRouter(mockService *MockAlertService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAlertHandler(mockService)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

// --- TESTS ---

func TestAlertHandler_List(t *testing.T) {
	mockService := new(MockAlertService)
	r := setupAlertRouter(mockService)

	expected := &dto.AlertListResponse{
		Alerts: []models.Alert{
			{ID: uuid.New(), FacilityID: "facility_a", Severity: models.SeverityCritical, Title: "Unauthorized Modbus write"},
			{ID: uuid.New(), FacilityID: "facility_b", Severity: models.SeverityHigh, Title: "Failed DNP3 auth spike"},
		},
		Total: 2,
		Page:  1,
		Pages: 1,
		Limit: 20,
	}

	t.Run("Success", func(t *testing.T) {
		mockService.On("ListAlerts", mock.Anything, mock.MatchedBy(func(f dto.AlertFilters) bool {
			return f.Severity == "all" && f.Page == 1 && f.Limit == 20
		})).Return(expected, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/alerts", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.AlertListResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response.Alerts, 2)
		assert.Equal(t, int64(2), response.Total)
		assert.Equal(t, "Unauthorized Modbus write", response.Alerts[0].Title)
	})

	t.Run("FiltersForwarded", func(t *testing.T) {
		mockService.On("ListAlerts", mock.Anything, mock.MatchedBy(func(f dto.AlertFilters) bool {
			return f.Severity == "critical" && f.Facility == "Facility A" && f.TimeRange == "Last 24 hours"
		})).Return(expected, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/alerts?severity=critical&facility=Facility+A&time_range=Last+24+hours", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAlertHandler_Create(t *testing.T) {
	mockService := new(MockAlertService)
	r := setupAlertRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		created := &models.Alert{ID: uuid.New(), FacilityID: "facility_a", Severity: models.SeverityCritical, Title: "PLC write anomaly", Status: models.AlertStatusNew}
		mockService.On("CreateAlert", mock.Anything, mock.Anything).Return(created, nil).Once()

		body, _ := json.Marshal(dto.CreateAlertDTO{
			FacilityID: "facility_a",
			Severity:   "critical",
			Title:      "PLC write anomaly",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/alerts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response models.Alert
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "PLC write anomaly", response.Title)
		assert.Equal(t, models.AlertStatusNew, response.Status)
	})

	t.Run("InvalidSeverity", func(t *testing.T) {
		body := []byte(`{"facility_id": "facility_a", "severity": "catastrophic", "title": "x"}`)
		req, _ := http.NewRequest(http.MethodPost, "/api/alerts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateAlert")
	})

	t.Run("MissingTitle", func(t *testing.T) {
		body := []byte(`{"facility_id": "facility_a", "severity": "low"}`)
		req, _ := http.NewRequest(http.MethodPost, "/api/alerts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAlertHandler_Get(t *testing.T) {
	mockService := new(MockAlertService)
	r := setupAlertRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		mockService.On("GetAlert", mock.Anything, id).Return(&models.Alert{ID: id, Title: "RTU firmware drift"}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/alerts/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		id := uuid.New()
		mockService.On("GetAlert", mock.Anything, id).Return(nil, repository.ErrNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/alerts/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/alerts/not-a-uuid", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAlertHandler_UpdateStatus(t *testing.T) {
	mockService := new(MockAlertService)
	r := setupAlertRouter(mockService)

	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		updated := &models.Alert{ID: id, Status: models.AlertStatusAcknowledged}
		mockService.On("UpdateAlertStatus", mock.Anything, id, "acknowledged").Return(updated, nil).Once()

		body := []byte(`{"status": "acknowledged"}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/alerts/"+id.String()+"/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response models.Alert
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, models.AlertStatusAcknowledged, response.Status)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		body := []byte(`{"status": "ignored"}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/alerts/"+id.String()+"/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdateAlertStatus")
	})

	t.Run("NotFound", func(t *testing.T) {
		missing := uuid.New()
		mockService.On("UpdateAlertStatus", mock.Anything, missing, "resolved").Return(nil, repository.ErrNotFound).Once()

		body := []byte(`{"status": "resolved"}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/alerts/"+missing.String()+"/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAlertHandler_GetStats(t *testing.T) {
	mockService := new(MockAlertService)
	r := setupAlertRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("GetStats", mock.Anything).Return(&dto.AlertStats{Total: 12, Critical: 3, Unresolved: 7, FalsePositives: 1}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/alerts/stats", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.AlertStats
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, int64(12), response.Total)
		assert.Equal(t, int64(3), response.Critical)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService.On("GetStats", mock.Anything).Return(nil, errors.New("db down")).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/alerts/stats", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAlertHandler_Delete(t *testing.T) {
	mockService := new(MockAlertService)
	r := setupAlertRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		mockService.On("DeleteAlert", mock.Anything, id).Return(nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/alerts/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		id := uuid.New()
		mockService.On("DeleteAlert", mock.Anything, id).Return(repository.ErrNotFound).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/alerts/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
