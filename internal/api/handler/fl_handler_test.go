package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/Federated-ICS/backend-webapp/internal/api/service"
)

// --- MOCK SERVICE ---

type MockFLService struct {
	mock.Mock
}

func (m *MockFLService) GetCurrentRound(ctx context.Context) (*models.FLRound, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLRound), args.Error(1)
}

func (m *MockFLService) GetRound(ctx context.Context, id int64) (*models.FLRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLRound), args.Error(1)
}

func (m *MockFLService) ListRounds(ctx context.Context, limit, offset int) (*dto.RoundListResponse, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RoundListResponse), args.Error(1)
}

func (m *MockFLService) TriggerRound(ctx context.Context) (*models.FLRound, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLRound), args.Error(1)
}

func (m *MockFLService) UpdateRoundProgress(ctx context.Context, id int64, input dto.RoundProgressDTO) (*models.FLRound, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLRound), args.Error(1)
}

func (m *MockFLService) CompleteRound(ctx context.Context, id int64, input dto.CompleteRoundDTO) (*models.FLRound, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLRound), args.Error(1)
}

func (m *MockFLService) ListClients(ctx context.Context) ([]models.FLClient, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FLClient), args.Error(1)
}

func (m *MockFLService) GetClient(ctx context.Context, id uuid.UUID) (*models.FLClient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLClient), args.Error(1)
}

func (m *MockFLService) UpdateClient(ctx context.Context, id uuid.UUID, input dto.ClientUpdateDTO) (*models.FLClient, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FLClient), args.Error(1)
}

func (m *MockFLService) GetPrivacyMetrics(ctx context.Context) (*dto.PrivacyMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PrivacyMetrics), args.Error(1)
}

// --- SETUP ---

func setupFLRouter(mockService *MockFLService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewFLHandler(mockService)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

// --- TESTS ---

func TestFLHandler_GetCurrentRound(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	t.Run("ActiveRound", func(t *testing.T) {
		round := &models.FLRound{ID: 1, RoundNumber: 7, Status: models.RoundStatusInProgress, Phase: models.PhaseTraining, Progress: 40}
		mockService.On("GetCurrentRound", mock.Anything).Return(round, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/fl/rounds/current", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response models.FLRound
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, 7, response.RoundNumber)
		assert.Equal(t, models.PhaseTraining, response.Phase)
	})

	t.Run("NoRoundsYet", func(t *testing.T) {
		mockService.On("GetCurrentRound", mock.Anything).Return(nil, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/fl/rounds/current", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})
}

func TestFLHandler_TriggerRound(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		round := &models.FLRound{ID: 2, RoundNumber: 8, Status: models.RoundStatusInProgress, Phase: models.PhaseDistributing}
		mockService.On("TriggerRound", mock.Anything).Return(round, nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/fl/rounds", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("AlreadyRunning", func(t *testing.T) {
		mockService.On("TriggerRound", mock.Anything).Return(nil, service.ErrRoundInProgress).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/fl/rounds", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestFLHandler_UpdateRoundProgress(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		round := &models.FLRound{ID: 3, RoundNumber: 8, Progress: 60, Phase: models.PhaseTraining}
		mockService.On("UpdateRoundProgress", mock.Anything, int64(3), mock.MatchedBy(func(d dto.RoundProgressDTO) bool {
			return d.Progress == 60 && d.Phase != nil && *d.Phase == "training"
		})).Return(round, nil).Once()

		body := []byte(`{"progress": 60, "phase": "training"}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/fl/rounds/3/progress", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ProgressOutOfRange", func(t *testing.T) {
		body := []byte(`{"progress": 140}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/fl/rounds/3/progress", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdateRoundProgress")
	})

	t.Run("RoundNotFound", func(t *testing.T) {
		mockService.On("UpdateRoundProgress", mock.Anything, int64(99), mock.Anything).Return(nil, repository.ErrNotFound).Once()

		body := []byte(`{"progress": 10}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/fl/rounds/99/progress", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFLHandler_CompleteRound(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		accuracy := 0.97
		round := &models.FLRound{ID: 4, RoundNumber: 8, Status: models.RoundStatusCompleted, Phase: models.PhaseComplete, Progress: 100, ModelAccuracy: &accuracy}
		mockService.On("CompleteRound", mock.Anything, int64(4), dto.CompleteRoundDTO{ModelAccuracy: 0.97}).Return(round, nil).Once()

		body := []byte(`{"model_accuracy": 0.97}`)
		req, _ := http.NewRequest(http.MethodPost, "/api/fl/rounds/4/complete", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response models.FLRound
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, 100, response.Progress)
		assert.Equal(t, models.RoundStatusCompleted, response.Status)
	})

	t.Run("MissingAccuracy", func(t *testing.T) {
		body := []byte(`{}`)
		req, _ := http.NewRequest(http.MethodPost, "/api/fl/rounds/4/complete", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFLHandler_ListClients(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		clients := []models.FLClient{
			{ID: uuid.New(), FacilityID: "facility_a", Name: "Facility A", Status: models.ClientStatusActive, Progress: 55},
			{ID: uuid.New(), FacilityID: "facility_b", Name: "Facility B", Status: models.ClientStatusDelayed, Progress: 30},
		}
		mockService.On("ListClients", mock.Anything).Return(clients, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/fl/clients", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string][]models.FLClient
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response["clients"], 2)
		assert.Equal(t, "Facility A", response["clients"][0].Name)
	})

	t.Run("EmptyWhenNoRound", func(t *testing.T) {
		mockService.On("ListClients", mock.Anything).Return([]models.FLClient{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/fl/clients", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string][]models.FLClient
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Empty(t, response["clients"])
	})
}

func TestFLHandler_UpdateClient(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	id := uuid.New()

	t.Run("PartialUpdate", func(t *testing.T) {
		progress := 80
		client := &models.FLClient{ID: id, FacilityID: "facility_c", Progress: 80}
		mockService.On("UpdateClient", mock.Anything, id, mock.MatchedBy(func(d dto.ClientUpdateDTO) bool {
			return d.Progress != nil && *d.Progress == progress && d.Status == nil
		})).Return(client, nil).Once()

		body := []byte(`{"progress": 80}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/fl/clients/"+id.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		body := []byte(`{"status": "sleeping"}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/fl/clients/"+id.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFLHandler_GetPrivacyMetrics(t *testing.T) {
	mockService := new(MockFLService)
	r := setupFLRouter(mockService)

	mockService.On("GetPrivacyMetrics", mock.Anything).Return(&dto.PrivacyMetrics{Epsilon: 0.5, Delta: "1e-5"}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/fl/privacy", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PrivacyMetrics
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 0.5, response.Epsilon)
}
