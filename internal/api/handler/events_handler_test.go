package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Federated-ICS/backend-webapp/internal/api/handler"
)

// --- MOCK EMITTER ---

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) EmitAlertCreated(data interface{})    { m.Called(data) }
func (m *MockEmitter) EmitAlertUpdated(data interface{})    { m.Called(data) }
func (m *MockEmitter) EmitFLProgress(data interface{})      { m.Called(data) }
func (m *MockEmitter) EmitAttackDetected(data interface{})  { m.Called(data) }
func (m *MockEmitter) EmitDashboardUpdate(data interface{}) { m.Called(data) }

func setupEventsRouter(emitter *MockEmitter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewEventsHandler(emitter)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func TestEventsHandler_Triggers(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		method string
	}{
		{"EmitAlertCreated", "/api/events/test/alert", "EmitAlertCreated"},
		{"EmitAlertUpdated", "/api/events/test/alert-updated", "EmitAlertUpdated"},
		{"EmitFLProgress", "/api/events/test/fl-progress", "EmitFLProgress"},
		{"EmitAttackDetected", "/api/events/test/attack", "EmitAttackDetected"},
		{"EmitDashboardUpdate", "/api/events/test/dashboard", "EmitDashboardUpdate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			emitter := new(MockEmitter)
			r := setupEventsRouter(emitter)
			emitter.On(tc.method, mock.Anything).Once()

			req, _ := http.NewRequest(http.MethodPost, tc.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			emitter.AssertExpectations(t)
		})
	}
}
