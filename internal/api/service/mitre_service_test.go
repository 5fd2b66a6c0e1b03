package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/api/service"
)

type MockGraphStore struct {
	mock.Mock
}

func (m *MockGraphStore) AttackGraph(ctx context.Context) (*models.AttackGraph, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttackGraph), args.Error(1)
}

func (m *MockGraphStore) Techniques(ctx context.Context) ([]models.TechniqueDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.TechniqueDetails), args.Error(1)
}

func (m *MockGraphStore) TechniqueByID(ctx context.Context, id string) (*models.TechniqueDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TechniqueDetails), args.Error(1)
}

func (m *MockGraphStore) MarkDetected(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) EmitAlertCreated(data interface{})    { m.Called(data) }
func (m *MockEmitter) EmitAlertUpdated(data interface{})    { m.Called(data) }
func (m *MockEmitter) EmitFLProgress(data interface{})      { m.Called(data) }
func (m *MockEmitter) EmitAttackDetected(data interface{})  { m.Called(data) }
func (m *MockEmitter) EmitDashboardUpdate(data interface{}) { m.Called(data) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMitreService_RecordDetection(t *testing.T) {
	t.Run("MarksAndEmits", func(t *testing.T) {
		store := new(MockGraphStore)
		emitter := new(MockEmitter)
		svc := service.NewMitreService(store, emitter, discardLogger())

		store.On("MarkDetected", mock.Anything, "T0886").Return(nil).Once()
		emitter.On("EmitAttackDetected", mock.MatchedBy(func(data interface{}) bool {
			event, ok := data.(*dto.AttackDetectedEvent)
			return ok && event.TechniqueID == "T0886" && !event.Timestamp.IsZero()
		})).Once()

		event, err := svc.RecordDetection(context.Background(), dto.AttackDetectionDTO{
			TechniqueID:   "T0886",
			TechniqueName: "Remote Services",
			Confidence:    0.93,
			Type:          "current",
		})
		require.NoError(t, err)
		assert.Equal(t, "Remote Services", event.TechniqueName)

		store.AssertExpectations(t)
		emitter.AssertExpectations(t)
	})

	t.Run("GraphFailureSkipsEmit", func(t *testing.T) {
		store := new(MockGraphStore)
		emitter := new(MockEmitter)
		svc := service.NewMitreService(store, emitter, discardLogger())

		store.On("MarkDetected", mock.Anything, "T0000").Return(errors.New("node missing")).Once()

		_, err := svc.RecordDetection(context.Background(), dto.AttackDetectionDTO{TechniqueID: "T0000"})
		assert.Error(t, err)
		emitter.AssertNotCalled(t, "EmitAttackDetected")
	})
}

func TestMitreService_GetTechnique(t *testing.T) {
	store := new(MockGraphStore)
	emitter := new(MockEmitter)
	svc := service.NewMitreService(store, emitter, discardLogger())

	// unknown technique passes the nil through for the handler's 404
	store.On("TechniqueByID", mock.Anything, "T9999").Return(nil, nil).Once()

	technique, err := svc.GetTechnique(context.Background(), "T9999")
	require.NoError(t, err)
	assert.Nil(t, technique)
}
