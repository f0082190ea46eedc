package survey

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return([]Survey{{Name: "MSSS", BeamsPerField: 9}}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/surveys", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"MSSS"`)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/surveys", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success", func(t *testing.T) {
		first := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		mockRepo.EXPECT().Get(gomock.Any(), "MSSS").Return(Survey{Name: "MSSS"}, nil)
		mockRepo.EXPECT().Counts(gomock.Any(), "MSSS").Return(Counts{Fields: 2, Observed: 1, Beams: 4, FirstObs: &first, LastObs: &first}, nil)
		mockRepo.EXPECT().MapFields(gomock.Any(), "MSSS").Return([]MapField{{Beams: 4, ArchivedBeams: 4}, {}}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/surveys/MSSS", nil)
		r.SetPathValue("name", "MSSS")

		handler.Summary(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"percentage":50`)
		assert.Contains(t, body, `"colour":"y"`)
		assert.Contains(t, body, `"colour":"r"`)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "NOPE").Return(Survey{}, ErrNotFound)
		mockRepo.EXPECT().Counts(gomock.Any(), "NOPE").Return(Counts{}, nil).AnyTimes()
		mockRepo.EXPECT().MapFields(gomock.Any(), "NOPE").Return(nil, nil).AnyTimes()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/surveys/NOPE", nil)
		r.SetPathValue("name", "NOPE")

		handler.Summary(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
