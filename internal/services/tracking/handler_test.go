package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderbot/internal/logger"
	"orderbot/internal/order"
	"orderbot/internal/session"
	"orderbot/internal/session/inmem"
)

func TestExtractOrderNumber(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		path   string
		suffix string
		want   string
	}{
		{"/orders/ORD_20260829_001", "", "ORD_20260829_001"},
		{"/orders/ORD_20260829_001/history", "/history", "ORD_20260829_001"},
		{"/orders/ORD_20260829_001/history", "", ""},
		{"/orders/bogus", "", ""},
		{"/orders/", "", ""},
	}

	for _, tt := range tests {
		if got := h.extractOrderNumber(tt.path, tt.suffix); got != tt.want {
			t.Errorf("extractOrderNumber(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}

func TestGetSessionEndpoint(t *testing.T) {
	store := inmem.New()
	log := logger.New("tracking-test")
	handler := NewHandler(NewService(nil, store, log), log)
	mux := handler.SetupRoutes()

	key := session.NewKey()
	st := order.NewState()
	st.CurrentStep = order.StepOrderCollection
	if err := store.Save(context.Background(), session.Session{Key: key, State: st}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Run("existing session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+key, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}

		var view SessionView
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if view.Key != key {
			t.Errorf("key = %q, want %q", view.Key, key)
		}
		if view.State.CurrentStep != order.StepOrderCollection {
			t.Errorf("step = %q, want %q", view.State.CurrentStep, order.StepOrderCollection)
		}
		if len(view.AllowedOps) == 0 {
			t.Error("expected allowed operations for order_collection")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+key, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}
