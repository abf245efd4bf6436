package planning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/planboard/internal/task"
)

func TestClient_Move(t *testing.T) {
	var got MoveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RouteMove, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	res, err := c.Move(context.Background(), MoveRequest{TaskID: "T1", OperatorID: 2, StartSlot: 10})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, MoveRequest{TaskID: "T1", OperatorID: 2, StartSlot: 10}, got)
}

func TestClient_ResizeOmitsOptionalFields(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Resize(context.Background(), ResizeRequest{TaskID: "T1", Duration: 3})
	require.NoError(t, err)

	assert.Equal(t, "T1", raw["task_id"])
	assert.EqualValues(t, 3, raw["duration"])
	assert.NotContains(t, raw, "start_slot")
	assert.NotContains(t, raw, "operator_id")
}

func TestClient_ServerRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":"not enough room to place the task"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Move(context.Background(), MoveRequest{TaskID: "T1"})

	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusConflict, se.Status)
	assert.Equal(t, "not enough room to place the task", se.Error())
	require.NotNil(t, res)
	assert.False(t, res.Success)
}

func TestClient_SuccessFalseWithOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).KeyboardMove(context.Background(), KeyboardMoveRequest{TaskID: "T1", Direction: "left"})

	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, se.Message)
	assert.Contains(t, se.Error(), "refused")
}

func TestClient_KeyboardMoveResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"new_slot":4,"new_operator_id":2,"blocked":true}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).KeyboardMove(context.Background(), KeyboardMoveRequest{TaskID: "T1", Direction: "left"})
	require.NoError(t, err)
	require.NotNil(t, res.NewSlot)
	require.NotNil(t, res.NewOperatorID)
	assert.Equal(t, 4, *res.NewSlot)
	assert.Equal(t, 2, *res.NewOperatorID)
	assert.True(t, res.Blocked)
}

func TestClient_Snapshot(t *testing.T) {
	want := task.Snapshot{
		Tasks:     []task.Task{{ID: "T1", OperatorID: 1, StartSlot: 0, Duration: 2}},
		Operators: []task.Operator{{ID: 1, Name: "Jean"}},
		Jobs:      []task.Job{{ID: 1, Name: "Alpha"}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, RouteSnapshot, r.URL.Path)
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.Tasks, got.Tasks)
	assert.Equal(t, want.Operators, got.Operators)
}

func TestClient_SnapshotErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "database is locked", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Snapshot(context.Background())
		var se *ServerError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "database is locked", se.Message)
	})

	t.Run("not json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Snapshot(context.Background())
		assert.ErrorIs(t, err, ErrBadResponse)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url).Snapshot(context.Background())
		require.Error(t, err)
		var se *ServerError
		assert.False(t, errors.As(err, &se))
	})
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := c.Reload(context.Background())
	require.Error(t, err)
}

func TestClient_Reload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RouteReload, r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"message":"Data reloaded: 16 tasks"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Data reloaded: 16 tasks", res.Message)
}
