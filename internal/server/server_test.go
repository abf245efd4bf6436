package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/planboard/internal/db"
	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

func testBoard() *task.Snapshot {
	return &task.Snapshot{
		Operators: []task.Operator{{ID: 1, Name: "Jean"}, {ID: 2, Name: "Marie"}},
		Jobs:      []task.Job{{ID: 1, Name: "Alpha", Color: "#FF6B6B"}},
		Tasks: []task.Task{
			{ID: "T1", OperatorID: 1, StartSlot: 0, Duration: 4, JobID: 1, Name: "Analyse"},
			{ID: "T2", OperatorID: 2, StartSlot: 10, Duration: 3, JobID: 1, Name: "Dev"},
			{ID: "T3", OperatorID: 2, StartSlot: 13, Duration: 2, JobID: 1, Name: "Tests"},
		},
	}
}

type testServer struct {
	srv  *Server
	repo *db.SQLite
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Replace(context.Background(), testBoard()))

	srv := New(repo, Options{
		Geometry: slot.New(4, 60, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)),
		Seed: func(context.Context) (*task.Snapshot, error) {
			return db.DemoSnapshot(), nil
		},
		Logger: log.New(io.Discard, "", 0),
	})
	return &testServer{srv: srv, repo: repo}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, planning.Result) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	var res planning.Result
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	return rec, res
}

func (ts *testServer) task(t *testing.T, id string) *task.Task {
	t.Helper()
	got, err := ts.repo.GetTask(context.Background(), id)
	require.NoError(t, err)
	return got
}

func TestMoveTask(t *testing.T) {
	ts := newTestServer(t)

	rec, res := ts.do(t, http.MethodPost, planning.RouteMove, planning.MoveRequest{
		TaskID: "T1", OperatorID: 2, StartSlot: 10,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)

	moved := ts.task(t, "T1")
	assert.Equal(t, 2, moved.OperatorID)
	assert.Equal(t, 10, moved.StartSlot)

	// T2 and T3 are pushed right behind T1.
	assert.Equal(t, 14, ts.task(t, "T2").StartSlot)
	assert.Equal(t, 17, ts.task(t, "T3").StartSlot)
}

func TestMoveTask_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
		code int
	}{
		{"missing id", planning.MoveRequest{OperatorID: 1}, http.StatusBadRequest},
		{"unknown task", planning.MoveRequest{TaskID: "nope", OperatorID: 1}, http.StatusNotFound},
		{"unknown operator", planning.MoveRequest{TaskID: "T1", OperatorID: 42}, http.StatusNotFound},
		{"flush with axis end", planning.MoveRequest{TaskID: "T1", OperatorID: 2, StartSlot: 56}, http.StatusOK},
		{"bad json", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, res := ts.do(t, http.MethodPost, planning.RouteMove, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			if tt.code != http.StatusOK {
				assert.False(t, res.Success)
				assert.NotEmpty(t, res.Error)
			}
		})
	}
}

func TestResizeTask(t *testing.T) {
	ts := newTestServer(t)

	rec, res := ts.do(t, http.MethodPost, planning.RouteResize, planning.ResizeRequest{TaskID: "T2", Duration: 5})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)

	assert.Equal(t, 5, ts.task(t, "T2").Duration)
	assert.Equal(t, 15, ts.task(t, "T3").StartSlot)
}

func TestResizeTask_Invalid(t *testing.T) {
	ts := newTestServer(t)

	rec, res := ts.do(t, http.MethodPost, planning.RouteResize, planning.ResizeRequest{TaskID: "T2", Duration: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, res.Success)

	rec, _ = ts.do(t, http.MethodPost, planning.RouteResize, planning.ResizeRequest{TaskID: "T2", Duration: 51})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	start := 3
	rec, _ = ts.do(t, http.MethodPost, planning.RouteResize, planning.ResizeRequest{TaskID: "T2", Duration: 2, StartSlot: &start})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 3, ts.task(t, "T2").Duration)
}

func TestResizeAndMove(t *testing.T) {
	ts := newTestServer(t)
	start, op := 20, 1

	for _, route := range []string{planning.RouteResize, planning.RouteResizeAndMove} {
		rec, res := ts.do(t, http.MethodPost, route, planning.ResizeRequest{
			TaskID: "T3", Duration: 4, StartSlot: &start, OperatorID: &op,
		})
		require.Equal(t, http.StatusOK, rec.Code, route)
		assert.True(t, res.Success)

		got := ts.task(t, "T3")
		assert.Equal(t, 1, got.OperatorID)
		assert.Equal(t, 20, got.StartSlot)
		assert.Equal(t, 4, got.Duration)
	}

	rec, _ := ts.do(t, http.MethodPost, planning.RouteResizeAndMove, planning.ResizeRequest{TaskID: "T3", Duration: 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeyboardMoveTask(t *testing.T) {
	ts := newTestServer(t)

	rec, res := ts.do(t, http.MethodPost, planning.RouteKeyboardMove, planning.KeyboardMoveRequest{
		TaskID: "T2", Direction: "right",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	require.NotNil(t, res.NewSlot)
	assert.Equal(t, 11, *res.NewSlot)
	assert.False(t, res.Blocked)
	assert.Equal(t, 14, ts.task(t, "T3").StartSlot)

	_, res = ts.do(t, http.MethodPost, planning.RouteKeyboardMove, planning.KeyboardMoveRequest{
		TaskID: "T1", Direction: "down",
	})
	assert.True(t, res.Success)
	require.NotNil(t, res.NewOperatorID)
	assert.Equal(t, 2, *res.NewOperatorID)

	rec, res = ts.do(t, http.MethodPost, planning.RouteKeyboardMove, planning.KeyboardMoveRequest{
		TaskID: "T1", Direction: "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, res.Success)
}

func TestKeyboardMoveTask_Blocked(t *testing.T) {
	ts := newTestServer(t)

	// T1 sits at slot 0: moving left is a no-op, not a failure.
	_, res := ts.do(t, http.MethodPost, planning.RouteKeyboardMove, planning.KeyboardMoveRequest{
		TaskID: "T1", Direction: "left",
	})
	assert.True(t, res.Success)
	require.NotNil(t, res.NewSlot)
	assert.Equal(t, 0, *res.NewSlot)
}

func TestGetPlanningData(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, planning.RouteSnapshot, nil)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var snap task.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Tasks, 3)
	assert.Len(t, snap.Operators, 2)
	assert.Len(t, snap.Jobs, 1)
}

func TestReloadData(t *testing.T) {
	ts := newTestServer(t)

	rec, res := ts.do(t, http.MethodPost, planning.RouteReload, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "16 tasks")

	snap, err := ts.repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Operators, 10)
}

func TestReloadData_SeedFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.srv.seed = func(context.Context) (*task.Snapshot, error) {
		return nil, errors.New("seed file missing")
	}

	rec, res := ts.do(t, http.MethodPost, planning.RouteReload, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "seed file missing")

	// The stored board is untouched.
	snap, err := ts.repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Tasks, 3)
}

func TestDebugTasks(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/debug_tasks", nil)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "11/08 AM", rows[0]["start"])
	assert.Equal(t, "12/08 PM", rows[0]["end"])
}
