package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/scheduler"
	"github.com/javiermolinar/planboard/internal/task"
)

func (s *Server) handleMove(c *gin.Context) {
	var req planning.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TaskID == "" {
		fail(c, http.StatusBadRequest, task.ErrEmptyID.Error())
		return
	}

	err := s.mutate(c.Request.Context(), func(b *scheduler.Board) error {
		return b.Move(req.TaskID, req.OperatorID, req.StartSlot)
	})
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, planning.Result{Success: true})
}

func (s *Server) handleResize(c *gin.Context) {
	var req planning.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.resize(c, req)
}

func (s *Server) handleResizeAndMove(c *gin.Context) {
	var req planning.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StartSlot == nil || req.OperatorID == nil {
		fail(c, http.StatusBadRequest, "start_slot and operator_id are required")
		return
	}
	s.resize(c, req)
}

func (s *Server) resize(c *gin.Context, req planning.ResizeRequest) {
	if req.TaskID == "" {
		fail(c, http.StatusBadRequest, task.ErrEmptyID.Error())
		return
	}
	if (req.StartSlot == nil) != (req.OperatorID == nil) {
		fail(c, http.StatusBadRequest, "start_slot and operator_id must be sent together")
		return
	}

	err := s.mutate(c.Request.Context(), func(b *scheduler.Board) error {
		if req.StartSlot != nil {
			return b.ResizeAndMove(req.TaskID, *req.OperatorID, *req.StartSlot, req.Duration)
		}
		return b.Resize(req.TaskID, req.Duration)
	})
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, planning.Result{Success: true})
}

func (s *Server) handleKeyboardMove(c *gin.Context) {
	var req planning.KeyboardMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	dir, err := task.ParseDirection(req.Direction)
	if err != nil {
		failErr(c, err)
		return
	}

	var res scheduler.KeyboardResult
	err = s.mutate(c.Request.Context(), func(b *scheduler.Board) error {
		var err error
		res, err = b.KeyboardMove(req.TaskID, dir)
		return err
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, planning.Result{
		Success:       true,
		NewSlot:       &res.NewSlot,
		NewOperatorID: &res.NewOperatorID,
		Blocked:       res.Blocked,
	})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	snap, err := s.repo.Snapshot(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleReload(c *gin.Context) {
	n, err := s.Reload(c.Request.Context())
	if err != nil {
		s.logger.Printf("reload failed: %v", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, planning.Result{
		Success: true,
		Message: fmt.Sprintf("Data reloaded: %d tasks", n),
	})
}

// handleDebugTasks lists every task with its calendar span.
func (s *Server) handleDebugTasks(c *gin.Context) {
	snap, err := s.repo.Snapshot(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]gin.H, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		first, last := s.geometry.Span(t.StartSlot, t.Duration)
		out = append(out, gin.H{
			"id":          t.ID,
			"name":        t.Name,
			"operator_id": t.OperatorID,
			"start_slot":  t.StartSlot,
			"duration":    t.Duration,
			"start":       first.Label(),
			"end":         last.Label(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// mutate applies fn to a working board built from the stored snapshot and
// saves the tasks it changed.
func (s *Server) mutate(ctx context.Context, fn func(b *scheduler.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading board: %w", err)
	}

	b := scheduler.NewBoard(snap, s.geometry.TotalSlots)
	if err := fn(b); err != nil {
		return err
	}
	if err := s.repo.SaveTasks(ctx, b.Changed()); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, planning.Result{Success: false, Error: msg})
}

func failErr(c *gin.Context, err error) {
	fail(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, task.ErrOperatorNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrNoRoom):
		return http.StatusConflict
	case errors.Is(err, task.ErrEmptyID),
		errors.Is(err, task.ErrNegativeStart),
		errors.Is(err, task.ErrInvalidDuration),
		errors.Is(err, task.ErrOutOfRange),
		errors.Is(err, task.ErrInvalidOperator),
		errors.Is(err, task.ErrInvalidDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
