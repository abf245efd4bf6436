package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/task"
)

type fakeSource struct {
	snap      *task.Snapshot
	snapErr   error
	reload    *planning.Result
	reloadErr error
	deadline  bool
}

func (f *fakeSource) Snapshot(ctx context.Context) (*task.Snapshot, error) {
	_, f.deadline = ctx.Deadline()
	return f.snap, f.snapErr
}

func (f *fakeSource) Reload(ctx context.Context) (*planning.Result, error) {
	_, f.deadline = ctx.Deadline()
	return f.reload, f.reloadErr
}

func TestLoadSnapshot(t *testing.T) {
	snap := &task.Snapshot{Tasks: []task.Task{{ID: "T1"}}}
	src := &fakeSource{snap: snap}

	msg := LoadSnapshot(src, time.Second)()
	loaded, ok := msg.(SnapshotLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SnapshotLoadedMsg", msg)
	}
	if loaded.Snapshot != snap {
		t.Error("snapshot not passed through")
	}
	if !src.deadline {
		t.Error("request should carry a deadline")
	}
}

func TestLoadSnapshot_Error(t *testing.T) {
	src := &fakeSource{snapErr: errors.New("connection refused")}

	msg := LoadSnapshot(src, time.Second)()
	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("msg = %T, want ErrMsg", msg)
	}
	if !strings.Contains(errMsg.Err.Error(), "connection refused") {
		t.Errorf("err = %v", errMsg.Err)
	}
}

func TestReloadData(t *testing.T) {
	tests := []struct {
		name    string
		result  *planning.Result
		err     error
		wantMsg string
		wantErr bool
	}{
		{"server message", &planning.Result{Success: true, Message: "Data reloaded: 12 tasks"}, nil, "Data reloaded: 12 tasks", false},
		{"default message", &planning.Result{Success: true}, nil, "Data reloaded", false},
		{"failure", nil, errors.New("boom"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ReloadData(&fakeSource{reload: tt.result, reloadErr: tt.err}, time.Second)()
			if tt.wantErr {
				if _, ok := msg.(ErrMsg); !ok {
					t.Fatalf("msg = %T, want ErrMsg", msg)
				}
				return
			}
			got, ok := msg.(DataReloadedMsg)
			if !ok {
				t.Fatalf("msg = %T, want DataReloadedMsg", msg)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestCopyToClipboard(t *testing.T) {
	orig := clipboardWrite
	t.Cleanup(func() { clipboardWrite = orig })

	var written string
	clipboardWrite = func(s string) error {
		written = s
		return nil
	}
	msg := CopyToClipboard("https://odoo/42", "link")()
	status, ok := msg.(StatusMsgCmd)
	if !ok || status.Error || status.Msg != "Copied link" {
		t.Fatalf("msg = %+v", msg)
	}
	if written != "https://odoo/42" {
		t.Errorf("clipboard = %q", written)
	}

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	msg = CopyToClipboard("x", "link")()
	if status, ok := msg.(StatusMsgCmd); !ok || !status.Error {
		t.Errorf("msg = %+v, want an error status", msg)
	}
}
