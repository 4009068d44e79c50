package dashboard

import (
	"context"

	"prom_seating_console/models"
)

// Recorder receives an entry per user action. Recording is advisory and
// must not fail the action.
type Recorder interface {
	Record(ctx context.Context, entry models.ActivityLog)
}

type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, entry models.ActivityLog) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, entry)
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.ActivityLog) {}

func record(ctx context.Context, rec Recorder, p *models.Principal, action, target, outcome, msg string) {
	entry := models.ActivityFor(p, action, target)
	entry.Outcome = outcome
	entry.Message = msg
	// 用独立 context，页面请求取消后仍然写审计
	rec.Record(context.WithoutCancel(ctx), entry)
}

const (
	ActionLoginStudent = "login.student"
	ActionLoginAdmin   = "login.admin"
	ActionLogout       = "logout"
	ActionSelectTable  = "table.select"
	ActionMoveStudent  = "student.move"
	ActionUnassign     = "student.unassign"
	ActionUpload       = "roster.upload"
)
