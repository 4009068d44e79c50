package db

import (
	"context"
	"fmt"

	"prom_seating_console/models"
)

func (r *Repo) LogActivity(ctx context.Context, entry *models.ActivityLog) error {
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// Record 写审计；失败只打日志，不影响页面操作
func (r *Repo) Record(ctx context.Context, entry models.ActivityLog) {
	if err := r.LogActivity(ctx, &entry); err != nil {
		r.log.Warningf("%v", err)
	}
}

type ActivityQuery struct {
	Action  string
	Outcome string
	ActorID *int
	Page    int
	Size    int
}

type ActivityPage struct {
	Entries []models.ActivityLog `json:"entries"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	Size    int                  `json:"size"`
}

// ListActivity 分页，最新的在前
func (r *Repo) ListActivity(ctx context.Context, q ActivityQuery) (ActivityPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.ActivityLog{})
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Outcome != "" {
		tx = tx.Where("outcome = ?", q.Outcome)
	}
	if q.ActorID != nil {
		tx = tx.Where("actor_id = ?", *q.ActorID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ActivityPage{}, err
	}
	entries := []models.ActivityLog{}
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&entries).Error; err != nil {
		return ActivityPage{}, err
	}
	return ActivityPage{Entries: entries, Total: total, Page: q.Page, Size: q.Size}, nil
}
