package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"prom_seating_console/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return NewRepo(gdb, nil)
}

func TestRecordAndList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	actor := 4
	base := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		r.Record(ctx, models.ActivityLog{
			Action:    "table.select",
			Role:      models.RoleStudent,
			ActorID:   &actor,
			Target:    fmt.Sprint(i + 1),
			Outcome:   models.OutcomeSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	r.Record(ctx, models.ActivityLog{Action: "roster.upload", Outcome: models.OutcomeFailed, CreatedAt: base})

	page, err := r.ListActivity(ctx, ActivityQuery{Action: "table.select", Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || len(page.Entries) != 2 {
		t.Fatalf("total=%d entries=%d", page.Total, len(page.Entries))
	}
	if page.Entries[0].Target != "5" {
		t.Fatalf("newest first broken: %+v", page.Entries[0])
	}
	if page.Entries[0].ID == "" {
		t.Fatal("id not generated")
	}

	failed, err := r.ListActivity(ctx, ActivityQuery{Outcome: models.OutcomeFailed})
	if err != nil {
		t.Fatal(err)
	}
	if failed.Total != 1 || failed.Entries[0].Action != "roster.upload" {
		t.Fatalf("failed = %+v", failed)
	}

	mine, err := r.ListActivity(ctx, ActivityQuery{ActorID: &actor, Page: 3, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Entries) != 1 || mine.Page != 3 {
		t.Fatalf("page 3 = %+v", mine)
	}
}

func TestListDefaultsPageSize(t *testing.T) {
	r := newTestRepo(t)
	page, err := r.ListActivity(context.Background(), ActivityQuery{Size: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if page.Size != 20 || page.Page != 1 || page.Entries == nil {
		t.Fatalf("page = %+v", page)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect("mysql", ""); err == nil {
		t.Fatal("want error")
	}
}
