package dashboard

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"prom_seating_console/backend"
	"prom_seating_console/models"
)

// fakeAPI is an in-memory backend. Nil funcs answer with zero values.
type fakeAPI struct {
	me          func() (models.Principal, error)
	loginS      func(backend.StudentLogin) (models.Principal, error)
	loginA      func(backend.AdminLogin) (models.Principal, error)
	tables      func() ([]models.Table, error)
	details     func(id int) (models.TableDetails, error)
	selectTable func(studentID, tableID int) (models.Selection, error)
	assignments func() ([]models.Assignment, error)
	assign      func(studentID int, tableID *int) (string, error)
	upload      func(name string, data []byte) (string, error)

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Me(context.Context) (models.Principal, error) {
	f.hit("me")
	if f.me == nil {
		return models.Principal{}, unauthorized()
	}
	return f.me()
}

func (f *fakeAPI) LoginStudent(_ context.Context, in backend.StudentLogin) (models.Principal, error) {
	f.hit("login.student")
	return f.loginS(in)
}

func (f *fakeAPI) LoginAdmin(_ context.Context, in backend.AdminLogin) (models.Principal, error) {
	f.hit("login.admin")
	return f.loginA(in)
}

func (f *fakeAPI) Logout(context.Context) error {
	f.hit("logout")
	return nil
}

func (f *fakeAPI) Tables(context.Context) ([]models.Table, error) {
	f.hit("tables")
	if f.tables == nil {
		return nil, nil
	}
	return f.tables()
}

func (f *fakeAPI) TableStudents(_ context.Context, id int) (models.TableDetails, error) {
	f.hit("details:" + strconv.Itoa(id))
	if f.details == nil {
		return models.TableDetails{TableID: id, TableNumber: id}, nil
	}
	return f.details(id)
}

func (f *fakeAPI) SelectTable(_ context.Context, studentID, tableID int) (models.Selection, error) {
	f.hit("select")
	return f.selectTable(studentID, tableID)
}

func (f *fakeAPI) Assignments(context.Context) ([]models.Assignment, error) {
	f.hit("assignments")
	if f.assignments == nil {
		return nil, nil
	}
	return f.assignments()
}

func (f *fakeAPI) Assign(_ context.Context, studentID int, tableID *int) (string, error) {
	f.hit("assign")
	return f.assign(studentID, tableID)
}

func (f *fakeAPI) UploadStudents(_ context.Context, name string, r io.Reader) (string, error) {
	f.hit("upload")
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return f.upload(name, data)
}

// memCarry is a CarryOver held in memory.
type memCarry struct {
	mu sync.Mutex
	p  *models.Principal
}

func (c *memCarry) Put(_ context.Context, p models.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.p = &p
	return nil
}

func (c *memCarry) Take(context.Context) (models.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.p == nil {
		return models.Principal{}, false
	}
	p := *c.p
	c.p = nil
	return p, true
}

type memRecorder struct {
	mu      sync.Mutex
	entries []models.ActivityLog
}

func (r *memRecorder) Record(_ context.Context, e models.ActivityLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *memRecorder) last() models.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return models.ActivityLog{}
	}
	return r.entries[len(r.entries)-1]
}

func unauthorized() error {
	return &backend.APIError{Method: http.MethodGet, Path: "/api/users/me", StatusCode: http.StatusUnauthorized, Message: "Not authenticated"}
}

func rejected(status int, msg string) error {
	return &backend.APIError{Method: http.MethodPut, Path: "/api", StatusCode: status, Message: msg}
}

func intp(n int) *int { return &n }

func student(id int, table *int) models.Principal {
	return models.Principal{ID: id, FirstName: "Ada", LastName: "Lovelace", Role: models.RoleStudent, AssignedTableID: table}
}

func admin() models.Principal {
	return models.Principal{ID: 1, Username: "staff", Role: models.RoleAdmin}
}

func openTables(n int) []models.Table {
	out := make([]models.Table, n)
	for i := range out {
		out[i] = models.Table{ID: i + 1, TableNumber: i + 1, Capacity: 10, CurrentOccupancy: 2}
	}
	return out
}

// xlsxBytes builds a minimal zip container named like a workbook.
func xlsxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"_rels/.rels":         `<?xml version="1.0"?><Relationships/>`,
		"xl/workbook.xml":     `<?xml version="1.0"?><workbook/>`,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
