package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSessionCookieIsReplayed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login/student", func(w http.ResponseWriter, r *http.Request) {
		var in StudentLogin
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.OEN != "123456789" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "connect.sid", Value: "s1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"student_id": 4, "first_name": "Ada", "assigned_table_id": nil})
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("connect.sid"); err != nil || ck.Value != "s1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "first_name": "Ada", "role": "student", "assigned_table_id": 7})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	if _, err := c.Me(ctx); !IsUnauthorized(err) {
		t.Fatalf("Me before login: want unauthorized, got %v", err)
	}

	p, err := c.LoginStudent(ctx, StudentLogin{FirstName: "Ada", LastName: "L", Email: "ada@example.com", OEN: "123456789"})
	if err != nil {
		t.Fatalf("LoginStudent: %v", err)
	}
	if p.ID != 4 || p.Role != "student" {
		t.Fatalf("login principal = %+v", p)
	}

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.AssignedTableID == nil || *me.AssignedTableID != 7 {
		t.Fatalf("assigned table = %v, want 7", me.AssignedTableID)
	}
}

func TestTablesRejectsMissingIsFull(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tables": []map[string]any{
			{"id": 1, "table_number": 1, "capacity": 10, "current_occupancy": 10},
		}})
	}))

	_, err := c.Tables(context.Background())
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError, got %v", err)
	}
}

func TestTablesTrustsIsFull(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tables": []map[string]any{
			{"id": 1, "table_number": 1, "capacity": 10, "current_occupancy": 10, "is_full": false},
			{"id": 2, "table_number": 2, "capacity": 10, "current_occupancy": 0, "is_full": true},
		}})
	}))

	tables, err := c.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if tables[0].IsFull || !tables[1].IsFull {
		t.Fatalf("is_full was recomputed: %+v", tables)
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Table is full."})
	}))

	_, err := c.SelectTable(context.Background(), 4, 3)
	if IsUnauthorized(err) {
		t.Fatalf("409 classified as unauthorized")
	}
	if got := Message(err, "Failed to select table."); got != "Table is full." {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(errors.New("dial tcp: refused"), "Failed to select table."); got != "Failed to select table." {
		t.Fatalf("fallback = %q", got)
	}
}

func TestAssignSendsNullForUnassign(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/admin/assign" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Student unassigned."})
	}))

	msg, err := c.Assign(context.Background(), 12, nil)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if msg != "Student unassigned." {
		t.Fatalf("msg = %q", msg)
	}
	v, ok := body["table_id"]
	if !ok || v != nil {
		t.Fatalf("table_id = %v (present=%v), want explicit null", v, ok)
	}
	if body["student_id"] != float64(12) {
		t.Fatalf("student_id = %v", body["student_id"])
	}
}

func TestUploadUsesStudentFileField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile(UploadField)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No file uploaded."})
			return
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		if hdr.Filename != "roster.xlsx" || string(raw) != "PK-data" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unexpected file"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Imported 3 students."})
	}))

	msg, err := c.UploadStudents(context.Background(), "roster.xlsx", strings.NewReader("PK-data"))
	if err != nil {
		t.Fatalf("UploadStudents: %v", err)
	}
	if msg != "Imported 3 students." {
		t.Fatalf("msg = %q", msg)
	}
}

func TestTableStudentsPath(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tables/9/students" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"table_id": 9, "table_number": 9,
			"students": []map[string]any{{"id": 1, "first_name": "A", "last_name": "B"}},
		})
	}))

	d, err := c.TableStudents(context.Background(), 9)
	if err != nil {
		t.Fatalf("TableStudents: %v", err)
	}
	if d.TableNumber != 9 || len(d.Students) != 1 {
		t.Fatalf("details = %+v", d)
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "/api"}); err == nil {
		t.Fatal("want error for relative base url")
	}
}

func TestMeRequiresRole(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "first_name": "Ada"})
	}))
	_, err := c.Me(context.Background())
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError, got %v", err)
	}
}

func TestListsAreReadFromEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tables", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tables": []map[string]any{
			{"id": 7, "table_number": 3, "capacity": 8, "current_occupancy": 2, "is_full": false},
		}})
	})
	mux.HandleFunc("GET /api/admin/assignments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"assignments": []map[string]any{
			{"student_id": 4, "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "assigned_table_id": 7, "assigned_table_number": 3},
			{"student_id": 5, "first_name": "Alan", "last_name": "Turing", "email": "alan@example.com", "assigned_table_id": nil},
		}})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	tables, err := c.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 1 || tables[0].ID != 7 || tables[0].TableNumber != 3 {
		t.Fatalf("tables = %+v", tables)
	}

	rows, err := c.Assignments(ctx)
	if err != nil {
		t.Fatalf("Assignments: %v", err)
	}
	if len(rows) != 2 || rows[0].AssignedTableNumber == nil || *rows[0].AssignedTableNumber != 3 || rows[1].Assigned() {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestListsRejectBareArray(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "table_number": 1, "capacity": 10, "current_occupancy": 0, "is_full": false},
		})
	}))
	var de *DecodeError
	if _, err := c.Tables(context.Background()); !errors.As(err, &de) {
		t.Fatalf("Tables: want DecodeError, got %v", err)
	}
	if _, err := c.Assignments(context.Background()); !errors.As(err, &de) {
		t.Fatalf("Assignments: want DecodeError, got %v", err)
	}
}

func TestMessageRepliesMayBeEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	ctx := context.Background()
	table := 9

	msg, err := c.Assign(ctx, 4, &table)
	if err != nil || msg != "" {
		t.Fatalf("Assign = %q, %v", msg, err)
	}
	msg, err = c.UploadStudents(ctx, "roster.xlsx", strings.NewReader("PK"))
	if err != nil || msg != "" {
		t.Fatalf("UploadStudents = %q, %v", msg, err)
	}

	// a reply whose fields are required still needs a body
	var de *DecodeError
	if _, err := c.SelectTable(ctx, 4, 9); !errors.As(err, &de) {
		t.Fatalf("SelectTable: want DecodeError, got %v", err)
	}
}
