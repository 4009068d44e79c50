package dashboard

import (
	"context"
	"errors"
	"testing"

	"prom_seating_console/backend"
	"prom_seating_console/models"
)

func TestStudentLoginCarriesPrincipal(t *testing.T) {
	carry := &memCarry{}
	rec := &memRecorder{}
	api := &fakeAPI{loginS: func(in backend.StudentLogin) (models.Principal, error) {
		if in.OEN != "123456789" {
			t.Errorf("OEN = %q", in.OEN)
		}
		return student(4, nil), nil
	}}
	l := NewLogin(api, carry, rec, nil)

	res := l.Student(context.Background(), backend.StudentLogin{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", OEN: "123456789"})
	if res.Redirect != StudentDashboard || res.Error != "" {
		t.Fatalf("result = %+v", res)
	}
	p, ok := carry.Take(context.Background())
	if !ok || p.ID != 4 {
		t.Fatalf("carried = %+v, %v", p, ok)
	}
	if e := rec.last(); e.Action != ActionLoginStudent || e.Outcome != models.OutcomeSuccess {
		t.Fatalf("recorded %+v", e)
	}
}

func TestLoginErrorMessages(t *testing.T) {
	api := &fakeAPI{
		loginS: func(backend.StudentLogin) (models.Principal, error) {
			return models.Principal{}, rejected(401, "Student not found or details incorrect.")
		},
		loginA: func(backend.AdminLogin) (models.Principal, error) {
			return models.Principal{}, errors.New("connection refused")
		},
	}
	carry := &memCarry{}
	l := NewLogin(api, carry, nil, nil)

	if res := l.Student(context.Background(), backend.StudentLogin{}); res.Error != "Student not found or details incorrect." || res.Redirect != "" {
		t.Fatalf("student result = %+v", res)
	}
	if res := l.Admin(context.Background(), backend.AdminLogin{Username: "staff"}); res.Error != "Login failed. Check connection or credentials." {
		t.Fatalf("admin result = %+v", res)
	}
	if _, ok := carry.Take(context.Background()); ok {
		t.Fatal("failed login carried a principal")
	}
}

func TestAdminLoginRejectsStudentRole(t *testing.T) {
	api := &fakeAPI{loginA: func(backend.AdminLogin) (models.Principal, error) { return student(4, nil), nil }}
	l := NewLogin(api, &memCarry{}, nil, nil)

	if res := l.Admin(context.Background(), backend.AdminLogin{Username: "x", Password: "y"}); res.Error == "" || res.Redirect != "" {
		t.Fatalf("result = %+v", res)
	}
}
