package dashboard

import (
	"context"

	"prom_seating_console/backend"
	"prom_seating_console/logger"
	"prom_seating_console/models"
)

type LoginAPI interface {
	LoginStudent(ctx context.Context, in backend.StudentLogin) (models.Principal, error)
	LoginAdmin(ctx context.Context, in backend.AdminLogin) (models.Principal, error)
}

const msgLoginFailed = "Login failed. Check connection or credentials."

// LoginResult is either a destination or an error to show on the form.
type LoginResult struct {
	Redirect Destination `json:"redirect,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Login runs the two login screens. A successful login is carried over to
// the first dashboard load.
type Login struct {
	api   LoginAPI
	carry CarryOver
	rec   Recorder
	log   *logger.Logger
}

func NewLogin(api LoginAPI, carry CarryOver, rec Recorder, log *logger.Logger) *Login {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Login{api: api, carry: carry, rec: rec, log: log}
}

func (l *Login) Student(ctx context.Context, in backend.StudentLogin) LoginResult {
	p, err := l.api.LoginStudent(ctx, in)
	return l.finish(ctx, StudentPage, ActionLoginStudent, in.Email, p, err)
}

func (l *Login) Admin(ctx context.Context, in backend.AdminLogin) LoginResult {
	p, err := l.api.LoginAdmin(ctx, in)
	return l.finish(ctx, AdminPage, ActionLoginAdmin, in.Username, p, err)
}

func (l *Login) finish(ctx context.Context, page Page, action, who string, p models.Principal, err error) LoginResult {
	if err != nil {
		msg := backend.Message(err, msgLoginFailed)
		l.log.Infof("%s login for %q failed: %v", page.Role, who, err)
		record(ctx, l.rec, nil, action, who, models.OutcomeFailed, msg)
		return LoginResult{Error: msg}
	}
	if p.Role != page.Role {
		l.log.Warningf("%s login for %q returned role %q", page.Role, who, p.Role)
		record(ctx, l.rec, &p, action, who, models.OutcomeRejected, "role mismatch")
		return LoginResult{Error: msgLoginFailed}
	}
	if l.carry != nil {
		if err := l.carry.Put(ctx, p); err != nil {
			// 交接失败只是多一次 /users/me
			l.log.Warningf("carry over principal %d: %v", p.ID, err)
		}
	}
	record(ctx, l.rec, &p, action, who, models.OutcomeSuccess, "")
	return LoginResult{Redirect: page.Home}
}
