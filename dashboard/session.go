package dashboard

import (
	"sync"

	"prom_seating_console/models"
)

// Destination is a browser route the console can send the user to.
type Destination string

const (
	StudentLogin     Destination = "/"
	AdminLogin       Destination = "/admin-login"
	StudentDashboard Destination = "/dashboard"
	AdminDashboard   Destination = "/admin-dashboard"
)

// Page ties a dashboard to the role it needs and where to go when the
// session is not good enough.
type Page struct {
	Role  models.Role
	Home  Destination
	Login Destination
}

var (
	StudentPage = Page{Role: models.RoleStudent, Home: StudentDashboard, Login: StudentLogin}
	AdminPage   = Page{Role: models.RoleAdmin, Home: AdminDashboard, Login: AdminLogin}
)

// Session holds the verified principal for one browser. It is the only
// place a principal is cleared, and Invalidate is the only way to do it.
type Session struct {
	mu        sync.RWMutex
	principal *models.Principal
	redirect  Destination
}

func NewSession() *Session { return &Session{} }

// Principal returns a copy of the verified principal.
func (s *Session) Principal() (models.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return models.Principal{}, false
	}
	return s.principal.Clone(), true
}

func (s *Session) establish(p models.Principal) {
	p = p.Clone()
	s.mu.Lock()
	s.principal = &p
	s.redirect = ""
	s.mu.Unlock()
}

// seat records the backend-confirmed table for the principal.
func (s *Session) seat(tableID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal != nil {
		id := tableID
		s.principal.AssignedTableID = &id
	}
}

// Invalidate drops the principal and schedules a redirect to dest.
func (s *Session) Invalidate(dest Destination) {
	s.mu.Lock()
	s.principal = nil
	s.redirect = dest
	s.mu.Unlock()
}

func (s *Session) PendingRedirect() Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.redirect
}

// TakeRedirect returns and clears the pending redirect.
func (s *Session) TakeRedirect() Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.redirect
	s.redirect = ""
	return d
}
