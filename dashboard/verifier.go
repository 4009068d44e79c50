package dashboard

import (
	"context"
	"fmt"

	"prom_seating_console/backend"
	"prom_seating_console/logger"
	"prom_seating_console/models"
)

// PrincipalSource answers "who is this session?".
type PrincipalSource interface {
	Me(ctx context.Context) (models.Principal, error)
}

// CarryOver passes a freshly logged-in principal to the first dashboard
// load. Take must hand a principal out at most once.
type CarryOver interface {
	Put(ctx context.Context, p models.Principal) error
	Take(ctx context.Context) (models.Principal, bool)
}

type Verifier struct {
	src   PrincipalSource
	carry CarryOver
	log   *logger.Logger
}

func NewVerifier(src PrincipalSource, carry CarryOver, log *logger.Logger) *Verifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Verifier{src: src, carry: carry, log: log}
}

// Verify establishes the principal for page. ErrRedirected means the
// session was invalidated; any other error is retryable.
func (v *Verifier) Verify(ctx context.Context, sess *Session, page Page) (models.Principal, error) {
	if v.carry != nil {
		if p, ok := v.carry.Take(ctx); ok {
			if p.Role == page.Role {
				sess.establish(p)
				return p.Clone(), nil
			}
			v.log.Infof("carried %s principal ignored on %s page", p.Role, page.Role)
		}
	}

	p, err := v.src.Me(ctx)
	if err != nil {
		if backend.IsUnauthorized(err) {
			sess.Invalidate(page.Login)
			return models.Principal{}, ErrRedirected
		}
		return models.Principal{}, fmt.Errorf("verify session: %w", err)
	}
	if p.Role != page.Role {
		v.log.Infof("principal %d has role %q, %s page needs %q", p.ID, p.Role, page.Home, page.Role)
		sess.Invalidate(page.Login)
		return models.Principal{}, ErrRedirected
	}
	sess.establish(p)
	return p.Clone(), nil
}
