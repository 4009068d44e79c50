package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"prom_seating_console/backend"
	"prom_seating_console/card"
	"prom_seating_console/logger"
	"prom_seating_console/models"
)

type StudentAPI interface {
	PrincipalSource
	Tables(ctx context.Context) ([]models.Table, error)
	TableStudents(ctx context.Context, tableID int) (models.TableDetails, error)
	SelectTable(ctx context.Context, studentID, tableID int) (models.Selection, error)
	Logout(ctx context.Context) error
}

const (
	msgTablesFailed    = "Failed to load tables."
	msgTablesRefreshed = "Tables refreshed."
	msgRefreshFailed   = "Failed to refresh tables."
	msgDetailsFailed   = "Failed to load table details."
	msgSelected        = "Table selected successfully!"
	msgSelectFailed    = "Failed to select table."
)

// detailsSlot is one "who sits here" pane.
type detailsSlot struct {
	tableID int
	loading bool
	err     string
	details *models.TableDetails
	gen     generation
}

func (s *detailsSlot) clear() {
	s.gen.next()
	s.tableID, s.loading, s.err, s.details = 0, false, "", nil
}

func (s *detailsSlot) view() *DetailsView {
	if s.tableID == 0 {
		return nil
	}
	return &DetailsView{TableID: s.tableID, Loading: s.loading, Error: s.err, Details: s.details}
}

// Student is the student dashboard state machine.
type Student struct {
	api      StudentAPI
	sess     *Session
	verifier *Verifier
	rec      Recorder
	log      *logger.Logger

	mu            sync.Mutex
	verifyErr     string
	tables        []models.Table
	tablesLoading bool
	tablesErr     string
	tablesGen     generation
	mine          detailsSlot
	viewing       detailsSlot
	selecting     bool
	selectErr     string
	feedback      *Feedback
}

func NewStudent(api StudentAPI, sess *Session, verifier *Verifier, rec Recorder, log *logger.Logger) *Student {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Student{api: api, sess: sess, verifier: verifier, rec: rec, log: log}
}

// Mount verifies the session and loads the page.
func (d *Student) Mount(ctx context.Context) error {
	d.mu.Lock()
	d.verifyErr = ""
	d.mu.Unlock()

	p, err := d.verifier.Verify(ctx, d.sess, StudentPage)
	if err != nil {
		if errors.Is(err, ErrRedirected) {
			d.reset()
			return err
		}
		d.log.Warningf("student verify: %v", err)
		d.mu.Lock()
		d.verifyErr = verifyFailed
		d.mu.Unlock()
		return err
	}
	return d.refreshAll(ctx, p.AssignedTableID, 0)
}

// RefreshTables is the manual refresh; it reports through the banner.
func (d *Student) RefreshTables(ctx context.Context) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	return d.fetchTables(ctx, true)
}

// ViewTable opens the details pane for tableID.
func (d *Student) ViewTable(ctx context.Context, tableID int) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	d.mu.Lock()
	busy := d.selecting || (d.viewing.loading && d.viewing.tableID == tableID)
	d.mu.Unlock()
	if busy {
		return ErrBusy
	}
	return d.fetchDetails(ctx, &d.viewing, tableID)
}

func (d *Student) CloseView() {
	d.mu.Lock()
	d.viewing.clear()
	d.mu.Unlock()
}

// SelectTable asks the backend to seat the student at tableID.
func (d *Student) SelectTable(ctx context.Context, tableID int) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	target := strconv.Itoa(tableID)

	d.mu.Lock()
	if d.selecting {
		d.mu.Unlock()
		return ErrBusy
	}
	if t, ok := d.tableByID(tableID); ok && t.IsFull && !p.HasTable(tableID) {
		d.selectErr = fmt.Sprintf("Table %d is full. Please choose another table.", t.TableNumber)
		msg := d.selectErr
		d.mu.Unlock()
		record(ctx, d.rec, &p, ActionSelectTable, target, models.OutcomeRejected, msg)
		return ErrTableFull
	}
	d.selecting = true
	d.selectErr = ""
	d.feedback = nil
	prevViewing := d.viewing.tableID
	d.mu.Unlock()

	sel, err := d.api.SelectTable(ctx, p.ID, tableID)
	if err != nil {
		d.mu.Lock()
		d.selecting = false
		if backend.IsUnauthorized(err) {
			d.mu.Unlock()
			d.redirect()
			record(ctx, d.rec, &p, ActionSelectTable, target, models.OutcomeFailed, "session expired")
			return ErrRedirected
		}
		d.selectErr = backend.Message(err, msgSelectFailed)
		msg := d.selectErr
		d.mu.Unlock()
		d.log.Warningf("select table %d for student %d: %v", tableID, p.ID, err)
		record(ctx, d.rec, &p, ActionSelectTable, target, models.OutcomeFailed, msg)
		return err
	}

	d.sess.seat(sel.AssignedTableID)
	msg := sel.Message
	if msg == "" {
		msg = msgSelected
	}
	d.mu.Lock()
	d.feedback = success(msg)
	d.mu.Unlock()
	record(ctx, d.rec, &p, ActionSelectTable, target, models.OutcomeSuccess, msg)

	assigned := sel.AssignedTableID
	err = d.refreshAll(ctx, &assigned, prevViewing)

	d.mu.Lock()
	d.selecting = false
	d.mu.Unlock()
	return err
}

func (d *Student) DismissSelectError() {
	d.mu.Lock()
	d.selectErr = ""
	d.mu.Unlock()
}

func (d *Student) DismissFeedback() {
	d.mu.Lock()
	d.feedback = nil
	d.mu.Unlock()
}

// Logout ends the backend session. Local state is cleared whatever the
// backend answers.
func (d *Student) Logout(ctx context.Context) {
	p, ok := d.sess.Principal()
	if err := d.api.Logout(ctx); err != nil {
		d.log.Infof("logout: %v", err)
	}
	d.sess.Invalidate(StudentPage.Login)
	d.reset()
	if ok {
		record(ctx, d.rec, &p, ActionLogout, "", models.OutcomeSuccess, "")
	}
}

// Snapshot renders the current state. A pending redirect hides everything
// else.
func (d *Student) Snapshot() StudentView {
	if dest := d.sess.PendingRedirect(); dest != "" {
		return StudentView{Redirect: dest}
	}
	p, ok := d.sess.Principal()

	d.mu.Lock()
	defer d.mu.Unlock()
	v := StudentView{VerifyError: d.verifyErr}
	if !ok || p.Role != models.RoleStudent {
		return v
	}
	v.Principal = &p
	v.Selection = d.selectionLabel(p)
	v.TablesLoading = d.tablesLoading
	v.TablesError = d.tablesErr
	v.Selecting = d.selecting
	v.SelectError = d.selectErr
	v.Feedback = d.feedback
	v.MyTable = d.mine.view()
	v.Viewing = d.viewing.view()
	v.Tables = []TableCard{}
	if d.tablesErr == "" {
		for _, t := range d.tables {
			viewing := d.viewing.tableID == t.ID
			v.Tables = append(v.Tables, TableCard{
				Table: t,
				Appearance: card.Derive(card.Input{
					Table:    t,
					Mine:     p.HasTable(t.ID),
					Viewing:  viewing,
					Loading:  viewing && d.viewing.loading,
					Disabled: d.selecting,
				}),
			})
		}
	}
	return v
}

func (d *Student) selectionLabel(p models.Principal) string {
	if p.AssignedTableID == nil {
		return "Your Selection: None"
	}
	n := *p.AssignedTableID
	if t, ok := d.tableByID(n); ok {
		n = t.TableNumber
	}
	return fmt.Sprintf("Your Selection: Table %d", n)
}

// principal returns the verified student or invalidates the session.
func (d *Student) principal() (models.Principal, error) {
	p, ok := d.sess.Principal()
	if !ok || p.Role != models.RoleStudent {
		d.redirect()
		return models.Principal{}, ErrRedirected
	}
	return p, nil
}

func (d *Student) redirect() {
	d.sess.Invalidate(StudentPage.Login)
	d.reset()
}

func (d *Student) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tablesGen.next()
	d.tables, d.tablesLoading, d.tablesErr = nil, false, ""
	d.mine.clear()
	d.viewing.clear()
	d.selecting, d.selectErr, d.feedback = false, "", nil
}

// tableByID must be called with d.mu held.
func (d *Student) tableByID(id int) (models.Table, bool) {
	for _, t := range d.tables {
		if t.ID == id {
			return t, true
		}
	}
	return models.Table{}, false
}

// refreshAll reloads the table list and the detail panes concurrently. An
// auth failure in any of them cancels the rest.
func (d *Student) refreshAll(ctx context.Context, mine *int, viewing int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.fetchTables(gctx, false) })
	if mine != nil {
		id := *mine
		g.Go(func() error { return d.fetchDetails(gctx, &d.mine, id) })
	} else {
		d.mu.Lock()
		d.mine.clear()
		d.mu.Unlock()
	}
	sameAsMine := mine != nil && viewing == *mine
	if viewing != 0 && !sameAsMine {
		g.Go(func() error { return d.fetchDetails(gctx, &d.viewing, viewing) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if viewing != 0 && sameAsMine {
		d.mu.Lock()
		if d.viewing.tableID == viewing && d.mine.details != nil {
			d.viewing.gen.next()
			det := *d.mine.details
			d.viewing.loading, d.viewing.err, d.viewing.details = false, "", &det
		}
		d.mu.Unlock()
	}
	return nil
}

// fetchTables loads the list. Only auth failures are returned; anything
// else is shown inline.
func (d *Student) fetchTables(ctx context.Context, manual bool) error {
	d.mu.Lock()
	tok := d.tablesGen.next()
	d.tablesLoading = true
	d.tablesErr = ""
	if manual {
		d.feedback = nil
	}
	d.mu.Unlock()

	tables, err := d.api.Tables(ctx)

	d.mu.Lock()
	if !d.tablesGen.current(tok) {
		d.mu.Unlock()
		return nil
	}
	d.tablesLoading = false
	if err != nil {
		if backend.IsUnauthorized(err) {
			d.mu.Unlock()
			d.redirect()
			return ErrRedirected
		}
		if ctx.Err() == nil {
			d.log.Warningf("load tables: %v", err)
			d.tablesErr = backend.Message(err, msgTablesFailed)
			if manual {
				d.feedback = failure(msgRefreshFailed)
			}
		}
		d.mu.Unlock()
		return nil
	}
	d.tables = tables
	if manual {
		d.feedback = success(msgTablesRefreshed)
	}
	d.mu.Unlock()
	return nil
}

func (d *Student) fetchDetails(ctx context.Context, slot *detailsSlot, tableID int) error {
	d.mu.Lock()
	tok := slot.gen.next()
	if slot.tableID != tableID {
		slot.details = nil
	}
	slot.tableID, slot.loading, slot.err = tableID, true, ""
	d.mu.Unlock()

	det, err := d.api.TableStudents(ctx, tableID)

	d.mu.Lock()
	if !slot.gen.current(tok) {
		d.mu.Unlock()
		return nil
	}
	slot.loading = false
	if err != nil {
		if backend.IsUnauthorized(err) {
			d.mu.Unlock()
			d.redirect()
			return ErrRedirected
		}
		if ctx.Err() == nil {
			d.log.Warningf("load table %d details: %v", tableID, err)
			slot.err = backend.Message(err, msgDetailsFailed)
		}
		d.mu.Unlock()
		return nil
	}
	slot.details = &det
	d.mu.Unlock()
	return nil
}
