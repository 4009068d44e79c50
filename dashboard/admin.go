package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"prom_seating_console/backend"
	"prom_seating_console/logger"
	"prom_seating_console/models"
	"prom_seating_console/roster"
)

type AdminAPI interface {
	PrincipalSource
	Assignments(ctx context.Context) ([]models.Assignment, error)
	Assign(ctx context.Context, studentID int, tableID *int) (string, error)
	UploadStudents(ctx context.Context, filename string, content io.Reader) (string, error)
	Logout(ctx context.Context) error
}

const (
	msgAssignmentsFailed    = "Failed to load assignments."
	msgAssignmentsRefreshed = "Assignments refreshed."
	msgAssignmentsRefFailed = "Failed to refresh assignments."
	msgMoved                = "Student moved successfully."
	msgMoveFailed           = "Failed to move student."
	msgNoFile               = "Please select a file first."
	msgNotSpreadsheet       = "Only .xlsx spreadsheets can be uploaded."
	msgUploaded             = "File upload processed by server."
	msgUploadFailed         = "Upload failed."
)

// Bounds is the inclusive range of valid table ids.
type Bounds struct {
	Min int
	Max int
}

func (b Bounds) Contains(id int) bool { return id >= b.Min && id <= b.Max }

func (b Bounds) Message() string {
	return fmt.Sprintf("Enter valid table ID (%d-%d).", b.Min, b.Max)
}

type AdminOptions struct {
	Bounds Bounds
	// MaxUpload caps roster files in bytes; zero means no cap.
	MaxUpload int64
}

type pendingFile struct {
	name string
	data []byte
}

type moveState struct {
	row     models.Assignment
	input   string
	loading bool
	err     string
}

// Admin is the staff dashboard state machine.
type Admin struct {
	api      AdminAPI
	sess     *Session
	verifier *Verifier
	rec      Recorder
	log      *logger.Logger
	opts     AdminOptions

	mu          sync.Mutex
	verifyErr   string
	rows        []models.Assignment
	rowsLoading bool
	rowsErr     string
	rowsGen     generation
	sort        roster.State
	feedback    *Feedback
	file        *pendingFile
	uploading   bool
	uploadErr   string
	uploadOK    string
	move        *moveState
}

func NewAdmin(api AdminAPI, sess *Session, verifier *Verifier, rec Recorder, log *logger.Logger, opts AdminOptions) *Admin {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Admin{api: api, sess: sess, verifier: verifier, rec: rec, log: log, opts: opts}
}

func (d *Admin) Mount(ctx context.Context) error {
	d.mu.Lock()
	d.verifyErr = ""
	d.mu.Unlock()

	if _, err := d.verifier.Verify(ctx, d.sess, AdminPage); err != nil {
		if errors.Is(err, ErrRedirected) {
			d.reset()
			return err
		}
		d.log.Warningf("admin verify: %v", err)
		d.mu.Lock()
		d.verifyErr = verifyFailed
		d.mu.Unlock()
		return err
	}
	return d.fetchAssignments(ctx, false)
}

// RefreshAssignments is the manual refresh; it reports through the banner.
func (d *Admin) RefreshAssignments(ctx context.Context) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	return d.fetchAssignments(ctx, true)
}

func (d *Admin) SortBy(c roster.Column) {
	d.mu.Lock()
	d.sort = d.sort.Toggle(c)
	d.mu.Unlock()
}

// OpenMove starts the move dialog for a student in the current list.
func (d *Admin) OpenMove(studentID int) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.move != nil && d.move.loading {
		return ErrBusy
	}
	for _, r := range d.rows {
		if r.StudentID != studentID {
			continue
		}
		m := &moveState{row: r}
		if r.AssignedTableID != nil {
			m.input = strconv.Itoa(*r.AssignedTableID)
		}
		d.move = m
		d.feedback = nil
		return nil
	}
	return ErrUnknownStudent
}

// SetMoveInput updates the target field and clears the dialog error.
func (d *Admin) SetMoveInput(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.move == nil {
		return ErrNoMove
	}
	if d.move.loading {
		return ErrBusy
	}
	d.move.input = s
	d.move.err = ""
	return nil
}

// CloseMove dismisses the dialog. It does nothing while a move is in flight.
func (d *Admin) CloseMove() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.move == nil {
		return nil
	}
	if d.move.loading {
		return ErrBusy
	}
	d.move = nil
	return nil
}

// ConfirmMove validates the target locally, then submits it.
func (d *Admin) ConfirmMove(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	d.mu.Lock()
	if d.move == nil {
		d.mu.Unlock()
		return ErrNoMove
	}
	if d.move.loading {
		d.mu.Unlock()
		return ErrBusy
	}
	id, convErr := strconv.Atoi(strings.TrimSpace(d.move.input))
	if convErr != nil || !d.opts.Bounds.Contains(id) {
		d.move.err = d.opts.Bounds.Message()
		target, msg := d.move.input, d.move.err
		d.mu.Unlock()
		record(ctx, d.rec, &p, ActionMoveStudent, target, models.OutcomeRejected, msg)
		return ErrInvalidTarget
	}
	d.mu.Unlock()
	return d.submitMove(ctx, p, &id)
}

// Unassign removes the student in the dialog from their table.
func (d *Admin) Unassign(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	d.mu.Lock()
	if d.move == nil {
		d.mu.Unlock()
		return ErrNoMove
	}
	if !d.move.row.Assigned() {
		d.mu.Unlock()
		return ErrAlreadyUnassigned
	}
	d.mu.Unlock()
	return d.submitMove(ctx, p, nil)
}

func (d *Admin) submitMove(ctx context.Context, p models.Principal, tableID *int) error {
	action, target := ActionUnassign, "none"
	if tableID != nil {
		action, target = ActionMoveStudent, strconv.Itoa(*tableID)
	}

	d.mu.Lock()
	if d.move == nil {
		d.mu.Unlock()
		return ErrNoMove
	}
	if d.move.loading {
		d.mu.Unlock()
		return ErrBusy
	}
	m := d.move
	m.loading = true
	m.err = ""
	d.feedback = nil
	studentID := m.row.StudentID
	d.mu.Unlock()

	msg, err := d.api.Assign(ctx, studentID, tableID)

	d.mu.Lock()
	m.loading = false
	if err != nil {
		if backend.IsUnauthorized(err) {
			d.mu.Unlock()
			d.redirect()
			record(ctx, d.rec, &p, action, target, models.OutcomeFailed, "session expired")
			return ErrRedirected
		}
		m.err = backend.Message(err, msgMoveFailed)
		errMsg := m.err
		d.mu.Unlock()
		d.log.Warningf("assign student %d to %s: %v", studentID, target, err)
		record(ctx, d.rec, &p, action, target, models.OutcomeFailed, errMsg)
		return err
	}
	if msg == "" {
		msg = msgMoved
	}
	d.feedback = success(msg)
	if d.move == m {
		d.move = nil
	}
	d.mu.Unlock()
	record(ctx, d.rec, &p, action, target, models.OutcomeSuccess, msg)

	return d.fetchAssignments(ctx, false)
}

// ChooseFile stages a roster file for upload.
func (d *Admin) ChooseFile(name string, data []byte) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploading {
		return ErrBusy
	}
	d.uploadErr, d.uploadOK = "", ""
	if d.opts.MaxUpload > 0 && int64(len(data)) > d.opts.MaxUpload {
		d.file = nil
		d.uploadErr = fmt.Sprintf("File is larger than %d bytes.", d.opts.MaxUpload)
		return ErrFileTooLarge
	}
	d.file = &pendingFile{name: name, data: data}
	return nil
}

// Upload sends the staged file. The list is refreshed only on success.
func (d *Admin) Upload(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	d.mu.Lock()
	if d.uploading {
		d.mu.Unlock()
		return ErrBusy
	}
	f := d.file
	if f == nil {
		d.uploadErr, d.uploadOK = msgNoFile, ""
		d.mu.Unlock()
		return ErrNoFile
	}
	if !isSpreadsheet(f.name, f.data) {
		d.uploadErr, d.uploadOK = msgNotSpreadsheet, ""
		d.mu.Unlock()
		record(ctx, d.rec, &p, ActionUpload, f.name, models.OutcomeRejected, msgNotSpreadsheet)
		return ErrNotSpreadsheet
	}
	d.uploading = true
	d.uploadErr, d.uploadOK = "", ""
	d.feedback = nil
	d.mu.Unlock()

	msg, err := d.api.UploadStudents(ctx, f.name, bytes.NewReader(f.data))

	d.mu.Lock()
	d.uploading = false
	if err != nil {
		if backend.IsUnauthorized(err) {
			d.mu.Unlock()
			d.redirect()
			record(ctx, d.rec, &p, ActionUpload, f.name, models.OutcomeFailed, "session expired")
			return ErrRedirected
		}
		d.uploadErr = backend.Message(err, msgUploadFailed)
		errMsg := d.uploadErr
		d.mu.Unlock()
		d.log.Warningf("upload %s: %v", f.name, err)
		record(ctx, d.rec, &p, ActionUpload, f.name, models.OutcomeFailed, errMsg)
		return err
	}
	if msg == "" {
		msg = msgUploaded
	}
	d.uploadOK = msg
	if d.file == f {
		d.file = nil
	}
	d.mu.Unlock()
	record(ctx, d.rec, &p, ActionUpload, f.name, models.OutcomeSuccess, msg)

	return d.fetchAssignments(ctx, false)
}

func (d *Admin) DismissFeedback() {
	d.mu.Lock()
	d.feedback = nil
	d.mu.Unlock()
}

func (d *Admin) Logout(ctx context.Context) {
	p, ok := d.sess.Principal()
	if err := d.api.Logout(ctx); err != nil {
		d.log.Infof("logout: %v", err)
	}
	d.sess.Invalidate(AdminPage.Login)
	d.reset()
	if ok {
		record(ctx, d.rec, &p, ActionLogout, "", models.OutcomeSuccess, "")
	}
}

func (d *Admin) Snapshot() AdminView {
	if dest := d.sess.PendingRedirect(); dest != "" {
		return AdminView{Redirect: dest}
	}
	p, ok := d.sess.Principal()

	d.mu.Lock()
	defer d.mu.Unlock()
	v := AdminView{VerifyError: d.verifyErr}
	if !ok || p.Role != models.RoleAdmin {
		return v
	}
	v.Principal = &p
	v.Sort = d.sort
	v.AssignmentsLoading = d.rowsLoading
	v.AssignmentsError = d.rowsErr
	v.Feedback = d.feedback
	v.Rows = []models.Assignment{}
	if d.rowsErr == "" {
		v.Rows = d.sort.Sort(d.rows)
	}
	v.Upload = UploadView{
		Enabled: p.Role == models.RoleAdmin,
		Loading: d.uploading,
		Error:   d.uploadErr,
		Success: d.uploadOK,
	}
	if d.file != nil {
		v.Upload.FileName = d.file.name
	}
	if m := d.move; m != nil {
		current := "N/A"
		if m.row.AssignedTableNumber != nil {
			current = strconv.Itoa(*m.row.AssignedTableNumber)
		}
		v.Move = &MoveView{
			Student: m.row,
			Prompt: fmt.Sprintf("Current: Table %s. Enter new Table ID (%d-%d) or Unassign.",
				current, d.opts.Bounds.Min, d.opts.Bounds.Max),
			Input:       m.input,
			Loading:     m.loading,
			Error:       m.err,
			CanConfirm:  !m.loading && strings.TrimSpace(m.input) != "",
			CanUnassign: !m.loading && m.row.Assigned(),
		}
	}
	return v
}

func (d *Admin) principal() (models.Principal, error) {
	p, ok := d.sess.Principal()
	if !ok || p.Role != models.RoleAdmin {
		d.redirect()
		return models.Principal{}, ErrRedirected
	}
	return p, nil
}

func (d *Admin) redirect() {
	d.sess.Invalidate(AdminPage.Login)
	d.reset()
}

func (d *Admin) reset() {
	d.mu.Lock()
	d.resetLocked()
	d.mu.Unlock()
}

func (d *Admin) resetLocked() {
	d.rowsGen.next()
	d.rows, d.rowsLoading, d.rowsErr = nil, false, ""
	d.sort = roster.State{}
	d.feedback = nil
	d.file, d.uploading, d.uploadErr, d.uploadOK = nil, false, "", ""
	d.move = nil
}

// fetchAssignments loads the roster. Only auth failures are returned.
func (d *Admin) fetchAssignments(ctx context.Context, manual bool) error {
	d.mu.Lock()
	tok := d.rowsGen.next()
	d.rowsLoading = true
	d.rowsErr = ""
	if manual {
		d.feedback = nil
	}
	d.mu.Unlock()

	rows, err := d.api.Assignments(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.rowsGen.current(tok) {
		return nil
	}
	d.rowsLoading = false
	if err != nil {
		if backend.IsUnauthorized(err) {
			d.sess.Invalidate(AdminPage.Login)
			d.resetLocked()
			return ErrRedirected
		}
		d.log.Warningf("load assignments: %v", err)
		d.rowsErr = backend.Message(err, msgAssignmentsFailed)
		if manual {
			d.feedback = failure(msgAssignmentsRefFailed)
		}
		return nil
	}
	d.rows = rows
	if manual {
		d.feedback = success(msgAssignmentsRefreshed)
	}
	return nil
}
