package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"prom_seating_console/models"
)

// UploadField is the multipart field name the backend reads the roster from.
const UploadField = "studentFile"

func (c *Client) principal(ctx context.Context, method string, path []string, in any) (models.Principal, error) {
	var w principalWire
	u := c.endpoint(path...)
	if err := c.doJSON(ctx, method, u, in, &w); err != nil {
		return models.Principal{}, err
	}
	if err := check(u, w); err != nil {
		return models.Principal{}, err
	}
	return w.model(), nil
}

func (c *Client) LoginStudent(ctx context.Context, in StudentLogin) (models.Principal, error) {
	p, err := c.principal(ctx, http.MethodPost, []string{"login", "student"}, in)
	if err != nil {
		return models.Principal{}, err
	}
	// 学生登录接口不一定回 role
	if p.Role == "" {
		p.Role = models.RoleStudent
	}
	return p, nil
}

func (c *Client) LoginAdmin(ctx context.Context, in AdminLogin) (models.Principal, error) {
	return c.principal(ctx, http.MethodPost, []string{"login", "admin"}, in)
}

// Me is the session verification call. The answer must carry a role.
func (c *Client) Me(ctx context.Context) (models.Principal, error) {
	p, err := c.principal(ctx, http.MethodGet, []string{"users", "me"}, nil)
	if err != nil {
		return models.Principal{}, err
	}
	if p.Role == "" {
		return models.Principal{}, &DecodeError{Path: c.endpoint("users", "me"), Err: errors.New("missing role")}
	}
	return p, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, c.endpoint("logout"), nil, nil)
}

func (c *Client) Tables(ctx context.Context) ([]models.Table, error) {
	u := c.endpoint("tables")
	var w tableListWire
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &w); err != nil {
		return nil, err
	}
	if err := check(u, w); err != nil {
		return nil, err
	}
	out := make([]models.Table, 0, len(w.Tables))
	for _, t := range w.Tables {
		out = append(out, t.model())
	}
	return out, nil
}

func (c *Client) TableStudents(ctx context.Context, tableID int) (models.TableDetails, error) {
	u := c.endpoint("tables", strconv.Itoa(tableID), "students")
	var w tableDetailsWire
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &w); err != nil {
		return models.TableDetails{}, err
	}
	if err := check(u, w); err != nil {
		return models.TableDetails{}, err
	}
	return w.model(), nil
}

func (c *Client) SelectTable(ctx context.Context, studentID, tableID int) (models.Selection, error) {
	u := c.endpoint("student", "me", "table")
	var w selectionWire
	if err := c.doJSON(ctx, http.MethodPut, u, selectRequest{StudentID: studentID, TableID: tableID}, &w); err != nil {
		return models.Selection{}, err
	}
	if err := check(u, w); err != nil {
		return models.Selection{}, err
	}
	return models.Selection{AssignedTableID: *w.AssignedTableID, Message: w.Message}, nil
}

func (c *Client) Assignments(ctx context.Context) ([]models.Assignment, error) {
	u := c.endpoint("admin", "assignments")
	var w assignmentListWire
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &w); err != nil {
		return nil, err
	}
	if err := check(u, w); err != nil {
		return nil, err
	}
	out := make([]models.Assignment, 0, len(w.Rows))
	for _, r := range w.Rows {
		out = append(out, r.model())
	}
	return out, nil
}

// Assign moves a student; a nil tableID unassigns.
func (c *Client) Assign(ctx context.Context, studentID int, tableID *int) (string, error) {
	var w messageWire
	err := c.doJSON(ctx, http.MethodPut, c.endpoint("admin", "assign"), assignRequest{StudentID: studentID, TableID: tableID}, &w)
	if err := optionalBody(err); err != nil {
		return "", err
	}
	return w.Message, nil
}

// UploadStudents posts a roster spreadsheet as multipart form data.
func (c *Client) UploadStudents(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(UploadField, filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("admin", "upload-students"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var w messageWire
	if err := optionalBody(c.do(req, &w)); err != nil {
		return "", err
	}
	return w.Message, nil
}
