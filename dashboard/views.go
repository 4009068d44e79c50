package dashboard

import (
	"prom_seating_console/card"
	"prom_seating_console/models"
	"prom_seating_console/roster"
)

type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is a transient page-level banner.
type Feedback struct {
	Kind FeedbackKind `json:"kind"`
	Text string       `json:"text"`
}

func success(text string) *Feedback { return &Feedback{Kind: FeedbackSuccess, Text: text} }
func failure(text string) *Feedback { return &Feedback{Kind: FeedbackError, Text: text} }

type TableCard struct {
	models.Table
	card.Appearance
}

type DetailsView struct {
	TableID int                  `json:"table_id"`
	Loading bool                 `json:"loading"`
	Error   string               `json:"error,omitempty"`
	Details *models.TableDetails `json:"details,omitempty"`
}

type StudentView struct {
	Redirect      Destination       `json:"redirect,omitempty"`
	VerifyError   string            `json:"verify_error,omitempty"`
	Principal     *models.Principal `json:"principal,omitempty"`
	Selection     string            `json:"selection,omitempty"`
	Tables        []TableCard       `json:"tables"`
	TablesLoading bool              `json:"tables_loading"`
	TablesError   string            `json:"tables_error,omitempty"`
	MyTable       *DetailsView      `json:"my_table,omitempty"`
	Viewing       *DetailsView      `json:"viewing,omitempty"`
	Selecting     bool              `json:"selecting"`
	SelectError   string            `json:"select_error,omitempty"`
	Feedback      *Feedback         `json:"feedback,omitempty"`
}

type UploadView struct {
	Enabled  bool   `json:"enabled"`
	FileName string `json:"file_name,omitempty"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
	Success  string `json:"success,omitempty"`
}

type MoveView struct {
	Student     models.Assignment `json:"student"`
	Prompt      string            `json:"prompt"`
	Input       string            `json:"input"`
	Loading     bool              `json:"loading"`
	Error       string            `json:"error,omitempty"`
	CanConfirm  bool              `json:"can_confirm"`
	CanUnassign bool              `json:"can_unassign"`
}

type AdminView struct {
	Redirect           Destination         `json:"redirect,omitempty"`
	VerifyError        string              `json:"verify_error,omitempty"`
	Principal          *models.Principal   `json:"principal,omitempty"`
	Sort               roster.State        `json:"sort"`
	Rows               []models.Assignment `json:"rows"`
	AssignmentsLoading bool                `json:"assignments_loading"`
	AssignmentsError   string              `json:"assignments_error,omitempty"`
	Feedback           *Feedback           `json:"feedback,omitempty"`
	Upload             UploadView          `json:"upload"`
	Move               *MoveView           `json:"move,omitempty"`
}

const verifyFailed = "Could not verify your session. Please try again."
