package backend

import (
	"github.com/go-playground/validator/v10"

	"prom_seating_console/models"
)

// Wire structs use pointers so a missing field fails validation instead of
// decoding to a zero value.

var validate = validator.New()

type StudentLogin struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
	OEN       string `json:"OEN"`
}

type AdminLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type principalWire struct {
	ID              *int    `json:"id" validate:"required_without=StudentID"`
	StudentID       *int    `json:"student_id" validate:"required_without=ID"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Role            *string `json:"role" validate:"omitempty,oneof=student admin"`
	AssignedTableID *int    `json:"assigned_table_id"`
}

func (w principalWire) model() models.Principal {
	p := models.Principal{
		Username:        w.Username,
		FirstName:       w.FirstName,
		LastName:        w.LastName,
		Email:           w.Email,
		AssignedTableID: w.AssignedTableID,
	}
	if w.Role != nil {
		p.Role = models.Role(*w.Role)
	}
	if w.ID != nil {
		p.ID = *w.ID
	} else {
		p.ID = *w.StudentID
	}
	return p
}

type tableWire struct {
	ID               *int  `json:"id" validate:"required"`
	TableNumber      *int  `json:"table_number" validate:"required"`
	Capacity         *int  `json:"capacity" validate:"required"`
	CurrentOccupancy *int  `json:"current_occupancy" validate:"required"`
	IsFull           *bool `json:"is_full" validate:"required"`
}

func (w tableWire) model() models.Table {
	return models.Table{
		ID:               *w.ID,
		TableNumber:      *w.TableNumber,
		Capacity:         *w.Capacity,
		CurrentOccupancy: *w.CurrentOccupancy,
		IsFull:           *w.IsFull,
	}
}

type tableListWire struct {
	Tables []tableWire `json:"tables" validate:"required,dive"`
}

type seatedWire struct {
	ID        *int   `json:"id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type tableDetailsWire struct {
	TableID     *int         `json:"table_id" validate:"required"`
	TableNumber *int         `json:"table_number" validate:"required"`
	Students    []seatedWire `json:"students" validate:"dive"`
}

func (w tableDetailsWire) model() models.TableDetails {
	d := models.TableDetails{
		TableID:     *w.TableID,
		TableNumber: *w.TableNumber,
		Students:    make([]models.SeatedStudent, 0, len(w.Students)),
	}
	for _, s := range w.Students {
		d.Students = append(d.Students, models.SeatedStudent{ID: *s.ID, FirstName: s.FirstName, LastName: s.LastName})
	}
	return d
}

type selectionWire struct {
	AssignedTableID *int   `json:"assigned_table_id" validate:"required"`
	Message         string `json:"message"`
}

type assignmentWire struct {
	StudentID           *int   `json:"student_id" validate:"required"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	AssignedTableID     *int   `json:"assigned_table_id"`
	AssignedTableNumber *int   `json:"assigned_table_number"`
}

func (w assignmentWire) model() models.Assignment {
	return models.Assignment{
		StudentID:           *w.StudentID,
		FirstName:           w.FirstName,
		LastName:            w.LastName,
		Email:               w.Email,
		AssignedTableID:     w.AssignedTableID,
		AssignedTableNumber: w.AssignedTableNumber,
	}
}

type assignmentListWire struct {
	Rows []assignmentWire `json:"assignments" validate:"required,dive"`
}

type messageWire struct {
	Message string `json:"message"`
}

type selectRequest struct {
	StudentID int `json:"student_id"`
	TableID   int `json:"table_id"`
}

type assignRequest struct {
	StudentID int  `json:"student_id"`
	TableID   *int `json:"table_id"`
}
