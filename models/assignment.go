package models

// Assignment 管理端名单的一行；未分配时 table 字段为 nil
type Assignment struct {
	StudentID           int    `json:"student_id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	AssignedTableID     *int   `json:"assigned_table_id"`
	AssignedTableNumber *int   `json:"assigned_table_number"`
}

func (a Assignment) Assigned() bool { return a.AssignedTableID != nil }
