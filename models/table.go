package models

// Table 是后端返回的一张桌子，IsFull 以后端为准，前端不重新计算
type Table struct {
	ID               int  `json:"id"`
	TableNumber      int  `json:"table_number"`
	Capacity         int  `json:"capacity"`
	CurrentOccupancy int  `json:"current_occupancy"`
	IsFull           bool `json:"is_full"`
}

type SeatedStudent struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TableDetails struct {
	TableID     int             `json:"table_id"`
	TableNumber int             `json:"table_number"`
	Students    []SeatedStudent `json:"students"`
}

// Selection is the backend's answer to a seat selection.
type Selection struct {
	AssignedTableID int    `json:"assigned_table_id"`
	Message         string `json:"message,omitempty"`
}
