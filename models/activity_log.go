package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// ActivityLog 记录控制台上的操作，仅用于审计，不参与任何状态判断
type ActivityLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Action    string    `gorm:"size:64;index" json:"action"`
	Role      Role      `gorm:"size:16" json:"role"`
	ActorID   *int      `json:"actorId,omitempty"`
	ActorName string    `gorm:"size:255" json:"actorName"`
	Target    string    `gorm:"size:64" json:"target,omitempty"`
	Outcome   string    `gorm:"size:16;index" json:"outcome"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ActivityLog) TableName() string { return "seat_activity_log" }

// BeforeCreate 生成 UUID 主键，sqlite 没有 gen_random_uuid()
func (a *ActivityLog) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ActivityFor fills the actor fields from p.
func ActivityFor(p *Principal, action, target string) ActivityLog {
	a := ActivityLog{Action: action, Target: target}
	if p != nil {
		id := p.ID
		a.ActorID = &id
		a.ActorName = p.DisplayName()
		a.Role = p.Role
	}
	return a
}
