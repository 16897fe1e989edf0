package domain

import (
	"time"
)

// User is a clinician account. The service runs for a single practice, so
// there is no role hierarchy: every authenticated user is a clinician.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	Name         string `gorm:"column:name;type:varchar(255)"`

	IsActive    bool       `gorm:"column:is_active;default:true"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (User) TableName() string {
	return "users"
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

// AuditLog records who touched which clinical resource. Entries are written
// asynchronously so request latency never waits on the audit table.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	Actor     string `gorm:"column:actor;type:varchar(255);index"`
	IPAddress string `gorm:"column:ip_address;type:varchar(45)"`

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Detail    string `gorm:"column:detail;type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}
