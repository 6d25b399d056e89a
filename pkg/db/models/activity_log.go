package models

// ActivityLog is an append-only audit entry. Write-once, never updated.
type ActivityLog struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Action    string `gorm:"column:action" json:"action"`
	Details   string `gorm:"column:details" json:"details"`
	Timestamp int64  `gorm:"column:timestamp" json:"timestamp"`
}

// TableName pins the legacy table name.
func (ActivityLog) TableName() string { return "activity_logs" }
