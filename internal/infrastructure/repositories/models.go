package repositories

import "time"

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"column:password;not null"`
	IsVerified   bool      `gorm:"not null;default:false"`
	IsTeamMember bool      `gorm:"not null;default:false"`
	ContactNo    string    `gorm:"size:32"`
	Avatar       string    `gorm:"size:255"`
	Role         string    `gorm:"index;size:32;not null"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// DBOTP stores at most one pending code per user; the unique user index
// rejects a concurrent second issuance.
type DBOTP struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	OTP       string    `gorm:"column:otp;index;size:64;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM
func (DBOTP) TableName() string {
	return "otps"
}

// DBPasswordReset stores at most one pending reset per user
type DBPasswordReset struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	Token     string    `gorm:"uniqueIndex;size:160;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM
func (DBPasswordReset) TableName() string {
	return "password_resets"
}

// Models lists every model that needs migrating
func Models() []interface{} {
	return []interface{}{&DBUser{}, &DBOTP{}, &DBPasswordReset{}}
}
