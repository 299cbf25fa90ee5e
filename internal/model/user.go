package model

// Roles.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is an administrator or a field worker.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	FullName     string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Email        string `gorm:"type:varchar(255)"                              json:"email"`
	Phone        string `gorm:"type:varchar(20)"                               json:"phone"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName users
func (User) TableName() string { return "users" }

// IsEmployee reports whether the user does field work.
func (u *User) IsEmployee() bool { return u.Role == RoleEmployee }
