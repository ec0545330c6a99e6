package models

import "time"

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname    string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname    string     `gorm:"column:user_lname" json:"user_lname"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	RoleID       int        `gorm:"column:role_id" json:"role_id"`
	DepartmentID int        `gorm:"column:department_id" json:"department_id"`
	CampusID     int        `gorm:"column:campus_id" json:"campus_id"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role       Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Campus     *Campus     `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

// FullName joins the first and last name for display.
func (u User) FullName() string {
	if u.UserFname == "" {
		return u.UserLname
	}
	if u.UserLname == "" {
		return u.UserFname
	}
	return u.UserFname + " " + u.UserLname
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Role IDs as seeded in the roles table.
const (
	RoleResearcher     = 1
	RoleFacilitator    = 2
	RolePIOOffice      = 3
	RoleExternalOffice = 4
	RoleAdmin          = 5
)

type Department struct {
	DepartmentID   int    `gorm:"primaryKey;column:department_id" json:"department_id"`
	DepartmentName string `gorm:"column:department_name" json:"department_name"`
	CampusID       int    `gorm:"column:campus_id" json:"campus_id"`

	Campus *Campus `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

type Campus struct {
	CampusID   int    `gorm:"primaryKey;column:campus_id" json:"campus_id"`
	CampusName string `gorm:"column:campus_name" json:"campus_name"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (Department) TableName() string {
	return "departments"
}

func (Campus) TableName() string {
	return "campuses"
}
