package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// swagger:model User
type User struct {
	Base
	Name              string   `json:"name" validate:"required"`
	Username          string   `json:"username" validate:"required"`
	PasswordHash      string   `json:"passwordHash,omitempty"`
	Role              UserRole `json:"role" validate:"required,oneof=teacher student"`
	ClassID           string   `json:"classId,omitempty"`
	DateOfBirth       string   `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
	ParentPhoneNumber string   `json:"parentPhoneNumber,omitempty"`
}

func (u User) WithID(id string) User {
	u.ID = id
	return u
}

// Public 去掉密码哈希后返回给客户端
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
