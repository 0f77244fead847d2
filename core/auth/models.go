package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/vidyalaya/core"
)

type Admin struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a Admin) Principal() AdminPrincipal {
	return AdminPrincipal{ID: a.ID, Username: a.Username}
}

type AdminLogin struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

func (l *AdminLogin) Validate(validate *validator.Validate) error {
	l.Username = core.CleanString(l.Username)
	return validate.Struct(l)
}

type StudentLogin struct {
	StudentCode string    `json:"student_code" validate:"required,max=20"`
	DOB         core.Date `json:"dob" validate:"required"`
}

func (l *StudentLogin) Validate(validate *validator.Validate) error {
	l.StudentCode = core.CleanString(l.StudentCode)
	return validate.Struct(l)
}

// SetAdminPassword carries a new admin password through the password policy.
type SetAdminPassword struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

func (sp SetAdminPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(sp)
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        Role   `json:"role"`
}
