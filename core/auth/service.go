package auth

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/student"
)

var (
	// errors
	ErrAdminNotFound = core.NewNotFoundError(errors.New("admin not found"))
	ErrAdminExists   = core.NewConflictError(errors.New("an admin with this username already exists"))

	// ErrAuthenticationFailed never tells which credential was wrong.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type (
	Repository interface {
		CreateAdmin(ctx context.Context, admin Admin, exec ...core.DBExecutor) (Admin, error)
		GetAdminByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (Admin, error)
		UpdateAdminPassword(ctx context.Context, admin Admin, exec ...core.DBExecutor) error
	}

	StudentFinder interface {
		GetStudentByCode(ctx context.Context, code string, exec ...core.DBExecutor) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		tokens   *TokenService
		validate *validator.Validate
		nowFunc  func() time.Time
	}
)

func NewService(repo Repository, students StudentFinder, tokens *TokenService, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		students: students,
		tokens:   tokens,
		validate: validate,
		nowFunc:  time.Now,
	}
}

// AuthenticateAdmin checks the username/password pair and issues an admin token.
func (svc *Service) AuthenticateAdmin(ctx context.Context, login AdminLogin) (Token, error) {
	admin, err := svc.repo.GetAdminByUsername(ctx, login.Username)
	if err != nil {
		if errors.Cause(err) == ErrAdminNotFound {
			return Token{}, ErrAuthenticationFailed
		}
		return Token{}, errors.Wrap(err, "finding admin by username")
	}
	if err = admin.CheckPassword(login.Password); err != nil {
		return Token{}, ErrAuthenticationFailed
	}
	return svc.tokens.Issue(admin.Principal())
}

// AuthenticateStudent checks the student code / date of birth pair and issues a student token.
func (svc *Service) AuthenticateStudent(ctx context.Context, login StudentLogin) (Token, error) {
	stu, err := svc.students.GetStudentByCode(ctx, login.StudentCode)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Token{}, ErrAuthenticationFailed
		}
		return Token{}, errors.Wrap(err, "finding student by code")
	}
	if !stu.DOB.Equal(login.DOB) {
		return Token{}, ErrAuthenticationFailed
	}
	return svc.tokens.Issue(StudentPrincipal{ID: stu.ID, StudentCode: stu.Code})
}

// VerifyToken returns the caller a token was issued to.
func (svc *Service) VerifyToken(raw string) (Principal, error) {
	return svc.tokens.Verify(raw)
}

// IssueToken signs a token for p; used by tooling and tests.
func (svc *Service) IssueToken(p Principal) (Token, error) {
	return svc.tokens.Issue(p)
}

// SeedDefaultAdmin creates the default admin unless an admin with that username exists.
// It is safe to call on every start.
func (svc *Service) SeedDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := svc.repo.GetAdminByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if errors.Cause(err) != ErrAdminNotFound {
		return false, errors.Wrap(err, "finding default admin")
	}

	admin := Admin{Username: username, CreatedAt: svc.nowFunc().UTC()}
	if err = admin.SetPassword(password); err != nil {
		return false, errors.Wrap(err, "hashing default admin password")
	}
	if _, err = svc.repo.CreateAdmin(ctx, admin); err != nil {
		if errors.Cause(err) == ErrAdminExists { // seeded concurrently
			return false, nil
		}
		return false, errors.Wrap(err, "creating default admin")
	}
	return true, nil
}

// AddAdmin creates an admin account, enforcing the password policy.
func (svc *Service) AddAdmin(ctx context.Context, username, pwd string) (Admin, error) {
	username = core.CleanString(username)
	if err := (SetAdminPassword{Username: username, Password: pwd}).Validate(svc.validate); err != nil {
		return Admin{}, err
	}

	admin := Admin{Username: username, CreatedAt: svc.nowFunc().UTC()}
	if err := admin.SetPassword(pwd); err != nil {
		return Admin{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateAdmin(ctx, admin)
}

// ResetPassword sets a new password on an existing admin, enforcing the password policy.
func (svc *Service) ResetPassword(ctx context.Context, username, pwd string) error {
	admin, err := svc.repo.GetAdminByUsername(ctx, core.CleanString(username))
	if err != nil {
		return err
	}
	if err = (SetAdminPassword{Username: admin.Username, Password: pwd}).Validate(svc.validate); err != nil {
		return err
	}
	if err = admin.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateAdminPassword(ctx, admin)
}
