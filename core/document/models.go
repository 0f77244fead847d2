package document

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
)

// RootDir prefixes every stored document path.
const RootDir = "uploads"

type Category string

const (
	CategoryNotice    Category = "NOTICE"
	CategoryDatesheet Category = "DATESHEET"
	CategoryCircular  Category = "CIRCULAR"
	CategoryEvent     Category = "EVENT"
)

var Categories = []Category{CategoryNotice, CategoryDatesheet, CategoryCircular, CategoryEvent}

var errInvalidCategory = errors.New(fmt.Sprintf("category must be one of: %s", joinCategories()))

func joinCategories() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// ParseCategory upper-cases s and checks it against the known categories.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(core.CleanString(s)))
	for _, cat := range Categories {
		if c == cat {
			return c, nil
		}
	}
	return "", core.NewValidationError(errInvalidCategory, core.FieldError{Field: "category", Error: errInvalidCategory.Error()})
}

// Dir is the directory holding the files of c.
func (c Category) Dir() string {
	return path.Join(RootDir, strings.ToLower(string(c)))
}

type Document struct {
	ID         int       `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Category   Category  `json:"category" db:"category"`
	FilePath   string    `json:"file_path" db:"file_path"`
	UploadDate time.Time `json:"upload_date" db:"upload_date"` // UTC
	IsPublic   bool      `json:"is_public" db:"is_public"`
}

type NewDocument struct {
	Title    string `form:"title" validate:"required,max=200"`
	Category string `form:"category" validate:"required"`
	IsPublic *bool  `form:"is_public"`

	category Category
}

func (nd *NewDocument) Validate(validate *validator.Validate) error {
	nd.Title = core.CleanString(nd.Title)
	if err := validate.Struct(nd); err != nil {
		return err
	}
	category, err := ParseCategory(nd.Category)
	if err != nil {
		return err
	}
	nd.category = category
	return nil
}

func (nd NewDocument) public() bool {
	return nd.IsPublic == nil || *nd.IsPublic
}

type UpdateDocument struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	IsPublic *bool   `json:"is_public"`
}

var errBlankTitle = errors.New("title cannot be blank")

func (ud *UpdateDocument) Validate(validate *validator.Validate) error {
	if ud.Title != nil {
		title := core.CleanString(*ud.Title)
		if title == "" {
			return core.NewValidationError(errBlankTitle, core.FieldError{Field: "title", Error: errBlankTitle.Error()})
		}
		ud.Title = &title
	}
	return validate.Struct(ud)
}

type QueryFilter struct {
	PublicOnly bool
	Category   Category // "": all categories
}

// NormalizePath rewrites legacy stored paths (upper-cased category folders, missing uploads
// prefix, backslashes) to uploads/{category}/{filename}. Paths of any other shape are
// returned unchanged.
func NormalizePath(p string) string {
	cleaned := strings.TrimLeft(strings.ReplaceAll(p, `\`, "/"), "/")
	parts := strings.SplitN(cleaned, "/", 3)
	switch {
	case len(parts) == 3 && strings.EqualFold(parts[0], RootDir):
		return RootDir + "/" + strings.ToLower(parts[1]) + "/" + parts[2]
	case len(parts) == 2:
		return RootDir + "/" + strings.ToLower(parts[0]) + "/" + parts[1]
	default:
		return p
	}
}
