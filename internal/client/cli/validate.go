package cli

import (
	"errors"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Input checks mirror the backend's constraints so obviously bad requests
// never leave the terminal.

func validateCredentials(username, password string) error {
	return validation.Errors{
		"username": validation.Validate(username,
			validation.Required,
			validation.Length(3, 64),
		),
		"password": validation.Validate(password,
			validation.Required,
			validation.Length(8, 128),
		),
	}.Filter()
}

func validateNewProject(title, pdfPath string) error {
	return validation.Errors{
		"title": validation.Validate(title,
			validation.Required,
			validation.Length(1, 200),
		),
		"pdf": validation.Validate(pdfPath,
			validation.Required,
			validation.By(pdfExtension),
		),
	}.Filter()
}

func pdfExtension(value any) error {
	s, _ := value.(string)
	if !strings.EqualFold(filepath.Ext(s), ".pdf") {
		return errors.New("must be a .pdf file")
	}
	return nil
}
