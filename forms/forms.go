// Package forms validates user input for tasks and accounts.
//
// Every Validate method is pure: it returns either the cleaned value or a
// *ValidationError listing the offending fields, and never touches storage.
package forms

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"taskmanager/models"
)

const (
	PasswordMinLength = 8
	// bcrypt ignores everything past 72 bytes.
	PasswordMaxBytes = 72
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one error.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// TaskForm carries the editable fields of a task.
type TaskForm struct {
	Title string `json:"title"`
}

// Validate returns the trimmed title.
func (f TaskForm) Validate() (string, *ValidationError) {
	verr := &ValidationError{}
	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		verr.add("title", "This field is required.")
	case utf8.RuneCountInString(title) > models.TitleMaxLength:
		verr.add("title", fmt.Sprintf("Ensure this value has at most %d characters.", models.TitleMaxLength))
	}
	return title, verr.orNil()
}

type RegisterForm struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// Registration is a validated RegisterForm.
type Registration struct {
	Username string
	Email    string
	Password string
}

func (f RegisterForm) Validate() (Registration, *ValidationError) {
	verr := &ValidationError{}

	username := strings.TrimSpace(f.Username)
	switch {
	case username == "":
		verr.add("username", "This field is required.")
	case utf8.RuneCountInString(username) > models.UsernameMaxLength:
		verr.add("username", fmt.Sprintf("Ensure this value has at most %d characters.", models.UsernameMaxLength))
	case !validUsername(username):
		verr.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	email := strings.TrimSpace(f.Email)
	if email == "" {
		verr.add("email", "This field is required.")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		verr.add("email", "Enter a valid email address.")
	}

	switch {
	case f.Password1 == "":
		verr.add("password1", "This field is required.")
	case utf8.RuneCountInString(f.Password1) < PasswordMinLength:
		verr.add("password1", fmt.Sprintf("This password is too short. It must contain at least %d characters.", PasswordMinLength))
	case len(f.Password1) > PasswordMaxBytes:
		verr.add("password1", fmt.Sprintf("This password is too long. It must be at most %d bytes.", PasswordMaxBytes))
	}
	if f.Password2 == "" {
		verr.add("password2", "This field is required.")
	} else if f.Password1 != f.Password2 {
		verr.add("password2", "The two password fields didn't match.")
	}

	return Registration{Username: username, Email: email, Password: f.Password1}, verr.orNil()
}

func validUsername(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '@', '.', '+', '-', '_':
			continue
		}
		return false
	}
	return true
}

type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() (LoginForm, *ValidationError) {
	verr := &ValidationError{}
	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" {
		verr.add("username", "This field is required.")
	}
	if f.Password == "" {
		verr.add("password", "This field is required.")
	}
	return f, verr.orNil()
}
