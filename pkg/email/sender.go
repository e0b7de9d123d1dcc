package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"path/filepath"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SendEmailInput struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Sender interface {
	Send(input SendEmailInput) error
}

var ErrDisabled = errors.New("email delivery is disabled")

// Disabled is the Sender used when no SMTP account is configured.
type Disabled struct{}

func (Disabled) Send(SendEmailInput) error {
	return ErrDisabled
}

// TemplatesDir is where GenerateBodyFromHTML looks for template files.
var TemplatesDir = "./templates"

func (e *SendEmailInput) GenerateBodyFromHTML(templateFileName string, data interface{}) error {
	t, err := template.ParseFiles(filepath.Join(TemplatesDir, templateFileName))
	if err != nil {
		return fmt.Errorf("parse file failed: %w", err)
	}

	buf := new(bytes.Buffer)
	if err = t.Execute(buf, data); err != nil {
		return fmt.Errorf("email data injection failed: %w", err)
	}

	e.Body = buf.String()

	return nil
}

func (e *SendEmailInput) Validate() error {
	if e.To == "" {
		return errors.New("empty to")
	}

	if e.Subject == "" || e.Body == "" {
		return errors.New("empty subject/body")
	}

	if !IsEmailValid(e.To) {
		return errors.New("invalid to email")
	}

	for _, a := range e.Attachments {
		if a.Filename == "" || len(a.Data) == 0 {
			return errors.New("empty attachment")
		}
	}

	return nil
}

func IsEmailValid(address string) bool {
	if len(address) < 3 || len(address) > 254 {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	return parsed.Address == address
}
