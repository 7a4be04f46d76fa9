package mailer

import (
	mailtpl "github.com/oksasatya/user-registry/pkg/mailer/templates"
)

// EmailJob is a fully rendered message ready for a Sender.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// NewTemplateJob renders the named template for the recipient.
func NewTemplateJob(to, template string, data mailtpl.EmailData) (EmailJob, error) {
	subject, text, html, err := mailtpl.Render(template, data)
	if err != nil {
		return EmailJob{}, err
	}
	return EmailJob{To: to, Subject: subject, Text: text, HTML: html}, nil
}
