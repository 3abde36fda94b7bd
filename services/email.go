package services

import (
	"fmt"
	"html"
	"log"

	"mediscript_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []*resend.Attachment
}

// BuildPrescriptionEmail composes the delivery email for a finalized
// prescription, with the exported PDF attached.
func BuildPrescriptionEmail(toEmail, patientName, accessCode, fileName string, pdf []byte) *Email {
	greeting := "Dear patient,"
	greetingHTML := greeting
	if patientName != "" {
		greeting = fmt.Sprintf("Dear %s,", patientName)
		greetingHTML = fmt.Sprintf("Dear %s,", html.EscapeString(patientName))
	}

	codeLine := ""
	codeLineText := ""
	if accessCode != "" {
		codeLine = fmt.Sprintf("<p>Verification code: <strong>%s</strong></p>", html.EscapeString(accessCode))
		codeLineText = fmt.Sprintf("Verification code: %s\n\n", accessCode)
	}

	htmlBody := fmt.Sprintf(`<p>%s</p>
<p>Your prescription is attached to this email as a PDF document.</p>
%s<p>Keep this document for your records and present it at the pharmacy.</p>`, greetingHTML, codeLine)

	textBody := fmt.Sprintf("%s\n\nYour prescription is attached to this email as a PDF document.\n\n%sKeep this document for your records and present it at the pharmacy.\n", greeting, codeLineText)

	return &Email{
		To:       []string{toEmail},
		Subject:  "Your prescription",
		HTMLBody: htmlBody,
		TextBody: textBody,
		Attachments: []*resend.Attachment{
			{
				Filename:    fileName,
				Content:     pdf,
				ContentType: "application/pdf",
			},
		},
	}
}

// SendEmail sends an email via Resend. In test mode the message is logged to
// the console instead of sent, so development never emails real patients.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		log.Printf("[EMAIL TEST MODE] To: %v | Subject: %s | Attachments: %d",
			email.To, email.Subject, len(email.Attachments))
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("email not configured: RESEND_API_KEY is empty")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:        fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:          email.To,
		Subject:     email.Subject,
		Html:        email.HTMLBody,
		Text:        email.TextBody,
		Attachments: email.Attachments,
	}

	if _, err := client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendPrescriptionPDF builds and sends the prescription delivery email.
func SendPrescriptionPDF(cfg *config.Config, toEmail, patientName, accessCode, fileName string, pdf []byte) error {
	return SendEmail(cfg, BuildPrescriptionEmail(toEmail, patientName, accessCode, fileName, pdf))
}
