package contact

import (
	"fmt"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

const (
	schoolName = "Birla Open Minds International School, Pampore"

	notificationSubjectFormat = "New Contact Form Message: %s"
	autoReplySubject          = "Thank you for contacting " + schoolName
)

// Field values go into the markup unescaped.
const notificationBodyFormat = `
<h2>New Inquiry from Website Contact Form</h2>
<p><b>Name:</b> %s</p>
<p><b>Email:</b> %s</p>
<p><b>Subject:</b> %s</p>
<p><b>Message:</b></p>
<p>%s</p>
`

const autoReplyBodyFormat = `
<div style="font-family: Arial, sans-serif; color: #333; background: #f9f9f9; padding: 20px; border-radius: 10px;">
  <h3 style="color: #007bff;">Dear %s,</h3>
  <p>Thank you for reaching out to <strong>Dr. Mehnaaz</strong>, Principal at <strong>` + schoolName + `</strong>.</p>
  <p>We have received your message and will get back to you shortly.</p>
  <br>
  <p>Warm regards,</p>
  <p><b>Dr. Mehnaaz</b><br>Principal<br>` + schoolName + `</p>
  <hr>
  <p style="font-size: 12px; color: #777;">This is an automated confirmation message. Please do not reply.</p>
</div>
`

func (s *Service) notification(cs domain.ContactSubmission) domain.Email {
	submitter := domain.Address{Name: cs.Name, Email: cs.Email}

	return domain.Email{
		From:    submitter,
		To:      domain.Address{Email: s.cfg.DestEmail},
		ReplyTo: &submitter,
		Subject: fmt.Sprintf(notificationSubjectFormat, cs.Subject),
		HTML:    fmt.Sprintf(notificationBodyFormat, cs.Name, cs.Email, cs.Subject, cs.Message),
	}
}

func (s *Service) autoReply(cs domain.ContactSubmission) domain.Email {
	return domain.Email{
		From:    domain.Address{Name: s.cfg.AutoReplyFromName, Email: s.cfg.ServiceAccount},
		To:      domain.Address{Email: cs.Email},
		Subject: autoReplySubject,
		HTML:    fmt.Sprintf(autoReplyBodyFormat, cs.Name),
	}
}
