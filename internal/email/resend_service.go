package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// sender es la parte de la API de Resend que se usa aquí
type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendService envía avisos de tareas fallidas usando Resend API
type ResendService struct {
	emails    sender
	fromEmail string
	to        string
	baseURL   string
	logger    *logrus.Logger
}

// NewResendService crea una nueva instancia de ResendService
func NewResendService(apiKey, from, to, baseURL string, logger *logrus.Logger) *ResendService {
	return newResendService(resend.NewClient(apiKey).Emails, from, to, baseURL, logger)
}

func newResendService(emails sender, from, to, baseURL string, logger *logrus.Logger) *ResendService {
	return &ResendService{
		emails:    emails,
		fromEmail: from,
		to:        to,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// NotifyTaskFailure avisa que una tarea de fiscalización terminó en error
func (s *ResendService) NotifyTaskFailure(_ context.Context, sub *models.Submission) error {
	if s.to == "" {
		return nil
	}

	description := "unknown error"
	if sub.ErrorDescription != nil {
		description = *sub.ErrorDescription
	}

	subject := fmt.Sprintf("Fiscalización fallida: %s %s", sub.Kind, sub.ExternalID)
	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Fiscalización fallida</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>La caja rechazó un documento</h2>
    <ul>
        <li><strong>Tipo:</strong> %s</li>
        <li><strong>external_id:</strong> %s</li>
        <li><strong>Cola:</strong> %s</li>
        <li><strong>Tarea:</strong> %s</li>
        <li><strong>Fecha:</strong> %s</li>
    </ul>
    <p><strong>Error:</strong> %s</p>
    <p><a href="%s/v1/checks/%s">Ver envío</a></p>
</body>
</html>`,
		html.EscapeString(string(sub.Kind)),
		html.EscapeString(sub.ExternalID),
		html.EscapeString(sub.QueueID),
		html.EscapeString(sub.TaskID),
		sub.UpdatedAt.Format(time.RFC3339),
		html.EscapeString(description),
		s.baseURL,
		sub.ID,
	)

	request := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.to},
		Subject: subject,
		Html:    htmlContent,
	}

	result, err := s.emails.Send(request)
	if err != nil {
		return fmt.Errorf("error sending email via Resend: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id":      result.Id,
		"to":            s.to,
		"submission_id": sub.ID,
	}).Info("Task failure notice sent via Resend")

	return nil
}
