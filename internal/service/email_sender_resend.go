package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ledgerlite/internal/entity"

	"github.com/resendlabs/resend-go"
)

type ResendEmailSender struct {
	Client  *resend.Client
	From    string
	AppName string
}

func NewResendEmailSender(apiKey string, from string, appName string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client:  resend.NewClient(apiKey),
		From:    from,
		AppName: appName,
	}
}

func (s *ResendEmailSender) SendCode(ctx context.Context, email string, code string, purpose entity.CodePurpose) error {
	if s.Client == nil {
		return errors.New("email sender not configured")
	}

	subject := s.subjectFor(purpose)
	html := fmt.Sprintf("<p>Your verification code is:</p><h2>%s</h2><p>It expires in a few minutes. If you did not request it, ignore this email.</p>", code)
	text := fmt.Sprintf("Your verification code is %s. It expires in a few minutes.", code)

	_, err := s.Client.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	return err
}

func (s *ResendEmailSender) subjectFor(purpose entity.CodePurpose) string {
	app := s.AppName
	if strings.TrimSpace(app) == "" {
		app = "Ledgerlite"
	}
	switch purpose {
	case entity.PurposePasswordReset:
		return app + " password reset code"
	case entity.PurposeLoginRecovery:
		return app + " sign-in code"
	default:
		return app + " verification code"
	}
}
