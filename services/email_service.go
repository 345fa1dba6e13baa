// File: /services/email_service.go
package services

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
	"socialpulse-api/config"
	"socialpulse-api/models"
)

// MailSender delivers composed messages. *gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	fromName    string
	fromEmail   string
	frontendURL string
	sender      MailSender
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return NewEmailServiceWithSender(cfg, dialer)
}

func NewEmailServiceWithSender(cfg *config.Config, sender MailSender) *EmailService {
	return &EmailService{
		fromName:    cfg.FromName,
		fromEmail:   cfg.FromEmail,
		frontendURL: cfg.FrontendURL,
		sender:      sender,
	}
}

func (es *EmailService) newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.fromName, es.fromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

// SendWelcomeEmail greets a newly registered user.
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	body := fmt.Sprintf(emailLayout, "Welcome to SocialPulse", fmt.Sprintf(`
            <h2>Hello %s!</h2>
            <p>Your account is ready. Connect your social accounts and schedule your first post.</p>
            <p><a class="btn" href="%s/dashboard">Open your dashboard</a></p>`,
		html.EscapeString(name), html.EscapeString(es.frontendURL)))

	if err := es.sender.DialAndSend(es.newMessage(email, "Welcome to SocialPulse", body)); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	log.Info().Str("to", email).Msg("Welcome email sent")
	return nil
}

// SendPublishFailedEmail tells the owner a scheduled post could not be published.
func (es *EmailService) SendPublishFailedEmail(email, name string, post models.Post) error {
	body := fmt.Sprintf(emailLayout, "A scheduled post failed", fmt.Sprintf(`
            <h2>Hello %s,</h2>
            <p>Your %s post <strong>%s</strong> could not be published.</p>
            <div class="code"><p>%s</p></div>
            <p>You can edit the post and schedule it again.</p>
            <p><a class="btn" href="%s/posts/%s">Review the post</a></p>`,
		html.EscapeString(name),
		html.EscapeString(string(post.Platform)),
		html.EscapeString(post.Title),
		html.EscapeString(post.FailureReason),
		html.EscapeString(es.frontendURL),
		html.EscapeString(post.ID)))

	subject := fmt.Sprintf("SocialPulse - Post \"%s\" failed to publish", post.Title)
	if err := es.sender.DialAndSend(es.newMessage(email, subject, body)); err != nil {
		return fmt.Errorf("send publish failure email: %w", err)
	}
	log.Info().Str("to", email).Str("post_id", post.ID).Msg("Publish failure email sent")
	return nil
}

// UserFinder loads a user by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// FailureNotifier emails the owner of every post the scheduler marks failed.
// Delivery happens off the scheduler goroutine.
type FailureNotifier struct {
	users  UserFinder
	emails *EmailService
	run    func(func())
}

func NewFailureNotifier(users UserFinder, emails *EmailService) *FailureNotifier {
	return &FailureNotifier{
		users:  users,
		emails: emails,
		run:    func(f func()) { go f() },
	}
}

func (n *FailureNotifier) PostStatusChanged(ctx context.Context, post models.Post) {
	if post.Status != models.PostStatusFailed {
		return
	}

	ctx = context.WithoutCancel(ctx)
	n.run(func() {
		user, err := n.users.FindByID(ctx, post.UserID)
		if err != nil {
			log.Warn().Err(err).Str("post_id", post.ID).Msg("Cannot notify owner of failed post")
			return
		}
		if err := n.emails.SendPublishFailedEmail(user.Email, user.Name, post); err != nil {
			log.Error().Err(err).Str("post_id", post.ID).Msg("Failed to send publish failure email")
		}
	})
}

const emailLayout = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #4f46e5; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .code { background: #e9ecef; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
        .btn { display: inline-block; background: #4f46e5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>SocialPulse</h1>
            <p>%s</p>
        </div>
        <div class="content">%s
            <p><strong>The SocialPulse Team</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`
