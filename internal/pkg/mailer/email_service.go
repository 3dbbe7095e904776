// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTaskCreated(toEmail, taskTitle, taskURL string) error
	SendSubscriptionActivated(toEmail, planName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // Added to construct links
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendTaskCreated(toEmail, taskTitle, taskURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("新しいデザイン依頼: %s", taskTitle))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>新しいデザイン依頼が登録されました</h2>
			<p>依頼タイトル: <strong>%s</strong></p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">タスクを確認する</a>
			<p>Or copy this link:</p>
			<p>%s</p>
		</div>
	`, taskTitle, taskURL, taskURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send task notification to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Task notification sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendSubscriptionActivated(toEmail, planName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "サブスクリプションが有効になりました")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>お支払いありがとうございます</h2>
			<p>プラン <strong>%s</strong> が有効になりました。</p>
			<a href="%s/workspace" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">ワークスペースへ</a>
		</div>
	`, planName, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send subscription email to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Subscription email sent to %s\n", toEmail)
	return nil
}
