package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"learnity/config"
)

// SendEmail sends an HTML email via SMTP. Sending is skipped when no
// sender is configured so local environments stay quiet.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" {
		log.Printf("Email sending skipped (no EMAIL_SENDER configured): %s", subject)
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learnity <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3B6F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3B6F; line-height: 1.6; }
			.content h2 { color: #1B3B6F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.score-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #65C18C; margin: 20px 0; font-size: 18px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Learnity</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				You are receiving this email because you have a Learnity account.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendQuizPassedEmail congratulates a student on their first pass of a quiz
func SendQuizPassedEmail(email, name, quizTitle string, score int) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations! You passed the quiz <strong>%s</strong> for the first time.</p>
		<div class="score-box">Your score: <strong>%d%%</strong></div>
		<p>Keep going! Every quiz you pass earns XP toward your next level.</p>`,
		name, quizTitle, score)

	if err := SendEmail([]string{email}, "You passed "+quizTitle+"!", getEmailTemplate("Quiz passed!", body)); err != nil {
		log.Printf("Error sending quiz-passed email to %s: %v", email, err)
	}
}
