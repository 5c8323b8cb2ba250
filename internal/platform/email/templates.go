package email

import (
	"fmt"
	"html"
	"time"
)

// Message is a rendered subject and HTML body.
type Message struct {
	Subject string
	Body    string
}

func wrap(greeting, content string) string {
	return fmt.Sprintf("<html><body><p>Hi %s,</p>%s<p>The Workforce Team</p></body></html>", html.EscapeString(greeting), content)
}

func ApplicationReceived(firstName string) Message {
	return Message{
		Subject: "We received your application",
		Body:    wrap(firstName, "<p>Thanks for applying. We will review your application and contact you soon.</p>"),
	}
}

func ApplicationApproved(firstName, freelancerCode, loginEmail, temporaryPassword, loginURL string) Message {
	content := fmt.Sprintf(
		"<p>Your application has been approved. Your freelancer ID is <strong>%s</strong>.</p>"+
			"<p>Sign in at <a href=\"%s\">%s</a> with <strong>%s</strong> and the temporary password <code>%s</code>. Please change it after your first login.</p>",
		html.EscapeString(freelancerCode),
		html.EscapeString(loginURL), html.EscapeString(loginURL),
		html.EscapeString(loginEmail), html.EscapeString(temporaryPassword),
	)
	return Message{Subject: "Your application has been approved", Body: wrap(firstName, content)}
}

func ApplicationRejected(firstName, reason string) Message {
	content := fmt.Sprintf("<p>Thank you for your interest. After review we are unable to move forward with your application.</p><p>Reason: %s</p>", html.EscapeString(reason))
	return Message{Subject: "Application status update", Body: wrap(firstName, content)}
}

func ProjectAssigned(firstName, projectName, projectCode string, startDate time.Time) Message {
	content := fmt.Sprintf("<p>You have been assigned to <strong>%s</strong> (%s) starting %s.</p>",
		html.EscapeString(projectName), html.EscapeString(projectCode), startDate.Format("2006-01-02"))
	return Message{Subject: "New project assignment: " + projectName, Body: wrap(firstName, content)}
}

func PerformanceReview(firstName string, overallScore *float64, recordDate time.Time) Message {
	score := "N/A"
	if overallScore != nil {
		score = fmt.Sprintf("%.2f", *overallScore)
	}
	content := fmt.Sprintf("<p>A new performance review dated %s is available. Overall score: <strong>%s</strong>.</p>",
		recordDate.Format("2006-01-02"), score)
	return Message{Subject: "New performance review available", Body: wrap(firstName, content)}
}

func TierChanged(firstName, from, to string) Message {
	content := fmt.Sprintf("<p>Your classification changed from <strong>%s</strong> to <strong>%s</strong>.</p>",
		html.EscapeString(from), html.EscapeString(to))
	return Message{Subject: "Your tier has been updated", Body: wrap(firstName, content)}
}

func PaymentStatus(firstName string, month, year int, status, amount string) Message {
	content := fmt.Sprintf("<p>Your payment for %02d/%d is now <strong>%s</strong>. Amount: %s.</p>",
		month, year, html.EscapeString(status), html.EscapeString(amount))
	return Message{Subject: "Payment update", Body: wrap(firstName, content)}
}
