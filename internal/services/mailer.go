package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

// InitMailer builds the SES client from the ambient AWS configuration.
// Call it once at startup; reminder emails are skipped when it fails.
func InitMailer() error {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())

	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	sesClient = ses.NewFromConfig(cfg)
	return nil
}

func sendEmail(to string, from string, subject string, body string) error {
	if sesClient == nil {
		return fmt.Errorf("mailer is not initialized")
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(from),
	}

	if _, err := sesClient.SendEmail(context.TODO(), input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}

	return nil
}

// SendAttendanceReminder emails the daily nudge to one user.
func SendAttendanceReminder(to string, firstName string, from string) error {
	today := time.Now()

	subject := fmt.Sprintf("Attendance Reminder - %s", today.Format("02 Jan 2006"))
	body := fmt.Sprintf(`Hi %s,

This is a quick reminder to mark your attendance for today, %s.

Stay consistent to meet your school day targets!

Best regards,
Rollcall Team
`, firstName, today.Format("Monday, 02 January 2006"))

	return sendEmail(to, from, subject, body)
}
