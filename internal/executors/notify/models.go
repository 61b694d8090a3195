// internal/executors/notify/models.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// SESService is the email-sending surface, satisfied by aws.SESClient and
// mocked in tests.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SNSService is the SMS-sending surface, satisfied by aws.SNSClient.
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// message is the rendered notification content.
type message struct {
	Subject string
	Body    string
}

// buildMessage renders a short confirmation from the step parameters.
func buildMessage(step *models.PlanStep) message {
	amount, hasAmount := executors.AmountCents(step)
	currency := executors.StringParam(step, "currency")
	merchant := executors.StringParam(step, "merchant")

	switch {
	case hasAmount && merchant != "":
		return message{
			Subject: "Payment confirmation",
			Body:    fmt.Sprintf("Your payment of $%.2f %s to %s went through.", float64(amount)/100, currency, merchant),
		}
	case hasAmount:
		return message{
			Subject: "Transaction confirmation",
			Body:    fmt.Sprintf("Your transaction of $%.2f %s completed.", float64(amount)/100, currency),
		}
	default:
		return message{
			Subject: "Action completed",
			Body:    "Your requested action completed successfully.",
		}
	}
}
