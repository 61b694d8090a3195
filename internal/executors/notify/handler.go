// internal/executors/notify/handler.go
package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// Handler delivers the user-facing confirmation over email and/or SMS.
// Notification steps are optional in every template: delivery failure never
// fails a plan, it only surfaces in the step result.
type Handler struct {
	cfg config.NotificationConfig
	ses SESService
	sns SNSService
	log logger.Logger
}

func NewHandler(cfg config.NotificationConfig, sesService SESService, snsService SNSService, log logger.Logger) *Handler {
	return &Handler{cfg: cfg, ses: sesService, sns: snsService, log: log}
}

func (h *Handler) Action() string { return "notify_user" }

func (h *Handler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	msg := buildMessage(step)
	email := executors.StringParam(step, "email")
	phone := executors.StringParam(step, "phone")

	var channels []string
	var firstErr error

	if h.cfg.Email.Enabled && email != "" && h.ses != nil {
		if err := h.sendEmail(ctx, email, msg); err != nil {
			firstErr = err
		} else {
			channels = append(channels, "email")
		}
	}
	if h.cfg.SMS.Enabled && phone != "" && h.sns != nil {
		if err := h.sendSMS(ctx, phone, msg); err != nil && firstErr == nil {
			firstErr = err
		} else if err == nil {
			channels = append(channels, "sms")
		}
	}

	if firstErr != nil && len(channels) == 0 {
		stdErr := errors.NewNotificationSendFailedError("all", firstErr)
		return &models.StepResult{
			Success:   false,
			ErrorCode: string(stdErr.Code),
			Error:     stdErr.Message,
		}, nil
	}

	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"channels": channels,
		"subject":  msg.Subject,
	}}, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, msg message) error {
	_, err := h.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(h.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(msg.Body)},
			},
		},
	})
	if err != nil {
		h.log.Error("Email delivery failed", map[string]interface{}{"error": err.Error()})
	}
	return err
}

func (h *Handler) sendSMS(ctx context.Context, phone string, msg message) error {
	_, err := h.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(msg.Body),
	})
	if err != nil {
		h.log.Error("SMS delivery failed", map[string]interface{}{"error": err.Error()})
	}
	return err
}
