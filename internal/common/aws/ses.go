// internal/common/aws/ses.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESClient delivers the copilot's confirmation emails (approval requested,
// funds moved). It satisfies the notify executor's SESService interface;
// tests substitute a recorder.
type SESClient struct {
	client *ses.Client
}

// NewSESClient resolves the default AWS credential chain for the configured
// region. Called once at startup; a failure downgrades email notifications
// instead of aborting the service.
func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}
