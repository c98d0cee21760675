package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/osa911/formrelay/internal/tenant"
)

// sesAPI is the part of the SES v2 client the transport uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESTransport sends raw MIME messages through Amazon SES v2.
type SESTransport struct {
	client sesAPI
	region string
}

// NewSESTransport creates an SES client for the transporter. Static keys are
// used when configured, otherwise the default AWS credential chain.
func NewSESTransport(ctx context.Context, t *tenant.Transporter) (*SESTransport, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(t.Region),
	}
	if t.AccessKey != "" && t.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(t.AccessKey, t.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESTransport{
		client: sesv2.NewFromConfig(awsCfg),
		region: t.Region,
	}, nil
}

// Send implements Transport.
func (s *SESTransport) Send(ctx context.Context, msg *Message) error {
	raw, err := msg.Bytes()
	if err != nil {
		return err
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From.Email),
		Destination: &types.Destination{
			ToAddresses: msg.Recipients(),
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send in %s failed: %w", s.region, err)
	}
	return nil
}
