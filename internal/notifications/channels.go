package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// EmailSender delivers workflow email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers workflow SMS.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

type sesChannel struct {
	client *sesv2.Client
	sender string
}

// NewSESChannel creates an EmailSender backed by Amazon SES.
func NewSESChannel(ctx context.Context, region, sender string) (EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &sesChannel{client: sesv2.NewFromConfig(cfg), sender: sender}, nil
}

func (c *sesChannel) Send(ctx context.Context, to, subject, body string) error {
	_, err := c.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type snsChannel struct {
	client *sns.Client
}

// NewSNSChannel creates an SMSSender backed by Amazon SNS.
func NewSNSChannel(ctx context.Context, region string) (SMSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &snsChannel{client: sns.NewFromConfig(cfg)}, nil
}

func (c *snsChannel) Send(ctx context.Context, phoneNumber, message string) error {
	_, err := c.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
