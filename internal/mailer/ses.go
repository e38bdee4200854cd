// internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the slice of the SES client the mailer uses, split out for
// mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer delivers through AWS SES.
type SESMailer struct {
	client SESAPI
	from   string
}

func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

// NewSESMailerWithClient injects a prebuilt client. Tests use it.
func NewSESMailerWithClient(client SESAPI, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

func (m *SESMailer) Send(ctx context.Context, msg Message) (Result, error) {
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.HTML)},
				Text: &types.Content{Data: aws.String(msg.Text)},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		return Result{}, err
	}

	return Result{MessageID: aws.ToString(out.MessageId)}, nil
}
