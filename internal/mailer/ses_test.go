// internal/mailer/ses_test.go
package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSESClient struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

func TestSESMailer_Send(t *testing.T) {
	var captured *ses.SendEmailInput
	client := &mockSESClient{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			captured = params
			return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
		},
	}

	m := NewSESMailerWithClient(client, "noreply@example.com")
	res, err := m.Send(context.Background(), Message{
		To:      "maria@example.com",
		Subject: "Reminder",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-123", res.MessageID)

	require.NotNil(t, captured)
	assert.Equal(t, "noreply@example.com", aws.ToString(captured.Source))
	assert.Equal(t, []string{"maria@example.com"}, captured.Destination.ToAddresses)
	assert.Equal(t, "Reminder", aws.ToString(captured.Message.Subject.Data))
}

func TestSESMailer_SendFailure(t *testing.T) {
	client := &mockSESClient{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	m := NewSESMailerWithClient(client, "noreply@example.com")
	_, err := m.Send(context.Background(), Message{To: "maria@example.com"})
	assert.Error(t, err)
}
