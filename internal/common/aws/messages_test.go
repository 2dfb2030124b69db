// internal/common/aws/messages_test.go
package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextEmail(t *testing.T) {
	input := NewTextEmail("noreply@rentcheck.example", "renter@example.com", "Your result", "Score 80")

	assert.Equal(t, "noreply@rentcheck.example", aws.ToString(input.Source))
	assert.Equal(t, []string{"renter@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Your result", aws.ToString(input.Message.Subject.Data))
	require.NotNil(t, input.Message.Body.Text)
	assert.Equal(t, "Score 80", aws.ToString(input.Message.Body.Text.Data))
	assert.Nil(t, input.Message.Body.Html)
}

func TestNewTransactionalSMS(t *testing.T) {
	input := NewTransactionalSMS("+27821234567", "Score 80", "RentCheck")

	assert.Equal(t, "+27821234567", aws.ToString(input.PhoneNumber))
	assert.Equal(t, "Transactional", aws.ToString(input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))
	assert.Equal(t, "RentCheck", aws.ToString(input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))

	withoutSender := NewTransactionalSMS("+27821234567", "Score 80", "")
	_, ok := withoutSender.MessageAttributes["AWS.SNS.SMS.SenderID"]
	assert.False(t, ok)
}
