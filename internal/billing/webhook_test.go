package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

var eventPayload = []byte(`{
	"id": "evt_1",
	"type": "invoice.payment_failed",
	"data": {"object": {"customer": "cus_9", "customer_email": "payer@example.com"}}
}`)

func TestConstructEvent_ValidSignature(t *testing.T) {
	header := SignPayload(eventPayload, webhookSecret, time.Now())

	event, err := ConstructEvent(eventPayload, header, webhookSecret, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventInvoiceFailed, event.Type)
	assert.Equal(t, "payer@example.com", event.Data.Object.Email())
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	header := SignPayload(eventPayload, "whsec_other", time.Now())

	_, err := ConstructEvent(eventPayload, header, webhookSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	header := SignPayload(eventPayload, webhookSecret, time.Now())
	tampered := append([]byte{}, eventPayload...)
	tampered[len(tampered)-2] = ' '

	_, err := ConstructEvent(tampered, header, webhookSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEvent_StaleTimestamp(t *testing.T) {
	header := SignPayload(eventPayload, webhookSecret, time.Now().Add(-time.Hour))

	_, err := ConstructEvent(eventPayload, header, webhookSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	_, err := ConstructEvent(eventPayload, "not-a-signature", webhookSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestEventObjectEmail_FallsBackToCustomerDetails(t *testing.T) {
	o := EventObject{}
	o.CustomerDetails.Email = "nested@example.com"
	assert.Equal(t, "nested@example.com", o.Email())

	o.CustomerEmail = "flat@example.com"
	assert.Equal(t, "flat@example.com", o.Email())
}
