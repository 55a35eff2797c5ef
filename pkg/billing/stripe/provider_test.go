package stripe

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
)

const testSecret = "whsec_test"

func TestConstructEvent(t *testing.T) {
	p := NewProvider("sk_test", testSecret)
	body := []byte(`{"id":"evt_1","object":"event","type":"invoice.payment_failed",
		"data":{"object":{"id":"in_1","subscription":"sub_1"}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: testSecret})

	event, err := p.ConstructEvent(body, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.Id)
	assert.Equal(t, billing.EventInvoicePaymentFailed, event.Type)

	inv, err := billing.Decode[billing.InvoicePayload](event.Object)
	require.NoError(t, err)
	assert.Equal(t, "sub_1", inv.SubscriptionID())
}

func TestConstructEvent_BadSignature(t *testing.T) {
	p := NewProvider("sk_test", testSecret)

	_, err := p.ConstructEvent([]byte(`{"id":"evt_1"}`), "t=1,v1=deadbeef")
	assert.True(t, apperror.IsKind(err, apperror.KindSignature))
}

func TestConstructEvent_MissingSecret(t *testing.T) {
	p := NewProvider("sk_test", "")

	_, err := p.ConstructEvent([]byte(`{}`), "")
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))
}

func TestOutboundCallsRequireKey(t *testing.T) {
	p := NewProvider("", testSecret)

	_, err := p.GetSubscription(t.Context(), "sub_1")
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))
}

func TestGetSubscription_ReadsItemLevelPeriod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/sub_42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_42","object":"subscription","status":"active",
			"customer":"cus_7","cancel_at_period_end":false,
			"items":{"object":"list","data":[{"id":"si_1","current_period_start":1740787200,"current_period_end":1743465600}]}}`))
	}))
	defer srv.Close()

	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(srv.URL),
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	})
	p := NewProviderWithBackends("sk_test", testSecret, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})

	sub, err := p.GetSubscription(t.Context(), "sub_42")
	require.NoError(t, err)
	assert.Equal(t, "cus_7", sub.CustomerId)
	assert.Equal(t, billing.PeriodFromItem, sub.Period.Source)
	assert.True(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Equal(sub.Period.End))
}
