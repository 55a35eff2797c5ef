package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

// subject decodes the RFC 2047 form gomail stores for non-ASCII headers.
func subject(t *testing.T, m *gomail.Message) string {
	t.Helper()
	raw := m.GetHeader("Subject")
	require.Len(t, raw, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(raw[0])
	require.NoError(t, err)
	return decoded
}

func TestDeliver_RoutesByKind(t *testing.T) {
	d := &captureDialer{}
	svc := newEmailService(d, "klub@example.com", "Klub", "http://front", logger.NewNopLogger())

	require.NoError(t, Deliver(svc, Job{Kind: JobTrainerCredentials, To: "t@example.com", Name: "Jan", Data: map[string]string{"password": "Abc!A1"}}))
	require.NoError(t, Deliver(svc, Job{Kind: JobPaymentFailed, To: "u@example.com", Name: "Ola", Data: map[string]string{"class_name": "Boks"}}))

	require.Len(t, d.sent, 2)
	assert.Equal(t, []string{"t@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, "Dane logowania do konta trenera", subject(t, d.sent[0]))
	assert.Equal(t, "Płatność za karnet nie powiodła się", subject(t, d.sent[1]))
}

func TestDeliver_UnknownKind(t *testing.T) {
	svc := newEmailService(&captureDialer{}, "klub@example.com", "Klub", "", logger.NewNopLogger())

	assert.ErrorIs(t, Deliver(svc, Job{Kind: "newsletter", To: "a@b.c"}), ErrUnknownJob)
	assert.ErrorIs(t, Deliver(svc, Job{Kind: JobWelcome}), ErrUnknownJob)
}

func TestDeliver_SendFailure(t *testing.T) {
	svc := newEmailService(&captureDialer{err: errors.New("smtp down")}, "klub@example.com", "Klub", "", logger.NewNopLogger())

	assert.Error(t, Deliver(svc, Job{Kind: JobWelcome, To: "a@b.c", Name: "A"}))
}

func TestQueue_Enqueue(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, "email_jobs")
	require.NoError(t, err)

	q := NewQueue(pubSub, "email_jobs")
	require.NoError(t, q.Enqueue(ctx, Job{Kind: JobWelcome, To: "a@b.c", Name: "A"}))

	select {
	case msg := <-messages:
		var job Job
		require.NoError(t, json.Unmarshal(msg.Payload, &job))
		assert.Equal(t, JobWelcome, job.Kind)
		assert.Equal(t, JobWelcome, msg.Metadata.Get("kind"))
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("job was not published")
	}
}
