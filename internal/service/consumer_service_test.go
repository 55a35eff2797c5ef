package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emailRecorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (e *emailRecorder) record(call string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
	return e.err
}

func (e *emailRecorder) SendWelcome(to, name string) error { return e.record("welcome:" + to) }
func (e *emailRecorder) SendTrainerCredentials(to, name, password string) error {
	return e.record("credentials:" + to)
}
func (e *emailRecorder) SendPaymentFailed(to, name, className string) error {
	return e.record("payment_failed:" + to)
}

func (e *emailRecorder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func TestConsumerDeliversQueuedJobs(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()
	recorder := &emailRecorder{}
	cs := NewConsumerService(pubSub, "email_jobs", recorder, newFixture(t).log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cs.Consume(ctx))

	queue := mailer.NewQueue(pubSub, "email_jobs")
	require.NoError(t, queue.Enqueue(ctx, mailer.Job{Kind: mailer.JobWelcome, To: "jan@example.com", Name: "Jan"}))

	assert.Eventually(t, func() bool { return recorder.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestConsumerProcessMessage(t *testing.T) {
	welcome, err := json.Marshal(mailer.Job{Kind: mailer.JobWelcome, To: "a@b.pl"})
	require.NoError(t, err)
	sms, err := json.Marshal(mailer.Job{Kind: "sms", To: "a@b.pl"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload []byte
		sendErr error
		acked   bool
	}{
		{name: "sent", payload: welcome, acked: true},
		{name: "malformed", payload: []byte("{"), acked: true},
		{name: "unknown kind", payload: sms, acked: true},
		{name: "send failure", payload: welcome, sendErr: errors.New("smtp down"), acked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewConsumerService(nil, "email_jobs", &emailRecorder{err: tt.sendErr}, newFixture(t).log).(*consumerService)
			msg := message.NewMessage(watermill.NewUUID(), tt.payload)

			cs.processMessage(msg)

			select {
			case <-msg.Acked():
				assert.True(t, tt.acked, "unexpected ack")
			case <-msg.Nacked():
				assert.False(t, tt.acked, "unexpected nack")
			default:
				t.Fatal("message was neither acked nor nacked")
			}
		})
	}
}

func TestConsumerGivesUpAfterMaxAttempts(t *testing.T) {
	recorder := &emailRecorder{err: errors.New("smtp down")}
	cs := NewConsumerService(nil, "email_jobs", recorder, newFixture(t).log).(*consumerService)
	payload, err := json.Marshal(mailer.Job{Kind: mailer.JobWelcome, To: "a@b.pl"})
	require.NoError(t, err)
	id := watermill.NewUUID()

	var last *message.Message
	for i := 0; i < maxEmailAttempts; i++ {
		last = message.NewMessage(id, payload)
		cs.processMessage(last)
	}

	select {
	case <-last.Acked():
	default:
		t.Fatal("expected the final attempt to be acked")
	}
	assert.Equal(t, maxEmailAttempts, recorder.count())
}
