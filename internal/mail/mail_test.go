package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessage = Message{
	ClaimantEmail: "alice@example.com",
	ClaimantName:  "Alice",
	AssigneeName:  "Bob",
	ClaimID:       "claim-1",
	Description:   "Hail damage to roof",
}

func TestMessage_Content(t *testing.T) {
	assert.Equal(t, "Your claim claim-1 has been assigned", testMessage.Subject())

	body := testMessage.Body()
	assert.Contains(t, body, "Hello Alice")
	assert.Contains(t, body, "accepted by Bob")
	assert.Contains(t, body, "Hail damage to roof")
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := &SESSender{client: api, from: "noreply@claims.local"}

	require.NoError(t, sender.Send(context.Background(), testMessage))
	require.NotNil(t, api.input)

	assert.Equal(t, "noreply@claims.local", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"alice@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, testMessage.Subject(), aws.ToString(api.input.Message.Subject.Data))
	assert.Equal(t, testMessage.Body(), aws.ToString(api.input.Message.Body.Text.Data))
	assert.Equal(t, "UTF-8", aws.ToString(api.input.Message.Body.Text.Charset))
}

func TestSESSender_SendError(t *testing.T) {
	sender := &SESSender{client: &fakeSES{err: errors.New("throttled")}, from: "noreply@claims.local"}

	err := sender.Send(context.Background(), testMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sender.Send(context.Background(), testMessage))
	assert.Contains(t, buf.String(), `"to":"alice@example.com"`)
	assert.Contains(t, buf.String(), `"claim_id":"claim-1"`)
}

type stubSender struct {
	mu    sync.Mutex
	calls int
	err   error
	delay time.Duration
}

func (s *stubSender) Send(ctx context.Context, _ Message) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func TestDispatcher_Dispatch(t *testing.T) {
	sender := &stubSender{}
	d := NewDispatcher(sender, time.Second, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	for i := 0; i < 3; i++ {
		d.Dispatch(testMessage)
	}
	d.Wait()

	assert.Equal(t, 3, sender.calls)
}

func TestDispatcher_FailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(&stubSender{err: errors.New("smtp down")}, time.Second, slog.New(slog.NewJSONHandler(&buf, nil)))

	d.Dispatch(testMessage)
	d.Wait()

	assert.Contains(t, buf.String(), "Mail dispatch failed")
	assert.Contains(t, buf.String(), "smtp down")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestDispatcher_Timeout(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(&stubSender{delay: time.Second}, 20*time.Millisecond, slog.New(slog.NewJSONHandler(&buf, nil)))

	start := time.Now()
	d.Dispatch(testMessage)
	d.Wait()

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Contains(t, buf.String(), "deadline exceeded")
}

func TestDispatcher_Close(t *testing.T) {
	d := NewDispatcher(&stubSender{delay: time.Second}, 0, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	d.Dispatch(testMessage)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	require.NoError(t, d.Close(context.Background()))
}
