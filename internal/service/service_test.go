package service

import (
	"context"
	"errors"
	"time"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/pkg/logger"
)

var fixedNow = time.Date(2024, 5, 10, 13, 45, 30, 250*int(time.Millisecond), time.UTC)

var testCreds = chatvolt.StaticResolver{APIKey: "key", BaseURL: "http://chatvolt.test"}

// fakeSender records the payloads it receives and answers with a canned reply
type fakeSender struct {
	payloads []chatvolt.Payload
	reply    map[string]any
	err      error
}

func (f *fakeSender) Send(_ context.Context, _ chatvolt.Credentials, p chatvolt.Payload) (*chatvolt.Reply, error) {
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return nil, f.err
	}
	return &chatvolt.Reply{StatusCode: 200, Data: f.reply}, nil
}

// fakeStore records conversation log writes
type fakeStore struct {
	inserted  []*models.QuestionLog
	updates   [][3]string
	insertErr error
	updateErr error
}

func (f *fakeStore) Insert(_ context.Context, row *models.QuestionLog) error {
	f.inserted = append(f.inserted, row)
	return f.insertErr
}

func (f *fakeStore) UpdateAnswer(_ context.Context, question, student, answer string) error {
	f.updates = append(f.updates, [3]string{question, student, answer})
	return f.updateErr
}

var errNetwork = errors.New("dial tcp: connection refused")

func newTestChatService(sender Sender, resolver chatvolt.Resolver, exposeRaw bool) *ChatService {
	s := NewChatService(resolver, sender, nil, ChatServiceConfig{ExposeRawReply: exposeRaw}, logger.Discard())
	s.now = func() time.Time { return fixedNow }
	return s
}

func newTestExerciseService(sender Sender, resolver chatvolt.Resolver) *ExerciseService {
	s := NewExerciseService(resolver, sender, nil, logger.Discard())
	s.now = func() time.Time { return fixedNow }
	return s
}
