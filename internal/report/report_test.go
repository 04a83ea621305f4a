package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/15Galan/h4-hash-cracker/internal/models"
)

const helloMD5 = "5d41402abc4b2a76b9719d911017c592"

func TestStatusLine(t *testing.T) {
	t.Parallel()

	found := models.Outcome{Hash: helloMD5, Found: true, Word: "hello", Algorithm: "md5"}
	assert.Equal(t, helloMD5+" : hello\t(md5)", StatusLine(found))

	missing := models.Outcome{Hash: helloMD5}
	assert.Equal(t, helloMD5+" * not found", StatusLine(missing))
}

func TestConsole_WithoutProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Attempt(helloMD5, "hi", "md5")
	c.Outcome(models.Outcome{Hash: helloMD5, Found: true, Word: "hello", Algorithm: "md5"})
	c.Outcome(models.Outcome{Hash: "ab"})

	assert.Equal(t, helloMD5+" : hello\t(md5)\nab * not found\n", buf.String())
}

func TestConsole_WithProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	c.Attempt("ab", "hi", "md5")
	c.Attempt("ab", "hello", "md5")
	c.Outcome(models.Outcome{Hash: "ab"})
	c.Outcome(models.Outcome{Hash: "cd"})

	want := "ab : hi\t(md5)\r" +
		"ab : hello\t(md5)\r" +
		clearLine + "ab * not found\n" +
		"cd * not found\n"
	assert.Equal(t, want, buf.String())
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}

	f.keys = append(f.keys, exchange+"/"+key)
	f.published = append(f.published, msg)

	return nil
}

func TestPublisher_Outcome(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := NewPublisher(ch, "hashcrack.outcomes", nil).ForRun("run-1")
	p.now = func() time.Time { return at }

	p.Attempt(helloMD5, "hello", "md5")
	p.Outcome(models.Outcome{Hash: helloMD5, Found: true, Word: "hello", Algorithm: "md5", Attempts: 2})

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"/hashcrack.outcomes"}, ch.keys)

	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "run-1:"+helloMD5, msg.MessageId)

	var event models.OutcomeEvent
	require.NoError(t, json.Unmarshal(msg.Body, &event))
	assert.Equal(t, models.OutcomeEvent{
		RunID:     "run-1",
		Hash:      helloMD5,
		Found:     true,
		Word:      "hello",
		Algorithm: "md5",
		Attempts:  2,
		At:        at,
	}, event)
}

func TestPublisher_FailureIsLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	ch := &fakeChannel{err: errors.New("channel closed")}

	p := NewPublisher(ch, "q", zap.New(core)).ForRun("run-2")

	assert.NotPanics(t, func() { p.Outcome(models.Outcome{Hash: helloMD5}) })

	entries := logs.FilterMessage("Failed to publish outcome event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run-2", entries[0].ContextMap()["run_id"])
}

type countingObserver struct {
	attempts int
	outcomes int
}

func (c *countingObserver) Attempt(string, string, string) { c.attempts++ }
func (c *countingObserver) Outcome(models.Outcome)         { c.outcomes++ }

func TestTee(t *testing.T) {
	t.Parallel()

	a, b := &countingObserver{}, &countingObserver{}
	obs := Tee(a, nil, b)

	obs.Attempt("h", "w", "md5")
	obs.Attempt("h", "w", "sha1")
	obs.Outcome(models.Outcome{Hash: "h"})

	assert.Equal(t, 2, a.attempts)
	assert.Equal(t, 1, a.outcomes)
	assert.Equal(t, 2, b.attempts)
	assert.Equal(t, 1, b.outcomes)
}
