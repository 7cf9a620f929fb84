package workerproc

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestHandleSQSEventReportsOnlyRetryableFailures(t *testing.T) {
	proc := &mapProcessor{fails: map[string]error{"a-2": errors.New("store down")}}
	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: body(t, "a-1")},
		{MessageId: "m2", Body: body(t, "a-2")},
		{MessageId: "m3", Body: "not json"},
		{MessageId: "m4", Body: ""},
		{MessageId: "m5", Body: body(t, "boom")},
	}}

	resp := HandleSQSEvent(context.Background(), proc, event)

	var ids []string
	for _, f := range resp.BatchItemFailures {
		ids = append(ids, f.ItemIdentifier)
	}
	assert.Equal(t, []string{"m2", "m5"}, ids)
	assert.Equal(t, []string{"a-1", "a-2", "boom"}, proc.seen)
}

func TestHandleSQSEventEmptyBatch(t *testing.T) {
	resp := HandleSQSEvent(context.Background(), &mapProcessor{}, events.SQSEvent{})
	assert.NotNil(t, resp.BatchItemFailures)
	assert.Empty(t, resp.BatchItemFailures)
}

func TestFailAll(t *testing.T) {
	resp := FailAll(events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m1"}, {MessageId: "m2"}}})
	assert.Len(t, resp.BatchItemFailures, 2)
	assert.Equal(t, "m2", resp.BatchItemFailures[1].ItemIdentifier)
}
