package workerproc

import (
	"context"
	"errors"
	"testing"

	"recruit-backend/internal/queue"
)

type recordingProcessor struct {
	ids []string
	err error
}

func (p *recordingProcessor) ProcessAnalysis(_ context.Context, analysisID string) error {
	p.ids = append(p.ids, analysisID)
	return p.err
}

func TestParseMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want any
	}{
		{name: "empty", body: "  ", want: ErrEmptyBody{}},
		{name: "bad json", body: "{bad-json", want: ErrDecode{}},
		{name: "missing id", body: `{"requestId":"r1"}`, want: ErrMissingAnalysisID{}},
		{name: "newer version", body: `{"analysisId":"a1","version":9}`, want: ErrUnsupportedVersion{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseMessage(tc.body)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !Unrecoverable(err) {
				t.Fatalf("expected unrecoverable error, got %T", err)
			}
			switch tc.want.(type) {
			case ErrEmptyBody:
				var target ErrEmptyBody
				if !errors.As(err, &target) {
					t.Fatalf("expected ErrEmptyBody, got %T", err)
				}
			case ErrDecode:
				var target ErrDecode
				if !errors.As(err, &target) || target.Meta.BodySHA == "" {
					t.Fatalf("expected ErrDecode with meta, got %#v", err)
				}
			case ErrMissingAnalysisID:
				var target ErrMissingAnalysisID
				if !errors.As(err, &target) || target.RequestID != "r1" {
					t.Fatalf("expected ErrMissingAnalysisID with request id, got %#v", err)
				}
			case ErrUnsupportedVersion:
				var target ErrUnsupportedVersion
				if !errors.As(err, &target) || target.Version != 9 {
					t.Fatalf("expected ErrUnsupportedVersion, got %#v", err)
				}
			}
		})
	}
}

func TestParseMessageValid(t *testing.T) {
	body, err := queue.EncodeMessage(queue.Message{AnalysisID: "a1", RequestID: "r1", Version: queue.MessageVersion})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	msg, meta, err := ParseMessage(string(body))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.AnalysisID != "a1" || msg.RequestID != "r1" {
		t.Fatalf("unexpected message %#v", msg)
	}
	if meta.BodyLen != len(body) || len(meta.BodySHA) != 64 {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestHandleMessage(t *testing.T) {
	p := &recordingProcessor{}
	if err := HandleMessage(context.Background(), p, queue.Message{AnalysisID: "a1"}); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(p.ids) != 1 || p.ids[0] != "a1" {
		t.Fatalf("unexpected calls %v", p.ids)
	}

	p.err = errors.New("db down")
	err := HandleMessage(context.Background(), p, queue.Message{AnalysisID: "a2", RequestID: "r2"})
	var procErr ErrProcess
	if !errors.As(err, &procErr) || procErr.AnalysisID != "a2" || procErr.RequestID != "r2" {
		t.Fatalf("expected ErrProcess, got %#v", err)
	}
	if Unrecoverable(err) {
		t.Fatalf("processing errors must be retried")
	}

	if err := HandleMessage(context.Background(), nil, queue.Message{AnalysisID: "a3"}); err == nil {
		t.Fatalf("expected error without processor")
	}
}
