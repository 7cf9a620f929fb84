package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Event types.
const (
	EventAnalysisCompleted = "analysis.completed"
	EventAnalysisFailed    = "analysis.failed"
)

// Event announces the terminal state of an analysis.
type Event struct {
	Type         string    `json:"type"`
	AnalysisID   string    `json:"analysisId"`
	UserID       string    `json:"userId"`
	DocumentType string    `json:"documentType"`
	Status       string    `json:"status"`
	OverallScore *int      `json:"overallScore,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Publisher delivers analysis events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes events as JSON to a topic.
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
}

// NewSNSPublisher builds a publisher from the default AWS config chain.
func NewSNSPublisher(ctx context.Context, region, topicARN string) (*SNSPublisher, error) {
	topicARN = strings.TrimSpace(topicARN)
	if topicARN == "" {
		return nil, fmt.Errorf("sns topic arn is required")
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSNSPublisherWithAPI(sns.NewFromConfig(cfg), topicARN), nil
}

// NewSNSPublisherWithAPI wraps an existing SNS client.
func NewSNSPublisherWithAPI(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

// Publish sends evt with its type and document type as message attributes,
// so subscriptions can filter without parsing the body.
func (p *SNSPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	attrs := map[string]snstypes.MessageAttributeValue{
		"eventType": {DataType: aws.String("String"), StringValue: aws.String(evt.Type)},
	}
	if evt.DocumentType != "" {
		attrs["documentType"] = snstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(evt.DocumentType)}
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(p.topicARN),
		Message:           aws.String(string(body)),
		Subject:           aws.String(evt.Type),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("sns publish %s: %w", evt.Type, err)
	}
	return nil
}

var (
	_ Publisher = NopPublisher{}
	_ Publisher = (*SNSPublisher)(nil)
)
