package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/bilal-alaabadi/arkan-b/models"
)

const orderPaidEventType = "order.paid"

// SNSOrderEvents publishes order lifecycle events to an SNS topic.
type SNSOrderEvents struct {
	client   *sns.Client
	topicARN string
}

// NewSNSOrderEvents creates an SNS-backed publisher using the default AWS
// config chain.
func NewSNSOrderEvents(ctx context.Context, topicARN string) (*SNSOrderEvents, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if topicARN == "" {
		return nil, fmt.Errorf("order events topic ARN not set")
	}

	return &SNSOrderEvents{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

// PublishOrderPaid publishes an order.paid event for a confirmed order.
func (p *SNSOrderEvents) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	payload := map[string]interface{}{
		"event_type":      orderPaidEventType,
		"order_reference": order.OrderReference,
		"amount":          order.Amount,
		"deposit_mode":    order.DepositMode,
		"paid_at":         order.PaidAt,
	}

	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(msgBytes)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(orderPaidEventType),
			},
		},
	})
	return err
}
