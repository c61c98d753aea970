package metrics

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "StoryAPI"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a new CloudWatch metrics client.
// Metrics are only shipped in production; elsewhere the client is a no-op.
func NewClient(ctx context.Context, environment string) (*Client, error) {
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false, environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
	}, nil
}

// Enabled reports whether datapoints are sent to CloudWatch
func (m *Client) Enabled() bool {
	return m != nil && m.enabled && m.client != nil
}

// RecordAPIRequest records request count and latency per route
func (m *Client) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	metricName := "APIRequests"
	if statusCode >= httpStatusServerError {
		metricName = "APIErrors"
	}
	dims := m.dimensions("Endpoint", endpoint)

	m.send([]types.MetricDatum{
		datum(metricName, 1, types.StandardUnitCount, dims),
		datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dims),
	})
}

// RecordGeneration records duration and token usage of a story completion
func (m *Client) RecordGeneration(_ context.Context, g Generation) {
	if !m.Enabled() {
		return
	}

	durationDims := m.dimensions("Style", g.Style)
	durationDims = append(durationDims, types.Dimension{
		Name:  aws.String("Success"),
		Value: aws.String(strconv.FormatBool(g.Success)),
	})
	data := []types.MetricDatum{
		datum("GenerationDuration", float64(g.Duration.Milliseconds()), types.StandardUnitMilliseconds, durationDims),
	}

	if g.Success {
		tokenDims := m.dimensions("Model", g.Model)
		data = append(data,
			datum("StoryTokens/Total", float64(g.TotalTokens), types.StandardUnitCount, tokenDims),
			datum("StoryTokens/Input", float64(g.InputTokens), types.StandardUnitCount, tokenDims),
			datum("StoryTokens/Output", float64(g.OutputTokens), types.StandardUnitCount, tokenDims),
		)
	}

	m.send(data)
}

// RecordConfigError counts requests refused for a missing credential
func (m *Client) RecordConfigError(_ context.Context, provider string) {
	if !m.Enabled() {
		return
	}
	m.send([]types.MetricDatum{
		datum("ConfigErrors", 1, types.StandardUnitCount, m.dimensions("Provider", provider)),
	})
}

func (m *Client) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{
			Name:  aws.String(name),
			Value: aws.String(value),
		},
		{
			Name:  aws.String("Environment"),
			Value: aws.String(m.environment),
		},
	}
}

// send ships datapoints in the background so requests never wait on CloudWatch
func (m *Client) send(data []types.MetricDatum) {
	go func() {
		timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(namespace),
			MetricData: data,
		})
		if err != nil {
			log.Printf("Failed to put %d CloudWatch datapoints: %v", len(data), err)
		}
	}()
}

func datum(name string, value float64, unit types.StandardUnit, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: dims,
	}
}
