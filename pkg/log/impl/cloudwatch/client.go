package cloudwatch

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
)

const (
	DefaultLogGroupPrefix = "/aws/lambda/"
	DefaultPageSize       = 100
)

// CWClient defines the interface for the AWS CloudWatch Logs client.
// This is used to allow for mocking in tests.
type CWClient interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
}

// Options of a CloudWatchLogClient.
type Options struct {
	Profile        string
	Region         string
	Endpoint       string
	LogGroupPrefix string
	PageSize       int
}

func (o *Options) defaults() {
	if o.LogGroupPrefix == "" {
		o.LogGroupPrefix = DefaultLogGroupPrefix
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
}

// CloudWatchLogClient implements the client.LogClient interface for the log
// groups of Lambda functions.
type CloudWatchLogClient struct {
	client  CWClient
	options Options
}

// NewCloudWatchLogClient wraps an existing SDK client.
func NewCloudWatchLogClient(cw CWClient, options Options) *CloudWatchLogClient {
	options.defaults()
	return &CloudWatchLogClient{client: cw, options: options}
}

// LogGroupName returns the log group of a function.
func (c *CloudWatchLogClient) LogGroupName(function string) string {
	return c.options.LogGroupPrefix + function
}

// ListFunctions lists the log groups under the prefix and strips it.
func (c *CloudWatchLogClient) ListFunctions(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	functions := []string{}

	var token *string
	for {
		out, err := c.client.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
			LogGroupNamePrefix: aws.String(c.options.LogGroupPrefix),
			NextToken:          token,
		})
		if err != nil {
			return nil, client.NewFetchError(client.OpListFunctions, c.options.Profile, "", err)
		}

		for _, group := range out.LogGroups {
			name := strings.TrimPrefix(aws.ToString(group.LogGroupName), c.options.LogGroupPrefix)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			functions = append(functions, name)
		}

		if out.NextToken == nil || aws.ToString(out.NextToken) == aws.ToString(token) {
			break
		}
		token = out.NextToken
	}

	sort.Strings(functions)

	log.Debug("listed %d functions profile=%s", len(functions), c.options.Profile)

	return functions, nil
}

// FetchLogs drains FilterLogEvents for the function log group between from
// and to.
func (c *CloudWatchLogClient) FetchLogs(ctx context.Context, function string, from, to time.Time) ([]client.LogEntry, error) {
	logGroup := c.LogGroupName(function)
	seen := map[string]bool{}
	entries := []client.LogEntry{}
	pages := 0

	var token *string
	for {
		out, err := c.client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(logGroup),
			StartTime:    aws.Int64(from.UnixMilli()),
			EndTime:      aws.Int64(to.UnixMilli()),
			Limit:        aws.Int32(int32(c.options.PageSize)),
			NextToken:    token,
		})
		if err != nil {
			return nil, client.NewFetchError(client.OpFetchLogs, c.options.Profile, function, err)
		}
		pages++

		for _, event := range out.Events {
			if id := aws.ToString(event.EventId); id != "" {
				if seen[id] {
					continue
				}
				seen[id] = true
			}
			entries = append(entries, client.LogEntry{
				Timestamp:     aws.ToInt64(event.Timestamp),
				Message:       aws.ToString(event.Message),
				IngestionTime: aws.ToInt64(event.IngestionTime),
			})
		}

		log.Trace("page %d of %s has %d events", pages, logGroup, len(out.Events))

		if out.NextToken == nil || aws.ToString(out.NextToken) == aws.ToString(token) {
			break
		}
		token = out.NextToken
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp < entries[j].Timestamp })

	log.Debug("fetched %d events in %d pages group=%s", len(entries), pages, logGroup)

	return entries, nil
}

// GetLogClient creates a new CloudWatch Logs client.
// It uses the region, profile and endpoint of the options if provided.
func GetLogClient(ctx context.Context, options Options) (*CloudWatchLogClient, error) {
	var cfgOptions []func(*config.LoadOptions) error

	// If a region is specified in the config, add it to the SDK options.
	if options.Region != "" {
		cfgOptions = append(cfgOptions, config.WithRegion(options.Region))
	}

	// If a profile is specified, add it to the SDK options.
	if options.Profile != "" {
		cfgOptions = append(cfgOptions, config.WithSharedConfigProfile(options.Profile))
	}

	// Load the default AWS configuration, applying our custom options.
	cfg, err := config.LoadDefaultConfig(ctx, cfgOptions...)
	if err != nil {
		return nil, err
	}

	var clientOptions []func(*cloudwatchlogs.Options)
	if options.Endpoint != "" {
		endpoint := options.Endpoint
		clientOptions = append(clientOptions, func(o *cloudwatchlogs.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return NewCloudWatchLogClient(cloudwatchlogs.NewFromConfig(cfg, clientOptions...), options), nil
}
