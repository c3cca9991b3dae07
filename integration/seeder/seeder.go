package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/google/uuid"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/impl/cloudwatch"
)

// API is the part of the CloudWatch Logs client used to write fixtures.
type API interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// Seeder writes fixtures under a log group prefix.
type Seeder struct {
	api    API
	prefix string
	now    func() time.Time
}

// New returns a Seeder writing under prefix, defaulting to /aws/lambda/.
func New(api API, prefix string) *Seeder {
	if prefix == "" {
		prefix = cloudwatch.DefaultLogGroupPrefix
	}
	return &Seeder{api: api, prefix: prefix, now: time.Now}
}

// NewLocalStack connects to a LocalStack endpoint with static test
// credentials.
func NewLocalStack(ctx context.Context, endpoint, region string) (*Seeder, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	api := cloudwatchlogs.NewFromConfig(cfg, func(o *cloudwatchlogs.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return New(api, ""), nil
}

// Seed writes every fixture in its own log group and returns the number of
// events written per fixture name.
func (s *Seeder) Seed(ctx context.Context, fixtures ...Fixture) (map[string]int, error) {
	seeded := make(map[string]int, len(fixtures))
	for _, f := range fixtures {
		n, err := s.seed(ctx, f)
		if err != nil {
			return seeded, fmt.Errorf("seeding fixture %s: %w", f.Name, err)
		}
		seeded[f.Name] = n
		log.Info("seeded fixture=%s function=%s events=%d", f.Name, f.Function, n)
	}
	return seeded, nil
}

func (s *Seeder) seed(ctx context.Context, f Fixture) (int, error) {
	group := s.prefix + f.Function

	_, err := s.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: aws.String(group)})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return 0, err
	}

	stream := fmt.Sprintf("%s/[$LATEST]%s", s.now().UTC().Format("2006/01/02"), uuid.NewString())
	if _, err := s.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
	}); err != nil {
		return 0, err
	}

	events := s.events(f)
	if len(events) == 0 {
		return 0, nil
	}
	if _, err := s.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
		LogEvents:     events,
	}); err != nil {
		return 0, err
	}
	return len(events), nil
}

// events stamps the fixture relative to now, in chronological order as
// PutLogEvents requires.
func (s *Seeder) events(f Fixture) []types.InputLogEvent {
	now := s.now()
	events := make([]types.InputLogEvent, 0, len(f.Events))
	for _, e := range f.Events {
		events = append(events, types.InputLogEvent{
			Timestamp: aws.Int64(now.Add(e.Offset).UnixMilli()),
			Message:   aws.String(e.Message),
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return *events[i].Timestamp < *events[j].Timestamp
	})
	return events
}
