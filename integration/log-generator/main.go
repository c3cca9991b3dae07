// Command log-generator seeds the function log groups used by the e2e
// suite into LocalStack.
//
//	LOCALSTACK_URL=http://localhost:4566 RUN_ID=dev go run ./integration/log-generator
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bascanada/lambdalogs/integration/seeder"
	"github.com/bascanada/lambdalogs/pkg/log"
)

func main() {
	if err := run(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	if err := log.ConfigureMyLogger(&log.MyLoggerOptions{Stdout: true, Level: "INFO"}); err != nil {
		return err
	}

	endpoint := os.Getenv("LOCALSTACK_URL")
	if endpoint == "" {
		endpoint = "http://localhost:4566"
	}
	runID := os.Getenv("RUN_ID")
	if runID == "" {
		runID = fmt.Sprintf("dev-%d", time.Now().Unix())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := seeder.NewLocalStack(ctx, endpoint, os.Getenv("AWS_REGION"))
	if err != nil {
		return err
	}

	all := seeder.Fixtures(runID)
	names := selected(os.Getenv("FIXTURES"), all)

	fixtures := make([]seeder.Fixture, 0, len(names))
	for _, name := range names {
		f, ok := all[name]
		if !ok {
			return fmt.Errorf("fixture %q not found", name)
		}
		fixtures = append(fixtures, f)
	}

	seeded, err := s.Seed(ctx, fixtures...)
	if err != nil {
		return err
	}
	log.Info("run %s seeded %v into %s", runID, seeded, endpoint)
	return nil
}

// selected parses a comma separated fixture list, all of them when empty.
func selected(env string, all map[string]seeder.Fixture) []string {
	var names []string
	if env == "" {
		for name := range all {
			names = append(names, name)
		}
	} else {
		for _, name := range strings.Split(env, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
