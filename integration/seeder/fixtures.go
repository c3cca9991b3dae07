// Package seeder writes Lambda style log groups into a CloudWatch Logs
// endpoint, usually LocalStack, so the e2e suite has something to browse.
package seeder

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one line of a fixture, stamped relative to the seeding time.
type Event struct {
	Offset  time.Duration
	Message string
}

// Fixture is the content of one function log group.
type Fixture struct {
	Name     string
	Function string
	Events   []Event
}

type structured struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
	LatencyMs int    `json:"latency_ms,omitempty"`
}

func jsonLine(level, message, requestID string, latency int) string {
	b, _ := json.Marshal(structured{Level: level, Message: message, RequestID: requestID, LatencyMs: latency})
	return string(b)
}

func invocation(requestID string, body ...string) []string {
	lines := []string{fmt.Sprintf("START RequestId: %s Version: $LATEST", requestID)}
	lines = append(lines, body...)
	return append(lines,
		fmt.Sprintf("END RequestId: %s", requestID),
		fmt.Sprintf("REPORT RequestId: %s Duration: 12.34 ms Billed Duration: 13 ms Memory Size: 128 MB Max Memory Used: 64 MB", requestID),
	)
}

func spread(start time.Duration, lines []string) []Event {
	events := make([]Event, len(lines))
	for i, line := range lines {
		events[i] = Event{Offset: start + time.Duration(i)*time.Second, Message: line}
	}
	return events
}

// Fixture names known by Fixtures.
const (
	FixtureOrders   = "orders"
	FixturePayments = "payments"
	FixtureCron     = "cron"
)

// Fixtures returns the fixtures of a run. Function names carry the run id
// so concurrent runs against the same endpoint do not see each other.
//
//   - orders: 10 invocations of 4 lines in the last hour
//   - payments: 5 invocations of 5 lines, 2 of them timing out
//   - cron: one line 30 hours ago, one 10 minutes ago
func Fixtures(runID string) map[string]Fixture {
	fixtures := map[string]Fixture{}

	var orders []Event
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("orders-%03d", i+1)
		lines := invocation(id, jsonLine("INFO", fmt.Sprintf("processing order %d", i+1), id, 20+i))
		orders = append(orders, spread(-time.Duration(50-i*4)*time.Minute, lines)...)
	}
	fixtures[FixtureOrders] = Fixture{Name: FixtureOrders, Function: "orders-" + runID, Events: orders}

	var payments []Event
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("payments-%03d", i+1)
		level, body := "INFO", "payment accepted"
		if i%2 == 1 {
			level, body = "ERROR", "payment gateway timed out"
		}
		lines := invocation(id, jsonLine(level, body, id, 900), fmt.Sprintf("%s plain text line for %s", level, id))
		payments = append(payments, spread(-time.Duration(20-i*3)*time.Minute, lines)...)
	}
	fixtures[FixturePayments] = Fixture{Name: FixturePayments, Function: "payments-" + runID, Events: payments}

	fixtures[FixtureCron] = Fixture{Name: FixtureCron, Function: "cron-" + runID, Events: []Event{
		{Offset: -30 * time.Hour, Message: "WARN cold start took 3s"},
		{Offset: -10 * time.Minute, Message: "INFO recent cron tick"},
	}}

	return fixtures
}
