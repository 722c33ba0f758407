// Package seed fills a store with random demo incidents.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"golang.org/x/sync/errgroup"
)

// DefaultCount is how many incidents a seed run creates.
const DefaultCount = 200

// Services are the service names assigned to seeded incidents.
var Services = []string{"API", "Database", "Auth", "Payment"}

// Owners are the owner names assigned to seeded incidents.
var Owners = []string{
	"John Smith",
	"Sarah Johnson",
	"Michael Brown",
	"Emily Davis",
	"David Wilson",
	"Jessica Martinez",
	"James Anderson",
	"Amanda Taylor",
	"Robert Thomas",
	"Jennifer Garcia",
	"William Jackson",
	"Elizabeth White",
	"Richard Harris",
	"Maria Martin",
	"Charles Thompson",
	"Lisa Robinson",
	"Christopher Lee",
	"Nancy Clark",
	"Daniel Rodriguez",
	"Betty Lewis",
}

const summary = "Test incident"

// Creator is the subset of the incident service a seed run needs.
type Creator interface {
	CreateIncident(ctx context.Context, input incidents.CreateIncidentInput) (*domain.Incident, error)
}

// Generate builds n inputs titled "Incident 1".."Incident n" with random
// service, severity, status and owner drawn from rng.
func Generate(n int, rng *rand.Rand) []incidents.CreateIncidentInput {
	inputs := make([]incidents.CreateIncidentInput, n)
	for i := range inputs {
		owner := pick(rng, Owners)
		s := summary
		inputs[i] = incidents.CreateIncidentInput{
			Title:    fmt.Sprintf("Incident %d", i+1),
			Service:  pick(rng, Services),
			Severity: string(pick(rng, domain.AllSeverities)),
			Status:   string(pick(rng, domain.AllStatuses)),
			Owner:    &owner,
			Summary:  &s,
		}
	}
	return inputs
}

// Run creates every input, at most workers at a time. The first failure
// cancels the remaining inserts.
func Run(ctx context.Context, creator Creator, inputs []incidents.CreateIncidentInput, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, input := range inputs {
		g.Go(func() error {
			if _, err := creator.CreateIncident(ctx, input); err != nil {
				return fmt.Errorf("create %q: %w", input.Title, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("seeded incidents", "count", len(inputs))
	return nil
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
