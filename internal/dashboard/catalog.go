package dashboard

import (
	"context"

	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/models"
	"github.com/rogerio-castellano/storefront-console/internal/panel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog is the set of resources the shell can show.
type Catalog struct {
	Categories panel.Resource[models.Category]
	Products   panel.Resource[models.Product]
	Users      panel.Resource[models.User]
	Orders     panel.Resource[models.Order]
}

// controller builds a fresh panel for p. The dashboard page has none.
func (c Catalog) controller(p Page, api panel.API) panel.Controller {
	switch p {
	case PageDashboard:
		return nil
	case PageCategories:
		return panel.New(c.Categories, api)
	case PageProducts:
		return panel.New(c.Products, api)
	case PageUsers:
		return panel.New(c.Users, api)
	case PageOrders:
		return panel.New(c.Orders, api)
	}
	return nil
}

// Tally is one bar of the summary chart.
type Tally struct {
	Page    Page
	Count   int
	Failed  bool
	Percent int // bar width relative to the largest count
}

type Summary struct {
	Tallies []Tally
	Loaded  bool
}

// Total sums the counts that could be fetched.
func (s Summary) Total() int {
	n := 0
	for _, t := range s.Tallies {
		n += t.Count
	}
	return n
}

// Summarize issues one GET per collection concurrently. A failed collection is
// marked and counted as zero.
func (c Catalog) Summarize(ctx context.Context, api panel.API) Summary {
	counters := []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) { return panel.Count(ctx, api, c.Categories) },
		func(ctx context.Context) (int, error) { return panel.Count(ctx, api, c.Products) },
		func(ctx context.Context) (int, error) { return panel.Count(ctx, api, c.Users) },
		func(ctx context.Context) (int, error) { return panel.Count(ctx, api, c.Orders) },
	}
	pages := []Page{PageCategories, PageProducts, PageUsers, PageOrders}
	tallies := make([]Tally, len(pages))

	var g errgroup.Group
	for i, count := range counters {
		g.Go(func() error {
			n, err := count(ctx)
			tallies[i] = Tally{Page: pages[i], Count: n, Failed: err != nil}
			if err != nil {
				logger.FromContext(ctx).Warn("counting collection",
					zap.String("collection", pages[i].String()), zap.Error(err))
			}
			return nil
		})
	}
	g.Wait()

	largest := 0
	for _, t := range tallies {
		if t.Count > largest {
			largest = t.Count
		}
	}
	for i := range tallies {
		if largest > 0 {
			tallies[i].Percent = tallies[i].Count * 100 / largest
		}
	}
	return Summary{Tallies: tallies, Loaded: true}
}
