// Package pipeline runs one item request: download the texture, then decode it.
package pipeline

import (
	"context"
	"time"

	"scristobal/astcbot/commands"
	"scristobal/astcbot/failure"
	"scristobal/astcbot/logging"
	"scristobal/astcbot/metrics"
)

type fetcher interface {
	Fetch(ctx context.Context, server commands.Server, id string) ([]byte, error)
}

type converter interface {
	Convert(ctx context.Context, data []byte, id string) ([]byte, error)
}

type Pipeline struct {
	fetcher   fetcher
	converter converter
	metrics   *metrics.Metrics
}

// New builds a pipeline. m may be nil.
func New(f fetcher, c converter, m *metrics.Metrics) *Pipeline {
	return &Pipeline{fetcher: f, converter: c, metrics: m}
}

// Run returns the PNG bytes for inv. Errors are classified with the failure package.
func (p *Pipeline) Run(ctx context.Context, inv commands.Invocation) (png []byte, err error) {

	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = failure.KindOf(err).String()
			logging.Error("item request failed", "server", inv.Server.String(), "item", inv.ItemID, "kind", outcome, "error", err)
		}
		p.metrics.ObserveRequest(inv.Server.String(), outcome)
	}()

	start := time.Now()

	data, err := p.fetcher.Fetch(ctx, inv.Server, inv.ItemID)

	p.metrics.ObserveFetch(time.Since(start))

	if err != nil {
		return nil, err
	}

	logging.Debug("texture downloaded", "server", inv.Server.String(), "item", inv.ItemID, "bytes", len(data))

	start = time.Now()

	png, err = p.converter.Convert(ctx, data, inv.ItemID)

	p.metrics.ObserveConvert(time.Since(start))

	if err != nil {
		return nil, err
	}

	logging.Info("item converted", "server", inv.Server.String(), "item", inv.ItemID, "bytes", len(png))

	return png, nil
}
