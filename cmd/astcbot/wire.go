package main

import (
	"scristobal/astcbot/assets"
	"scristobal/astcbot/config"
	"scristobal/astcbot/converter"
	"scristobal/astcbot/logging"
	"scristobal/astcbot/metrics"
	"scristobal/astcbot/pipeline"

	"github.com/spf13/pflag"
)

func load(fs *pflag.FlagSet) (*config.Config, error) {

	cfg, err := config.Load(fs)

	if err != nil {
		return nil, err
	}

	l := cfg.Log
	logging.InitLogger(l.File, l.MaxSizeMB, l.MaxBackups, l.MaxAgeDays, l.Compress, l.Level)

	return cfg, nil
}

// newPipeline builds the fetch and decode stages from cfg. m may be nil.
func newPipeline(cfg *config.Config, m *metrics.Metrics) (*pipeline.Pipeline, error) {

	flags, err := cfg.AstcencArgs()

	if err != nil {
		return nil, err
	}

	fetcher := assets.NewFetcher(assets.Options{
		LiveBaseURL:    cfg.LiveBaseURL,
		AdvanceBaseURL: cfg.AdvanceBaseURL,
		Suffix:         cfg.AssetSuffix,
		Timeout:        cfg.FetchTimeout,
		MaxBytes:       cfg.MaxAssetBytes,
	})

	conv := converter.New(converter.Options{
		Binary:   cfg.AstcencPath,
		Flags:    flags,
		Timeout:  cfg.ConvertTimeout,
		TempRoot: cfg.TempDir,
		MaxSide:  cfg.MaxPhotoSide,
	})

	return pipeline.New(fetcher, conv, m), nil
}
