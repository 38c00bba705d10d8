package connector

import (
	"context"
	"fmt"
	"log/slog"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/ports"
	"AgencyPulse/internal/scanner"
)

// StrategySource implements RecordSource via registered scanner
// strategies. Connectors are independent: one failing platform is
// logged and skipped so the others still land their partitions.
type StrategySource struct {
	registry *scanner.Registry
	agency   config.AgencyConfig
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, agency config.AgencyConfig, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		agency:   agency,
		sources:  sources,
		logger:   log,
	}
}

// FetchPartitions iterates over configured sources and executes their scanners.
func (s *StrategySource) FetchPartitions(ctx context.Context) (map[string]*dataset.Frame, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch partitions", "sources", len(s.sources))

	partitions := make(map[string]*dataset.Frame, len(s.sources))
	for _, src := range s.sources {
		strategy, err := s.registry.Resolve(src.Scanner)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		req := scanner.Request{
			SourceName:  src.Name,
			SearchTerms: s.agency.SearchTerms,
			Options:     src.Options,
		}

		frame, err := strategy.Scan(ctx, req)
		if err != nil {
			s.warn("source failed, skipping", "source", src.Name, "error", err)
			continue
		}

		s.debug("source produced rows", "source", src.Name, "rows", frame.Len())
		partitions[src.Name] = frame
	}

	return partitions, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
