package scanner

import (
	"context"
	"fmt"

	"AgencyPulse/internal/dataset"
)

// Request carries all parameters required to execute one connector scan.
type Request struct {
	SourceName  string
	SearchTerms []string
	Options     map[string]string
}

// Option returns a named option or a fallback when it is absent/empty.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Scanner captures a single connector strategy (Reddit, YouTube, GDELT, ...).
// A scan yields one raw partition: a loose table whose column set is
// whatever the platform provides.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) (*dataset.Frame, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
