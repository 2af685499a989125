package bootstrap

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/zillusion/capsule/component"
	"github.com/zillusion/capsule/logger"
)

// RouteInfo is a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
	Public  bool
}

// ClientInfo is an upstream the service calls.
type ClientInfo struct {
	Name   string
	Target string
}

// Summary collects what a service wired during startup.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	routes          []RouteInfo
	clients         []ClientInfo
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route. Public routes skip authentication.
func (s *Summary) TrackRoute(method, path, handler string, public bool) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler, Public: public})
}

// TrackClient records an upstream client.
func (s *Summary) TrackClient(name, target string) {
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target})
}

// Routes returns the tracked routes sorted by path then method.
func (s *Summary) Routes() []RouteInfo {
	out := append([]RouteInfo(nil), s.routes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Log writes the summary through log, with live component health.
func (s *Summary) Log(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	log.Info("Startup complete", logger.Fields(
		"service", s.serviceName,
		"version", s.version,
		logger.FieldDuration, s.startupDuration.Milliseconds(),
		"routes", len(s.routes),
	))
	for _, h := range registry.HealthAll(ctx) {
		fields := logger.Fields(logger.FieldComponent, h.Name, logger.FieldStatus, string(h.Status))
		if h.Message != "" {
			fields["message"] = h.Message
		}
		log.Debug("component health", fields)
	}
	for _, c := range s.clients {
		log.Debug("upstream client", logger.Fields(logger.FieldUpstream, c.Name, "target", c.Target))
	}
}

// Render prints a human-readable summary to w.
func (s *Summary) Render(w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if hs := registry.HealthAll(context.Background()); len(hs) > 0 {
		fmt.Fprintln(w, "\nComponents:")
		for _, h := range hs {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(w, "  %s %s: %s%s\n", healthMark(h.Status), h.Name, h.Status, msg)
		}
	}

	if routes := s.Routes(); len(routes) > 0 {
		fmt.Fprintln(w, "\nRoutes:")
		for _, r := range routes {
			access := "auth"
			if r.Public {
				access = "public"
			}
			fmt.Fprintf(w, "  %-6s %-32s %s\n", r.Method, r.Path, access)
		}
	}

	if len(s.clients) > 0 {
		fmt.Fprintln(w, "\nUpstreams:")
		for _, c := range s.clients {
			fmt.Fprintf(w, "  %s -> %s\n", c.Name, strings.TrimSuffix(c.Target, "/"))
		}
	}
	fmt.Fprintln(w)
}

func healthMark(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "[ok]"
	case component.StatusDegraded:
		return "[!!]"
	default:
		return "[xx]"
	}
}
