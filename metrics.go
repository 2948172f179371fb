package folio

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns the Prometheus registry exposed at /metrics. The HTTP
// request metrics come from echoprometheus; the counters here cover what
// it cannot see.
type Metrics struct {
	Registry *prometheus.Registry

	badgeFetches *prometheus.CounterVec
	views        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		Registry: reg,
		badgeFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "badge_fetches_total",
			Help:      "Upstream badge requests by source and result.",
		}, []string{"source", "result"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "page_views_total",
			Help:      "Page views by route and visitor kind.",
		}, []string{"route", "visitor"}),
	}
	reg.MustRegister(m.badgeFetches, m.views)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.Registry})
}

func (m *Metrics) observeBadgeFetch(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.badgeFetches.WithLabelValues(source, result).Inc()
}

// pageViews counts successful GETs of pages, labelled with the crawler name
// for bots.
func (m *Metrics) pageViews(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		req := c.Request()
		if err != nil || req.Method != "GET" || c.Response().Status >= 400 {
			return err
		}
		route := c.Path()
		if route == "" || strings.HasPrefix(route, "/public") || strings.HasPrefix(route, "/admin") || route == "/metrics" {
			return err
		}
		m.views.WithLabelValues(route, crawlerName(req.UserAgent())).Inc()
		return err
	}
}

var crawlers = []struct{ pattern, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"gptbot", "GPTBot"},
	{"claudebot", "ClaudeBot"},
	{"perplexitybot", "PerplexityBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"slurp", "Yahoo Slurp"},
}

// crawlerName returns the name of a known crawler, "other-bot" for generic
// bot agents and "human" otherwise.
func crawlerName(ua string) string {
	ua = strings.ToLower(ua)
	for _, c := range crawlers {
		if strings.Contains(ua, c.pattern) {
			return c.name
		}
	}
	for _, generic := range []string{"bot", "crawl", "spider", "scrape"} {
		if strings.Contains(ua, generic) {
			return "other-bot"
		}
	}
	return "human"
}
