package metrics

/* derived from https://github.com/zsais/go-gin-prometheus
edits:
- logger is an interface satisfied by *zap.SugaredLogger
- no push gateway, no basic auth
- separate listener only (metrics never share the public router)
*/

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var reqCnt = &Metric{
	ID:          "reqCnt",
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var reqDur = &Metric{
	ID:          "reqDur",
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var resSz = &Metric{
	ID:          "resSz",
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var standardMetrics = []*Metric{reqCnt, reqDur, resSz}

var defaultMetricPath = "/metrics"

type Logger interface {
	Errorf(format string, v ...interface{})
	Infow(msg string, keysAndValues ...interface{})
}

// RequestCounterURLLabelMappingFn controls the cardinality of the "url" label.
// Map parameterised paths to their route template, e.g. c.FullPath().
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus contains the metrics gathered by the instance and its path
type Prometheus struct {
	reqCnt        *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	resSz         *prometheus.SummaryVec
	listenAddress string
	server        *http.Server

	MetricsList []*Metric
	MetricsPath string

	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger Logger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  Logger
}

// NewPrometheus generates a new set of metrics with a certain subsystem name
func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsList: standardMetrics,
		MetricsPath: defaultMetricPath,
		logger:      options.Logger,
	}
	if options.MetricsPath != "" {
		p.MetricsPath = options.MetricsPath
	}
	if options.ReqCntURLLabelMappingFn != nil {
		p.ReqCntURLLabelMappingFn = options.ReqCntURLLabelMappingFn
	} else {
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}
	p.registerMetrics(options.Subsystem)
	return p
}

func (p *Prometheus) registerMetrics(subsystem string) {
	for _, metricDef := range p.MetricsList {
		metric := register(prometheus.DefaultRegisterer, NewMetric(metricDef, subsystem))
		switch metricDef {
		case reqCnt:
			p.reqCnt = metric.(*prometheus.CounterVec)
		case reqDur:
			p.reqDur = metric.(*prometheus.HistogramVec)
		case resSz:
			p.resSz = metric.(*prometheus.SummaryVec)
		}
		metricDef.MetricCollector = metric
	}
}

// SetListenAddress exposes metrics on a dedicated listener at address.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
}

// Use adds the middleware to a gin engine and starts the metrics listener.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(p.MetricsPath, promhttp.Handler())
	p.server = &http.Server{Addr: p.listenAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed && p.logger != nil {
			p.logger.Errorf("metrics listener stopped: %v", err)
		}
	}()
}

// Server returns the metrics listener, nil when metrics are served nowhere.
func (p *Prometheus) Server() *http.Server { return p.server }

// HandlerFunc defines handler function for middleware
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)
		url := p.ReqCntURLLabelMappingFn(c)
		ref := c.Request.Header.Get(RefererKey)

		p.reqDur.WithLabelValues(status, c.Request.Method, url, ref).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url, ref).Inc()
		p.resSz.WithLabelValues(status, c.Request.Method, url, ref).Observe(float64(c.Writer.Size()))
	}
}
