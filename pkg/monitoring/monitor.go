package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 资源存储每次读写的耗时
	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of resource store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"resource", "op"},
	)

	// 题目导入：每行校验结果，outcome 为 accepted / rejected
	QuestionImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_import_rows_total",
			Help: "Rows processed by the question import pipeline",
		},
		[]string{"outcome"},
	)

	// 题目导入提交次数，result 为 success / failed
	QuestionImportCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_import_commits_total",
			Help: "Question import commits",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init 注册所有指标，重复调用是安全的
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(StoreOperationDuration)
		prometheus.MustRegister(QuestionImportRows)
		prometheus.MustRegister(QuestionImportCommits)
	})
}

// ObserveStore 记录一次存储操作耗时，用法: defer monitoring.ObserveStore(name, "list", time.Now())
func ObserveStore(resource, op string, start time.Time) {
	StoreOperationDuration.WithLabelValues(resource, op).Observe(time.Since(start).Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
