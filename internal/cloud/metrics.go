package cloud

import (
	"fmt"
	"os"
	"time"

	"github.com/cloud-filemanager/go/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded by instrumented managers.
// It is safe for concurrent use.
type Metrics struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudfm_operations_total",
			Help: "Total number of storage operations by backend, operation and result",
		}, []string{"backend", "op", "result"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudfm_bytes_total",
			Help: "Total number of bytes transferred by backend and direction",
		}, []string{"backend", "direction"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cloudfm_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "op"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.bytes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(backend, op string, start time.Time, err error) {
	m.duration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	m.operations.WithLabelValues(backend, op, ErrorKind(err)).Inc()
}

type instrumentedManager struct {
	next    Manager
	metrics *Metrics
}

// Instrument wraps next so that every operation is recorded in metrics.
func Instrument(next Manager, metrics *Metrics) Manager {
	return &instrumentedManager{next: next, metrics: metrics}
}

func (im *instrumentedManager) Name() string {
	return im.next.Name()
}

func (im *instrumentedManager) UploadFile(content []byte, remotePath string) error {
	start := time.Now()
	err := im.next.UploadFile(content, remotePath)
	im.metrics.observe(im.Name(), "upload", start, err)
	if err == nil {
		im.metrics.bytes.WithLabelValues(im.Name(), "upload").Add(float64(len(content)))
	}
	return err
}

func (im *instrumentedManager) DownloadFile(remotePath, localPath string) error {
	start := time.Now()
	err := im.next.DownloadFile(remotePath, localPath)
	im.metrics.observe(im.Name(), "download", start, err)
	if err == nil {
		if info, statErr := os.Stat(localPath); statErr == nil {
			im.metrics.bytes.WithLabelValues(im.Name(), "download").Add(float64(info.Size()))
		}
	}
	return err
}

func (im *instrumentedManager) DeleteFile(remotePath string) error {
	start := time.Now()
	err := im.next.DeleteFile(remotePath)
	im.metrics.observe(im.Name(), "delete", start, err)
	return err
}

func (im *instrumentedManager) Ls(remotePath string) (types.Listing, error) {
	start := time.Now()
	listing, err := im.next.Ls(remotePath)
	im.metrics.observe(im.Name(), "ls", start, err)
	return listing, err
}
