package logger

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

var (
	errorsFeed  int64
	errorsTrade int64
	warnsFeed   int64
	warnsTrade  int64
	feedReads   int64
	scansRun    int64
	ordersSent  int64
)

func recordWarn(component string) {
	if strings.Contains(component, "reader") {
		atomic.AddInt64(&warnsFeed, 1)
	} else if strings.Contains(component, "trader") {
		atomic.AddInt64(&warnsTrade, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "reader") {
		atomic.AddInt64(&errorsFeed, 1)
	} else if strings.Contains(component, "trader") {
		atomic.AddInt64(&errorsTrade, 1)
	}
}

// IncrementFeedRead counts one successful feed fetch.
func IncrementFeedRead() {
	atomic.AddInt64(&feedReads, 1)
}

// IncrementScan counts one completed scan.
func IncrementScan() {
	atomic.AddInt64(&scansRun, 1)
}

// IncrementOrder counts one order submission attempt.
func IncrementOrder() {
	atomic.AddInt64(&ordersSent, 1)
}

// StartReport periodically logs a one-line activity and resource summary and
// forwards the same figures to CloudWatch when configured. Used when the
// configured log level is "report".
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				emitReport(ctx, log)
			}
		}
	}()
}

func emitReport(ctx context.Context, log *Log) {
	reads := atomic.SwapInt64(&feedReads, 0)
	scans := atomic.SwapInt64(&scansRun, 0)
	orders := atomic.SwapInt64(&ordersSent, 0)
	feedErrs := atomic.SwapInt64(&errorsFeed, 0)
	tradeErrs := atomic.SwapInt64(&errorsTrade, 0)
	feedWarns := atomic.SwapInt64(&warnsFeed, 0)
	tradeWarns := atomic.SwapInt64(&warnsTrade, 0)

	fields := Fields{
		"feed_reads":   reads,
		"scans":        scans,
		"orders":       orders,
		"feed_errors":  feedErrs,
		"trade_errors": tradeErrs,
		"feed_warns":   feedWarns,
		"trade_warns":  tradeWarns,
		"goroutines":   runtime.NumGoroutine(),
	}

	if percs, err := cpu.Percent(0, false); err == nil && len(percs) > 0 {
		fields["cpu_pct"] = percs[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fields["memory_mb"] = float64(vm.Used) / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		fields["disk_used_mb"] = float64(du.Used) / 1024 / 1024
	}

	log.WithComponent("report").WithFields(fields).Info("activity report")

	data := make([]cwtypes.MetricDatum, 0, len(fields))
	for name, v := range fields {
		val, ok := toFloat(v)
		if !ok {
			continue
		}
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String(name),
			Unit:       cwtypes.StandardUnitCount,
			Value:      aws.Float64(val),
		})
	}
	publishMetrics(ctx, data)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
