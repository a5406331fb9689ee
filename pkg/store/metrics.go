package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	saves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatjournal_store_saves_total",
		Help: "Completed whole-journal writes.",
	})
	saveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatjournal_store_save_failures_total",
		Help: "Failed whole-journal writes.",
	})
	loads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatjournal_store_loads_total",
		Help: "Completed journal reads.",
	})
	loadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatjournal_store_load_failures_total",
		Help: "Journal reads that degraded to an empty collection.",
	})
)

func init() {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chatjournal_store_disk_bytes",
		Help: "Best-effort on-disk size of the journal database directory.",
	}, func() float64 { return float64(DiskUsage()) })
}

// DiskUsage returns the best-effort total size of the DB directory in bytes.
func DiskUsage() uint64 {
	if dbPath == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += uint64(fi.Size())
		return nil
	})
	return total
}
