package analytics

import (
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"ShrinkIt-Backend/pkg/geoip"
	"ShrinkIt-Backend/pkg/useragent"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds Stop when RecorderConfig leaves it unset.
const DefaultShutdownTimeout = 15 * time.Second

var (
	ErrNotRunning = errors.New("click recorder is not running")
	ErrQueueFull  = errors.New("click queue is full")
)

// ClickJob is one observed redirect waiting to be persisted.
type ClickJob struct {
	LinkID    int64
	ShortCode string
	IPAddress string
	UserAgent string
	Referrer  string
	ClickedAt time.Time
}

// GeoLocator resolves a client address to a location.
type GeoLocator interface {
	Lookup(ctx context.Context, ip string) (geoip.Location, error)
}

// DeviceParser extracts device details from a User-Agent header.
type DeviceParser interface {
	Parse(userAgent string) useragent.DeviceInfo
}

// RecorderConfig holds configuration for the click recorder
type RecorderConfig struct {
	Workers         int
	BufferSize      int
	WriteTimeout    time.Duration // bound on a single RecordClick call
	GeoTimeout      time.Duration
	ShutdownTimeout time.Duration
	// SimulateLocalIP looks up SentinelIP instead of loopback and private
	// addresses. Must stay false in production.
	SimulateLocalIP bool
	SentinelIP      string
}

// Recorder persists clicks on a pool of background workers so the redirect
// response never waits for the geo lookup or the database write. Failed
// jobs are logged and dropped.
type Recorder struct {
	config  RecorderConfig
	storage repository.Storage
	geo     GeoLocator
	devices DeviceParser
	log     *zap.Logger

	jobs    chan ClickJob
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex
}

func NewRecorder(storage repository.Storage, geo GeoLocator, devices DeviceParser, log *zap.Logger, config RecorderConfig) *Recorder {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Recorder{
		config:  config,
		storage: storage,
		geo:     geo,
		devices: devices,
		log:     log,
		jobs:    make(chan ClickJob, config.BufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return errors.New("click recorder already started")
	}

	r.log.Info("starting click recorder",
		zap.Int("workers", r.config.Workers),
		zap.Int("buffer_size", r.config.BufferSize),
		zap.Bool("simulate_local_ip", r.config.SimulateLocalIP),
	)

	for i := 0; i < r.config.Workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.started = true
	return nil
}

// Stop closes the queue and waits for queued jobs to drain. Jobs still
// running after ShutdownTimeout have their context cancelled.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.started = false
	close(r.jobs)
	r.mu.Unlock()

	r.log.Info("stopping click recorder", zap.Int("pending", len(r.jobs)))

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		r.log.Info("click recorder stopped")
		return nil
	case <-time.After(r.config.ShutdownTimeout):
		r.cancel()
		<-done
		r.log.Warn("click recorder shutdown timeout reached, pending clicks dropped")
		return errors.New("click recorder shutdown timeout reached")
	}
}

// Submit hands job to the worker pool without blocking. A full queue drops
// the click.
func (r *Recorder) Submit(job ClickJob) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started {
		return ErrNotRunning
	}

	select {
	case r.jobs <- job:
		return nil
	default:
		r.log.Error("click queue is full, dropping click",
			zap.String("short_code", job.ShortCode),
			zap.Int("queue_size", len(r.jobs)),
		)
		return ErrQueueFull
	}
}

func (r *Recorder) worker(workerID int) {
	defer r.wg.Done()

	log := r.log.With(zap.Int("worker_id", workerID))
	log.Debug("click worker started")

	for job := range r.jobs {
		if err := r.process(log, job); err != nil {
			log.Error("failed to record click, dropping it",
				zap.String("short_code", job.ShortCode),
				zap.Int64("link_id", job.LinkID),
				zap.Error(err),
			)
		}
	}

	log.Debug("click worker stopped")
}

func (r *Recorder) process(log *zap.Logger, job ClickJob) error {
	geo := r.locate(log, job.IPAddress)
	device := r.devices.Parse(job.UserAgent)

	referrer := job.Referrer
	if referrer == "" {
		referrer = domain.DirectReferrer
	}

	click := &domain.Click{
		Timestamp:  job.ClickedAt,
		IPAddress:  job.IPAddress,
		UserAgent:  job.UserAgent,
		Referrer:   referrer,
		Country:    geo.Country,
		City:       geo.City,
		DeviceType: device.DeviceType,
		Browser:    device.Browser,
		OS:         device.OS,
	}

	ctx, cancel := r.writeContext()
	defer cancel()

	if err := r.storage.RecordClick(ctx, job.LinkID, click); err != nil {
		return err
	}

	log.Debug("click recorded",
		zap.String("short_code", job.ShortCode),
		zap.String("country", geo.Country),
		zap.String("device_type", device.DeviceType),
	)
	return nil
}

func (r *Recorder) writeContext() (context.Context, context.CancelFunc) {
	if r.config.WriteTimeout <= 0 {
		return context.WithCancel(r.ctx)
	}
	return context.WithTimeout(r.ctx, r.config.WriteTimeout)
}

// locate never fails: any lookup problem yields Unknown/Unknown.
func (r *Recorder) locate(log *zap.Logger, ip string) domain.Geo {
	lookupIP := ip
	if isLocalAddress(ip) {
		if !r.config.SimulateLocalIP || r.config.SentinelIP == "" {
			return domain.UnknownGeo()
		}
		lookupIP = r.config.SentinelIP
		log.Debug("simulating public address for local client", zap.String("ip", ip), zap.String("sentinel", lookupIP))
	}

	ctx := r.ctx
	if r.config.GeoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(r.ctx, r.config.GeoTimeout)
		defer cancel()
	}

	loc, err := r.geo.Lookup(ctx, lookupIP)
	if err != nil {
		log.Warn("geo lookup failed", zap.String("ip", lookupIP), zap.Error(err))
		return domain.UnknownGeo()
	}

	geo := domain.Geo{Country: loc.Country, City: loc.City}
	if geo.Country == "" {
		geo.Country = domain.UnknownValue
	}
	if geo.City == "" {
		geo.City = domain.UnknownValue
	}
	return geo
}

// isLocalAddress reports addresses that carry no meaningful geo data.
// Unparseable input counts as local.
func isLocalAddress(ip string) bool {
	addr := net.ParseIP(ip)
	if addr == nil {
		return true
	}
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast()
}

// Stats returns recorder statistics
func (r *Recorder) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]interface{}{
		"started":        r.started,
		"queue_length":   len(r.jobs),
		"queue_capacity": cap(r.jobs),
		"worker_count":   r.config.Workers,
	}
}
