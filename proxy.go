// Package freshproxy is a forward HTTP/1.0 proxy that caches fetched pages
// in a bounded LRU store and revalidates them against origin freshness
// metadata before re-serving.
package freshproxy

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/antonls/freshproxy/cache"
	"github.com/antonls/freshproxy/metrics"
	"github.com/antonls/freshproxy/pkg/cachekey"
	"github.com/antonls/freshproxy/pkg/codec"
	"github.com/antonls/freshproxy/pkg/origin"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// requestBufferSize is the single-read budget for a client request.
// A request split across reads is not reassembled.
const requestBufferSize = 4096

// DefaultClientTimeout bounds how long an accepted connection may sit idle
// before sending its request.
const DefaultClientTimeout = 15 * time.Second

// Options configures a Proxy. Zero-valued fields fall back to defaults.
type Options struct {
	// Store holds the cached pages. A capacity-10 LRU is used if nil.
	Store cache.Store
	// Dialer opens connections to origin servers.
	Dialer *origin.Dialer
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
	// Metrics receives per-request counters. A fresh collector is used
	// if nil.
	Metrics *metrics.Collector
	// ClientTimeout is the read deadline on accepted client connections.
	ClientTimeout time.Duration
}

// Proxy accepts one-shot client connections, obtains a page for each
// request from the cache or the origin, and writes the page body back.
type Proxy struct {
	store         cache.Store
	dialer        *origin.Dialer
	log           zerolog.Logger
	metrics       *metrics.Collector
	clientTimeout time.Duration
}

// New initializes a proxy instance.
func New(opts Options) *Proxy {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.New()
	}
	store := opts.Store
	if store == nil {
		store = cache.NewLRU(cache.DefaultCapacity, func(string) {
			collector.RecordEviction()
		})
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &origin.Dialer{}
	}
	clientTimeout := opts.ClientTimeout
	if clientTimeout <= 0 {
		clientTimeout = DefaultClientTimeout
	}
	return &Proxy{
		store:         store,
		dialer:        dialer,
		log:           logger,
		metrics:       collector,
		clientTimeout: clientTimeout,
	}
}

// Metrics returns the proxy's counter collector.
func (p *Proxy) Metrics() *metrics.Collector {
	return p.metrics
}

// Serve accepts connections from ln until the listener fails or is closed.
// Each connection is handled in its own goroutine, so one slow origin does
// not stall other clients. A persistent accept failure is returned to the
// caller, since it means the event source itself is broken.
func (p *Proxy) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) {
				p.log.Error().Err(err).Msg("Could not accept connection")
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		go p.handleConn(conn)
	}
}

// handleConn runs one request/response cycle and closes the connection.
// Every error path abandons the connection without writing a response.
func (p *Proxy) handleConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()

	conn.SetReadDeadline(time.Now().Add(p.clientTimeout))
	buf := make([]byte, requestBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		p.log.Debug().Err(err).Msg("Could not read client request")
		return
	}
	p.metrics.RecordRequest()

	path, host, err := codec.ParseRequestLine(buf[:n])
	if err != nil {
		p.metrics.RecordRejected()
		p.log.Debug().Err(err).Msg("Rejecting unsupported request")
		return
	}
	logger := p.log.With().Str("host", host).Str("path", path).Logger()

	key := cachekey.Key(host, path)
	var (
		entry   cache.Entry
		outcome Outcome
	)
	if cached, ok := p.store.Fetch(key); ok {
		p.metrics.RecordHit()
		entry, outcome = p.validate(cached)
	} else {
		p.metrics.RecordMiss()
		entry, err = p.firstFetch(key, host, path)
		if err != nil {
			logger.Warn().Err(err).Msg("Abandoning request")
			return
		}
		outcome = OutcomeFirstFetch
	}
	p.recordOutcome(outcome)

	written, err := conn.Write(entry.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not write response body to client")
		return
	}
	evt := logger.Debug()
	if outcome.Degraded() {
		evt = logger.Warn()
	}
	evt.
		Str("outcome", string(outcome)).
		Int("bytes", written).
		Dur("duration", time.Since(start)).
		Msg("Served client")
}

// firstFetch performs the unconditional fetch for a cache miss and stores
// the result, unconditionally treating it as fresh.
func (p *Proxy) firstFetch(key, host, path string) (cache.Entry, error) {
	raw, err := p.dialer.Fetch(host, path)
	if err != nil {
		p.metrics.RecordOriginFailure()
		return cache.Entry{}, err
	}
	body := codec.ParseBody(raw)
	if len(body) == 0 {
		return cache.Entry{}, fmt.Errorf("no usable body in response from %s", host)
	}
	md := codec.ParseMetadata(raw)
	entry := cache.Entry{
		Host:         host,
		Path:         path,
		LastAccess:   md.Date,
		LastModified: md.LastModified,
		Expires:      md.Expires,
		Body:         body,
	}
	p.store.Add(key, entry)
	return entry, nil
}

func (p *Proxy) recordOutcome(outcome Outcome) {
	switch outcome {
	case OutcomeRevalidated:
		p.metrics.RecordRevalidated()
	case OutcomeNotModified:
		p.metrics.RecordNotModified()
	case OutcomeStaleServed:
		p.metrics.RecordStaleServed()
	case OutcomeUnverifiedStale:
		p.metrics.RecordUnverifiedStale()
	}
}
