// Package origin opens raw TCP connections to origin web servers and
// performs one-shot HTTP/1.0 fetches over them.
package origin

import (
	"fmt"
	"io"
	"net"
	"time"
)

const (
	// DefaultPort is the origin port when none is configured.
	DefaultPort = "80"
	// DefaultDialTimeout bounds each candidate address attempt.
	DefaultDialTimeout = 10 * time.Second
	// DefaultReadTimeout bounds reading the full origin response.
	DefaultReadTimeout = 30 * time.Second
)

// DialError reports a failure to resolve or connect to an origin host.
type DialError struct {
	Host string
	Err  error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("failed to connect to origin %s: %v", e.Host, e.Err)
}

func (e *DialError) Unwrap() error {
	return e.Err
}

// Dialer resolves origin hostnames and fetches pages from them.
// The zero value is usable and applies the package defaults.
type Dialer struct {
	// Port is the origin port to connect to.
	Port string
	// DialTimeout applies to each candidate address individually.
	DialTimeout time.Duration
	// ReadTimeout applies to reading the whole response.
	ReadTimeout time.Duration
}

// Connect resolves host and attempts a TCP connection against each
// candidate address in resolution order, stopping at the first success.
func (d *Dialer) Connect(host string) (net.Conn, error) {
	addrs, err := net.LookupHost(host)
	if err != nil {
		return nil, &DialError{Host: host, Err: err}
	}
	var lastErr error
	for _, addr := range addrs {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(addr, d.port()), d.dialTimeout())
		if err != nil {
			lastErr = err
			continue
		}
		return conn, nil
	}
	return nil, &DialError{Host: host, Err: lastErr}
}

// Fetch performs an unconditional GET for path on host and returns the raw
// response bytes, read until the origin closes the connection.
func (d *Dialer) Fetch(host, path string) ([]byte, error) {
	req := fmt.Sprintf("GET %s HTTP/1.0\r\nHost: %s\r\n\r\n", path, host)
	return d.roundTrip(host, req)
}

// FetchConditional performs a GET for path on host carrying since as an
// If-Modified-Since header and returns the raw response bytes.
func (d *Dialer) FetchConditional(host, path, since string) ([]byte, error) {
	req := fmt.Sprintf("GET %s HTTP/1.0\r\nHost: %s\r\nIf-Modified-Since: %s\r\n\r\n", path, host, since)
	return d.roundTrip(host, req)
}

func (d *Dialer) roundTrip(host, req string) ([]byte, error) {
	conn, err := d.Connect(host)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(d.readTimeout())); err != nil {
		return nil, err
	}
	if _, err := io.WriteString(conn, req); err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", host, err)
	}
	res, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", host, err)
	}
	return res, nil
}

func (d *Dialer) port() string {
	if d.Port != "" {
		return d.Port
	}
	return DefaultPort
}

func (d *Dialer) dialTimeout() time.Duration {
	if d.DialTimeout > 0 {
		return d.DialTimeout
	}
	return DefaultDialTimeout
}

func (d *Dialer) readTimeout() time.Duration {
	if d.ReadTimeout > 0 {
		return d.ReadTimeout
	}
	return DefaultReadTimeout
}
