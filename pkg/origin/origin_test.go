package origin

import (
	"bytes"
	"net"
	"testing"
	"time"
)

// scriptedOrigin listens on a loopback port, serves exactly one
// connection with the given response bytes, and reports the request it
// received on the returned channel.
func scriptedOrigin(t *testing.T, response string) (port string, requests chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Could not listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	requests = make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		var req []byte
		for !bytes.Contains(req, []byte("\r\n\r\n")) {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, err := conn.Read(buf)
			if n > 0 {
				req = append(req, buf[:n]...)
			}
			if err != nil {
				break
			}
		}
		requests <- req
		conn.Write([]byte(response))
	}()

	_, port, err = net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("Could not split listener address: %v", err)
	}
	return port, requests
}

func TestFetchWireFormat(t *testing.T) {
	port, requests := scriptedOrigin(t, "HTTP/1.0 200 OK\r\n\r\nhello")
	d := Dialer{Port: port}

	res, err := d.Fetch("127.0.0.1", "/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := "GET /page HTTP/1.0\r\nHost: 127.0.0.1\r\n\r\n"
	if got := <-requests; string(got) != want {
		t.Fatalf("Request on the wire is %q, want %q", got, want)
	}
	if !bytes.HasSuffix(res, []byte("hello")) {
		t.Fatalf("Response is %q", res)
	}
}

func TestFetchConditionalHeaderPlacement(t *testing.T) {
	port, requests := scriptedOrigin(t, "HTTP/1.0 304 Not Modified\r\n\r\n")
	d := Dialer{Port: port}
	since := "Mon, 15 Jun 2020 12:00:00 GMT"

	if _, err := d.FetchConditional("127.0.0.1", "/page", since); err != nil {
		t.Fatalf("FetchConditional failed: %v", err)
	}

	got := <-requests
	want := "GET /page HTTP/1.0\r\nHost: 127.0.0.1\r\nIf-Modified-Since: " + since + "\r\n\r\n"
	if string(got) != want {
		t.Fatalf("Request on the wire is %q, want %q", got, want)
	}
}

func TestConnectFailure(t *testing.T) {
	// grab a port and close it again so the connect is refused
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Could not listen: %v", err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	d := Dialer{Port: port, DialTimeout: time.Second}
	_, err = d.Connect("127.0.0.1")
	if err == nil {
		t.Fatal("Connect succeeded against a closed port")
	}
	if _, ok := err.(*DialError); !ok {
		t.Fatalf("Error is %T, want *DialError", err)
	}
}

func TestConnectResolutionFailure(t *testing.T) {
	d := Dialer{DialTimeout: time.Second}
	if _, err := d.Connect("host.invalid"); err == nil {
		t.Fatal("Connect succeeded for an unresolvable host")
	}
}
