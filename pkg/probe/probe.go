// Package probe provides primitive, composable reachability tests.
//
// Every probe degrades to a boolean rather than returning an error:
// a service being down is ordinary data to the caller, not an
// exceptional control-flow path. Diagnostics are emitted through
// logrus at debug (success) and warn (failure) levels.
//
// All network waits are bounded by explicit timeouts passed as
// parameters; there is no implicit global timeout state.
package probe

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default connect/read timeout for TCP and
	// HTTP probes.
	DefaultTimeout = 5 * time.Second

	// DefaultRetryCount is the default number of attempts for WithRetry.
	DefaultRetryCount = 3

	// DefaultRetryDelay is the default sleep between retry attempts.
	DefaultRetryDelay = 1 * time.Second

	// waitProbeTimeout bounds each individual dial inside WaitFor.
	waitProbeTimeout = 1 * time.Second

	// waitPollInterval paces the dial attempts inside WaitFor.
	waitPollInterval = 500 * time.Millisecond

	// resolvConf is the system resolver configuration consulted by DNS.
	resolvConf = "/etc/resolv.conf"
)

// Func is a zero-argument probe returning a boolean reachability result.
// All network I/O inside a Func must be bounded by an explicit timeout.
type Func func() bool

// TCP opens a TCP connection to host:port with a bounded timeout.
// It returns true iff the connection completes before the timeout;
// any I/O error or timeout yields false.
func TCP(host string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		logrus.Warnf("tcp connection failed to %s: %v", addr, err)
		return false
	}
	conn.Close()
	logrus.Debugf("tcp connection successful to %s", addr)
	return true
}

// HTTP issues a GET against url with bounded connect and overall
// timeouts. It returns true iff the response status is in [200,300);
// any transport error, non-2xx status, or timeout yields false.
func HTTP(url string, timeout time.Duration) bool {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:     (&net.Dialer{Timeout: timeout}).DialContext,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	resp, err := client.Get(url)
	if err != nil {
		logrus.Warnf("http endpoint check failed: %s: %v", url, err)
		return false
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.Warnf("http endpoint check failed: %s (status %d)", url, resp.StatusCode)
		return false
	}
	logrus.Debugf("http endpoint check successful: %s (status %d)", url, resp.StatusCode)
	return true
}

// DNS resolves hostname through the system resolver configured in
// /etc/resolv.conf, returning true iff resolution succeeds. When the
// resolver configuration cannot be read it falls back to the Go
// resolver via net.LookupHost.
func DNS(hostname string) bool {
	cfg, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil || len(cfg.Servers) == 0 {
		_, lookupErr := net.LookupHost(hostname)
		if lookupErr != nil {
			logrus.Warnf("dns resolution failed for %s: %v", hostname, lookupErr)
			return false
		}
		logrus.Debugf("dns resolution successful for %s", hostname)
		return true
	}
	return DNSServer(hostname, net.JoinHostPort(cfg.Servers[0], cfg.Port))
}

// DNSServer resolves hostname against a specific DNS server given as
// host:port. It queries for an A record and falls back to AAAA, and
// returns true iff either query yields at least one answer.
func DNSServer(hostname, server string) bool {
	client := &dns.Client{Timeout: DefaultTimeout}

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(hostname), qtype)
		msg.RecursionDesired = true

		resp, _, err := client.Exchange(msg, server)
		if err != nil {
			logrus.Warnf("dns query for %s against %s failed: %v", hostname, server, err)
			continue
		}
		if resp.Rcode == dns.RcodeSuccess && len(resp.Answer) > 0 {
			logrus.Debugf("dns resolution successful for %s via %s", hostname, server)
			return true
		}
	}
	logrus.Warnf("dns resolution failed for %s via %s", hostname, server)
	return false
}

// WithRetry calls p up to attempts times, sleeping delay between
// attempts (no sleep after the final attempt). It returns true on the
// first success and false only after all attempts are exhausted. A
// panicking probe counts as a failed attempt.
func WithRetry(p Func, attempts int, delay time.Duration) bool {
	for attempt := 1; attempt <= attempts; attempt++ {
		if call(p) {
			if attempt > 1 {
				logrus.Infof("connection successful on attempt %d/%d", attempt, attempts)
			}
			return true
		}
		logrus.Warnf("connection attempt %d/%d failed", attempt, attempts)
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	logrus.Errorf("all %d connection attempts failed", attempts)
	return false
}

// WaitFor polls TCP(host, port) with a 1s per-attempt timeout roughly
// every 500ms until either success or the overall timeout deadline
// elapses. It returns false on deadline expiry.
func WaitFor(host string, port int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	limiter := rate.NewLimiter(rate.Every(waitPollInterval), 1)

	for time.Now().Before(deadline) {
		if TCP(host, port, waitProbeTimeout) {
			return true
		}
		reservation := limiter.Reserve()
		time.Sleep(reservation.Delay())
	}
	logrus.Errorf("service %s:%d did not become available within %v", host, port, timeout)
	return false
}

// Measure wraps a single probe call with wall-clock timing. A panic
// raised by the probe is captured into err rather than propagated.
func Measure(p Func) (ok bool, elapsed time.Duration, err error) {
	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("probe panicked: %v", r)
				logrus.Errorf("connection measurement failed: %v", r)
			}
		}()
		ok = p()
	}()
	elapsed = time.Since(start)
	return ok, elapsed, err
}

// Redis probes a Redis server at host:port with the default timeout.
func Redis(host string, port int) bool {
	return TCP(host, port, DefaultTimeout)
}

// Kafka probes a Kafka broker at host:port with the default timeout.
func Kafka(host string, port int) bool {
	return TCP(host, port, DefaultTimeout)
}

// Cassandra probes a Cassandra node at host:port with the default timeout.
func Cassandra(host string, port int) bool {
	return TCP(host, port, DefaultTimeout)
}

// call invokes p, converting a panic into a failed attempt.
func call(p Func) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("probe panicked: %v", r)
			ok = false
		}
	}()
	return p()
}
