package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type ipv4Server struct {
	URL string
	srv *http.Server
	ln  net.Listener
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	s := &ipv4Server{URL: "http://" + ln.Addr().String(), srv: srv, ln: ln}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	return s
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func statusSequence(t *testing.T, statuses []int, body string) (*ipv4Server, *int32) {
	t.Helper()
	var idx int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/export" {
			http.NotFound(w, r)
			return
		}
		i := int(atomic.AddInt32(&idx, 1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		w.WriteHeader(statuses[i])
		if statuses[i] == http.StatusOK {
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte("nope"))
	}))
	return srv, &idx
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	srv, hits := statusSequence(t, []int{503, 429, 200}, "a,b\n1,2\n")
	defer srv.Close()
	c := NewClient(5*time.Second, 3, time.Millisecond, 5*time.Millisecond, nil)
	body, err := c.Fetch(context.Background(), srv.URL+"/export?format=csv")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "a,b\n1,2\n" {
		t.Fatalf("unexpected body %q", body)
	}
	if got := atomic.LoadInt32(hits); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchNotFoundIsNotRetried(t *testing.T) {
	srv, hits := statusSequence(t, []int{404, 200}, "x")
	defer srv.Close()
	c := NewClient(5*time.Second, 3, time.Millisecond, 5*time.Millisecond, nil)
	_, err := c.Fetch(context.Background(), srv.URL+"/export")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T %v", err, err)
	}
	if nf.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status %d", nf.StatusCode)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestFetchAccessDenied(t *testing.T) {
	srv, _ := statusSequence(t, []int{403}, "")
	defer srv.Close()
	c := NewClient(5*time.Second, 1, time.Millisecond, time.Millisecond, nil)
	_, err := c.Fetch(context.Background(), srv.URL+"/export")
	var ad *AccessDeniedError
	if !errors.As(err, &ad) {
		t.Fatalf("expected AccessDeniedError, got %T %v", err, err)
	}
}

func TestFetchServerErrorExhaustsRetries(t *testing.T) {
	srv, hits := statusSequence(t, []int{500}, "")
	defer srv.Close()
	c := NewClient(5*time.Second, 2, time.Millisecond, time.Millisecond, nil)
	_, err := c.Fetch(context.Background(), srv.URL+"/export")
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != 500 {
		t.Fatalf("expected HTTPError 500, got %T %v", err, err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestFetchUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot open local listener (%v)", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	c := NewClient(time.Second, 1, time.Millisecond, time.Millisecond, nil)
	_, err = c.Fetch(context.Background(), "http://"+addr+"/export")
	var ue *UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnreachableError, got %T %v", err, err)
	}
}
