package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api/metrics"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

// defaultClosedMessage is shown when the backend rejects the session without
// saying why.
const defaultClosedMessage = "your session is no longer valid, please sign in again"

// authTransport is the single place that knows what "the backend says this
// session is dead" means. It attaches the current bearer token to every
// outbound request (auth endpoints excepted) and watches every response for
// the unauthorized status.
//
// On a 401 it invalidates the session and emits the user-visible notice —
// but only if the rejected token is still the current one. That check is what
// makes the teardown exactly-once under N concurrent failing calls, and what
// keeps a straggling rejection for an already-replaced session from touching
// the fresh one. The triggering call's failure still propagates to its caller.
type authTransport struct {
	next     http.RoundTripper
	session  *service.SessionStore
	notifier ports.Notifier
	log      zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", uuid.NewString())

	var token string
	if !strings.HasPrefix(req.URL.Path, "/auth/") {
		if sess := t.session.Current(); !sess.Anonymous() {
			token = sess.Token
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	metrics.RequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	metrics.RequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		reason := peekErrorMessage(resp)
		if reason == "" {
			reason = defaultClosedMessage
		}
		if t.session.InvalidateIfCurrent(token) {
			metrics.ForcedLogoutsTotal.Inc()
			t.log.Warn().Str("reason", reason).Msg("forced logout")
			if t.notifier != nil {
				t.notifier.SessionClosed(reason)
			}
		}
	}

	return resp, nil
}

// peekErrorMessage reads the {"error": ...} envelope without consuming the
// body from the caller's point of view.
func peekErrorMessage(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) != nil {
		return ""
	}
	return envelope.Error
}
