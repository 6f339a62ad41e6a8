package nhsp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/nhsp")

const (
	DefaultCredentialEndpoint = "https://bank.nhsp.uk/mybankapi/api/Calendar"
	DefaultSearchEndpoint     = "https://bank.nhsp.uk/mybankapi/api/AvailableShifts_AdvancedSearch"

	DefaultLoginSelector    = "input#login"
	DefaultPasswordSelector = "input#password"
	DefaultSubmitSelector   = "button#showloadinfo"
)

type Config struct {
	PortalURL string
	Username  string
	Password  string

	// the login form's selectors are upstream UI details, not logic
	LoginSelector    string
	PasswordSelector string
	SubmitSelector   string

	// CredentialEndpoint is observed for its Authorization header,
	// SearchEndpoint is the one we call ourselves.
	CredentialEndpoint string
	SearchEndpoint     string

	Headless         bool
	BootstrapTimeout time.Duration
}

// Session is one authenticated browsing context: a headless browser, a
// single open page that went through the login flow, and the
// credential observed off that page's traffic.
type Session struct {
	cfg Config

	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc

	creds *CredentialCell
	live  bool
}

func (s *Session) close() {
	s.live = false
	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// SessionManager owns the at-most-one live Session and bootstraps it
// lazily. It is safe for use from a single poll loop plus the browser
// callbacks the session itself spawns.
type SessionManager struct {
	cfg   Config
	probe *resty.Client

	mu   sync.Mutex
	sess *Session
}

func NewSessionManager(cfg Config) *SessionManager {
	if cfg.LoginSelector == "" {
		cfg.LoginSelector = DefaultLoginSelector
	}
	if cfg.PasswordSelector == "" {
		cfg.PasswordSelector = DefaultPasswordSelector
	}
	if cfg.SubmitSelector == "" {
		cfg.SubmitSelector = DefaultSubmitSelector
	}
	if cfg.CredentialEndpoint == "" {
		cfg.CredentialEndpoint = DefaultCredentialEndpoint
	}
	if cfg.SearchEndpoint == "" {
		cfg.SearchEndpoint = DefaultSearchEndpoint
	}
	if cfg.BootstrapTimeout == 0 {
		cfg.BootstrapTimeout = time.Second * 90
	}

	return &SessionManager{
		cfg:   cfg,
		probe: newProbeClient(),
	}
}

// EnsureSession is idempotent: a live session with a captured
// credential is returned as-is, anything less is torn down and
// bootstrapped from scratch.
func (m *SessionManager) EnsureSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess != nil && m.sess.live {
		if _, ok := m.sess.creds.Get(); ok {
			return nil
		}
	}

	ctx, span := tracer.Start(ctx, "EnsureSession")
	defer span.End()

	if m.sess != nil {
		m.sess.close()
		m.sess = nil
	}

	sess, err := m.bootstrap(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "bootstrap failed")
		span.RecordError(err)
		return err
	}

	m.sess = sess
	return nil
}

// FetchShifts runs the advanced search through the current session.
func (m *SessionManager) FetchShifts(ctx context.Context, rng DateRange) (*ShiftsResponse, error) {
	m.mu.Lock()
	sess := m.sess
	m.mu.Unlock()

	if sess == nil || !sess.live {
		return nil, fmt.Errorf("no live session")
	}
	return sess.FetchShifts(ctx, rng)
}

// Invalidate drops the current session so the next EnsureSession
// bootstraps a fresh one. Used after query failures, where the
// credential is the most likely culprit.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return
	}
	slog.Info("invalidating browser session")
	m.sess.close()
	m.sess = nil
}

func (m *SessionManager) Close() {
	m.Invalidate()
}

func (m *SessionManager) bootstrap(ctx context.Context) (*Session, error) {
	err := ProbePortal(ctx, m.probe, m.cfg.PortalURL)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	// the browser outlives the bootstrap call, so its contexts hang
	// off Background rather than the caller's ctx
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	sess := &Session{
		cfg:         m.cfg,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		creds:       NewCredentialCell(m.cfg.CredentialEndpoint),
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		pause, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			execCtx := cdp.WithExecutor(tabCtx, chromedp.FromContext(tabCtx).Target)
			handleRequestPaused(sess.creds, pause, func(id fetch.RequestID) error {
				return fetch.ContinueRequest(id).Do(execCtx)
			})
		}()
	})

	runCtx, cancel := context.WithTimeout(tabCtx, m.cfg.BootstrapTimeout)
	defer cancel()

	slog.InfoContext(ctx, "logging into portal", "url", m.cfg.PortalURL)
	err = chromedp.Run(runCtx,
		fetch.Enable(),
		chromedp.Navigate(m.cfg.PortalURL),
		chromedp.WaitVisible(m.cfg.LoginSelector, chromedp.ByQuery),
		chromedp.SendKeys(m.cfg.LoginSelector, m.cfg.Username, chromedp.ByQuery),
		chromedp.SendKeys(m.cfg.PasswordSelector, m.cfg.Password, chromedp.ByQuery),
		chromedp.Click(m.cfg.SubmitSelector, chromedp.ByQuery),
	)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("login sequence: %w", err)
	}

	// post-login settle: the portal calls its calendar API once the
	// landing page loads, which is also what produces the credential
	_, err = sess.creds.Wait(ctx, m.cfg.BootstrapTimeout)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("credential capture: %w", err)
	}

	sess.live = true
	slog.InfoContext(ctx, "session ready")
	return sess, nil
}
