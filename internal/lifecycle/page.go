// Package lifecycle drives one template document from load to reveal.
//
// A Page buffers at most one payload until the document is interactive, injects
// it, and reveals the content exactly once, either because data arrived or
// because the fallback timer fired first. Every timer callback re-checks the
// reveal state under the page lock before acting.
package lifecycle

import (
	"errors"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/dom"
	"github.com/jonathan/proposal-pages/internal/injection"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/schemas"
	"github.com/jonathan/proposal-pages/internal/templates"
	"github.com/jonathan/proposal-pages/internal/types"
)

// EventDataInjected is dispatched once per page after the reveal completes.
const EventDataInjected = "flash-template-data-injected"

// Notification names other than EventDataInjected.
const (
	NotifyState   = "state"
	NotifyUpdated = "updated"
)

var (
	// ErrClosed is returned when a payload reaches a closed page.
	ErrClosed = errors.New("page closed")
	// ErrLatePayload is returned when a payload arrives after the page already
	// revealed its unpopulated template on fallback.
	ErrLatePayload = errors.New("payload arrived after fallback reveal")
)

// State is the reveal state of a page.
type State int

const (
	AwaitingData State = iota
	Revealing
	Revealed
)

func (s State) String() string {
	switch s {
	case AwaitingData:
		return "awaiting-data"
	case Revealing:
		return "revealing"
	case Revealed:
		return "revealed"
	}
	return "unknown"
}

// Trigger records what started the reveal.
type Trigger string

const (
	TriggerNone     Trigger = ""
	TriggerData     Trigger = "data"
	TriggerFallback Trigger = "fallback"
	TriggerManual   Trigger = "manual"
)

// Timings are the fixed delays of the page lifecycle.
type Timings struct {
	// InjectDelay defers injection after the document becomes interactive.
	InjectDelay time.Duration
	// Settle defers showing the content after injection.
	Settle time.Duration
	// Fade is the loading indicator transition before it leaves the layout.
	Fade time.Duration
	// Fallback forces a reveal when no payload arrives.
	Fallback time.Duration
}

// DefaultTimings returns 150ms / 100ms / 500ms / 5s.
func DefaultTimings() Timings {
	return Timings{
		InjectDelay: 150 * time.Millisecond,
		Settle:      100 * time.Millisecond,
		Fade:        500 * time.Millisecond,
		Fallback:    5 * time.Second,
	}
}

// EventDetail is the payload of the render-complete event.
type EventDetail struct {
	Timestamp int64 `json:"timestamp"`
}

// Notification is delivered to subscribers on every state change, every
// (re-)injection and once for the render-complete event.
type Notification struct {
	Name    string       `json:"name"`
	State   string       `json:"state"`
	Bubbles bool         `json:"bubbles,omitempty"`
	Detail  *EventDetail `json:"detail,omitempty"`
}

// Option configures a Page.
type Option func(*Page)

// WithTimings overrides the lifecycle delays.
func WithTimings(t Timings) Option {
	return func(p *Page) { p.timings = t }
}

// WithLogger sets the page logger. The injector logs through it too.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Page) { p.now = now }
}

const subscriberBuffer = 16

// Page is the lifecycle state of one loaded template document.
type Page struct {
	mu       sync.Mutex
	name     string
	doc      *goquery.Document
	reveal   templates.Reveal
	injector *injection.Injector
	timings  Timings
	logger   *zap.Logger
	now      func() time.Time

	started bool
	closed  bool
	ready   bool

	pending    *types.Payload
	hasPending bool

	state       State
	trigger     Trigger
	loadingDone bool
	contentDone bool
	dispatched  bool
	injections  int

	timers      map[*time.Timer]struct{}
	subscribers map[chan Notification]struct{}
}

// New wraps a freshly loaded template document.
func New(page *templates.Page, opts ...Option) *Page {
	p := &Page{
		name:        string(page.Name),
		doc:         page.Doc,
		reveal:      page.Bindings.Reveal,
		timings:     DefaultTimings(),
		logger:      zap.NewNop(),
		now:         time.Now,
		timers:      make(map[*time.Timer]struct{}),
		subscribers: make(map[chan Notification]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("template", p.name))
	p.injector = injection.New(page.Bindings, p.logger)
	return p
}

// Start arms the fallback timer. It is a no-op after the first call.
func (p *Page) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	p.after(p.timings.Fallback, p.onFallback)
}

// DOMContentLoaded marks the document interactive. A buffered payload is
// injected after the inject delay.
func (p *Page) DOMContentLoaded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready || p.closed {
		return
	}
	p.ready = true
	if p.hasPending {
		p.after(p.timings.InjectDelay, p.injectPending)
	}
}

// HandleMessage routes a template data message to ReceiveExternalPayload.
// Messages of any other type are ignored and reported as not handled.
func (p *Page) HandleMessage(msg *types.Message) (bool, error) {
	if msg == nil || msg.Type != types.MessageTypeTemplateData {
		p.logger.Debug("ignoring message", zap.Bool("nil", msg == nil))
		return false, nil
	}
	return true, p.ReceiveExternalPayload(msg.Data)
}

// HandleRawMessage normalizes a raw message envelope at the boundary and
// handles it. Invalid fields are pruned and logged.
func (p *Page) HandleRawMessage(raw []byte) (bool, error) {
	msg, pruned, err := schemas.NormalizeMessage(raw)
	if err != nil {
		p.logger.Debug("ignoring malformed message", zap.Error(err))
		return false, err
	}
	if len(pruned) > 0 {
		observability.PrunedFieldsTotal.Add(float64(len(pruned)))
		p.logger.Warn("payload fields pruned", zap.Strings("fields", schemas.PrunedFields(pruned)))
	}
	return p.HandleMessage(msg)
}

// ReceiveExternalPayload buffers payload until the document is interactive,
// otherwise injects it right away. The last payload received wins.
func (p *Page) ReceiveExternalPayload(payload *types.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.trigger == TriggerFallback {
		p.dropLate()
		return ErrLatePayload
	}
	if !p.ready {
		p.pending, p.hasPending = payload, true
		p.logger.Debug("payload buffered until document is ready")
		return nil
	}
	p.inject(payload)
	return nil
}

// TestHook is the manual entry point used by harnesses outside the message flow.
func (p *Page) TestHook(payload *types.Payload) error {
	return p.ReceiveExternalPayload(payload)
}

// Reveal starts the reveal transition if it has not started yet.
func (p *Page) Reveal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.beginReveal(TriggerManual)
}

// Close stops every pending timer and closes all subscriptions.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for t := range p.timers {
		t.Stop()
		delete(p.timers, t)
	}
	for ch := range p.subscribers {
		close(ch)
		delete(p.subscribers, ch)
	}
}

// State returns the current reveal state.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Trigger returns what started the reveal, or TriggerNone.
func (p *Page) Trigger() Trigger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trigger
}

// Injections returns how many payloads were injected into the document.
func (p *Page) Injections() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.injections
}

// Name returns the template name of the document.
func (p *Page) Name() string {
	return p.name
}

// HTML renders the document in its current state.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return templates.Render(p.doc)
}

// Subscribe returns a channel of notifications and a function that cancels it.
// Slow subscribers miss notifications rather than blocking the page.
func (p *Page) Subscribe() (<-chan Notification, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan Notification, subscriberBuffer)
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	p.subscribers[ch] = struct{}{}
	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subscribers[ch]; ok {
			delete(p.subscribers, ch)
			close(ch)
		}
	}
}

// The methods below run with p.mu held.

func (p *Page) after(d time.Duration, fn func()) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.timers, t)
		if p.closed {
			return
		}
		fn()
	})
	p.timers[t] = struct{}{}
}

func (p *Page) injectPending() {
	if !p.hasPending {
		return
	}
	payload := p.pending
	p.pending, p.hasPending = nil, false
	if p.trigger == TriggerFallback {
		p.dropLate()
		return
	}
	p.inject(payload)
}

func (p *Page) inject(payload *types.Payload) {
	before := p.injector.Warnings()
	p.injector.Inject(p.doc, payload)
	p.injections++

	observability.RendersTotal.WithLabelValues(p.name, "session").Inc()
	if n := p.injector.Warnings() - before; n > 0 {
		observability.AnchorWarningsTotal.WithLabelValues(p.name).Add(float64(n))
	}
	p.notify(Notification{Name: NotifyUpdated, State: p.state.String()})

	if p.state == AwaitingData {
		p.beginReveal(TriggerData)
		return
	}
	p.logger.Debug("payload re-injected in place", zap.Int("injections", p.injections))
}

func (p *Page) dropLate() {
	observability.LatePayloadsDropped.Inc()
	p.logger.Warn("dropping payload received after fallback reveal")
}

func (p *Page) onFallback() {
	if p.state != AwaitingData {
		return
	}
	p.logger.Info("no payload received, revealing template", zap.Duration("after", p.timings.Fallback))
	p.beginReveal(TriggerFallback)
}

func (p *Page) beginReveal(trigger Trigger) {
	if p.state != AwaitingData {
		return
	}
	p.state = Revealing
	p.trigger = trigger
	observability.RevealsTotal.WithLabelValues(string(trigger)).Inc()
	p.notify(Notification{Name: NotifyState, State: p.state.String()})

	if loading := p.anchor(p.reveal.Loading); loading != nil {
		dom.SetStyle(loading, "opacity", "0")
	}
	p.after(p.timings.Fade, p.hideLoading)
	p.after(p.timings.Settle, p.showContent)
}

func (p *Page) hideLoading() {
	if loading := p.anchor(p.reveal.Loading); loading != nil {
		dom.SetVisible(loading, false)
	}
	p.loadingDone = true
	p.finishReveal()
}

func (p *Page) showContent() {
	if content := p.anchor(p.reveal.Content); content != nil {
		dom.SetVisible(content, true)
		dom.SetStyle(content, "opacity", "1")
	}
	p.contentDone = true
	p.finishReveal()
}

func (p *Page) finishReveal() {
	if p.state != Revealing || !p.loadingDone || !p.contentDone {
		return
	}
	p.state = Revealed
	p.notify(Notification{Name: NotifyState, State: p.state.String()})
	if p.dispatched {
		return
	}
	p.dispatched = true
	p.notify(Notification{
		Name:    EventDataInjected,
		State:   p.state.String(),
		Bubbles: true,
		Detail:  &EventDetail{Timestamp: p.now().UnixMilli()},
	})
	p.logger.Debug("reveal complete", zap.String("trigger", string(p.trigger)))
}

func (p *Page) anchor(selector string) *goquery.Selection {
	if selector == "" {
		return nil
	}
	sel := p.doc.Find(selector)
	if sel.Length() == 0 {
		p.logger.Warn("reveal anchor not found", zap.String("anchor", selector))
		return nil
	}
	return sel
}

func (p *Page) notify(n Notification) {
	for ch := range p.subscribers {
		select {
		case ch <- n:
		default:
			p.logger.Warn("subscriber too slow, notification dropped", zap.String("name", n.Name))
		}
	}
}
