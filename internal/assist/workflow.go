// Package assist drafts proposal copy with a language model.
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/proposal-pages/internal/llm"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/prompts"
	"github.com/jonathan/proposal-pages/internal/types"
)

// Sections drafted by the workflow, in page order.
const (
	SectionIntroduction = "introduction"
	SectionAboutUs      = "aboutUs"
	SectionSteps        = "steps"
	SectionFAQ          = "faq"
	SectionFooter       = "footer"
)

// Sections lists every drafted section in page order.
var Sections = []string{SectionIntroduction, SectionAboutUs, SectionSteps, SectionFAQ, SectionFooter}

// DefaultSectionTimeout bounds a single model call.
const DefaultSectionTimeout = 20 * time.Second

// Draft is the merged result of a workflow run.
type Draft struct {
	Data *types.ProposalData `json:"proposalData"`
	// Fallbacks names the sections filled with static copy.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// ProposalWorkflow fans out one model call per section.
type ProposalWorkflow struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a ProposalWorkflow.
type Option func(*ProposalWorkflow)

// WithSectionTimeout overrides DefaultSectionTimeout.
func WithSectionTimeout(d time.Duration) Option {
	return func(w *ProposalWorkflow) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithLogger sets the workflow logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *ProposalWorkflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewProposalWorkflow creates a workflow backed by client. A nil client makes
// every section fall back to static copy.
func NewProposalWorkflow(client llm.Client, opts ...Option) *ProposalWorkflow {
	w := &ProposalWorkflow{client: client, timeout: DefaultSectionTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// brief is the prompt data. Empty optional fields get neutral defaults.
type brief struct {
	CompanyName string
	ClientName  string
	Service     string
	Audience    string
	Tone        string
}

func newBrief(req types.AssistRequest) brief {
	b := brief{
		CompanyName: strings.TrimSpace(req.CompanyName),
		ClientName:  strings.TrimSpace(req.ClientName),
		Service:     strings.TrimSpace(req.Service),
		Audience:    strings.TrimSpace(req.Audience),
		Tone:        req.Tone,
	}
	if b.Audience == "" {
		b.Audience = "empresas"
	}
	if b.Tone == "" {
		b.Tone = "formal"
	}
	return b
}

// Generate drafts every section concurrently. A section whose call fails,
// times out or returns unusable JSON gets static Portuguese copy instead.
// Generate only fails when ctx itself is done.
func (w *ProposalWorkflow) Generate(ctx context.Context, req types.AssistRequest) (*Draft, error) {
	b := newBrief(req)
	data := &types.ProposalData{}
	draft := &Draft{Data: data}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, section := range Sections {
		g.Go(func() error {
			ok := w.generateSection(gCtx, section, b, data, &mu)
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("section %s: %w", section, err)
			}
			outcome := "generated"
			if !ok {
				outcome = "fallback"
				mu.Lock()
				applyFallback(section, b, data)
				draft.Fallbacks = append(draft.Fallbacks, section)
				mu.Unlock()
			}
			observability.AssistSectionsTotal.WithLabelValues(section, outcome).Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assist cancelled: %w", err)
	}
	draft.Fallbacks = sortSections(draft.Fallbacks)
	return draft, nil
}

func (w *ProposalWorkflow) generateSection(ctx context.Context, section string, b brief, data *types.ProposalData, mu *sync.Mutex) bool {
	if w.client == nil {
		return false
	}
	log := w.logger.With(zap.String("section", section))

	prompt, err := prompts.Render(prompts.ProposalFile, section, b)
	if err != nil {
		log.Error("prompt render failed", zap.Error(err))
		return false
	}

	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	raw, err := w.client.GenerateJSON(callCtx, prompt, tierFor(section))
	if err != nil {
		log.Warn("section generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return false
	}

	if err := decodeSection(section, raw, data, mu); err != nil {
		log.Warn("section response unusable", zap.Error(err))
		return false
	}
	log.Debug("section generated", zap.Duration("elapsed", time.Since(start)))
	return true
}

func tierFor(section string) llm.ModelTier {
	switch section {
	case SectionIntroduction, SectionFooter:
		return llm.TierLite
	}
	return llm.TierStandard
}

func sortSections(names []string) []string {
	out := make([]string, 0, len(names))
	for _, s := range Sections {
		for _, n := range names {
			if n == s {
				out = append(out, s)
			}
		}
	}
	return out
}

func decodeSection(section, raw string, data *types.ProposalData, mu *sync.Mutex) error {
	mu.Lock()
	defer mu.Unlock()

	switch section {
	case SectionIntroduction:
		var v types.Introduction
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		if empty(v.Title) {
			return fmt.Errorf("missing title")
		}
		data.Introduction = &v
	case SectionAboutUs:
		var v types.AboutUs
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		if empty(v.Title) || empty(v.Subtitle1) {
			return fmt.Errorf("missing title or subtitle1")
		}
		v.HideSection, v.HideSubtitle1, v.HideSubtitle2 = false, false, empty(v.Subtitle2)
		data.AboutUs = &v
	case SectionSteps:
		var v types.Steps
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		if len(v.Topics) == 0 {
			return fmt.Errorf("no steps")
		}
		for i := range v.Topics {
			v.Topics[i].ItemMeta = types.ItemMeta{SortOrder: types.Float(float64(i + 1))}
		}
		v.HideSection = false
		data.Steps = &v
	case SectionFAQ:
		var v types.FAQ
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		if len(v.Items) == 0 {
			return fmt.Errorf("no questions")
		}
		for i := range v.Items {
			v.Items[i].ItemMeta = types.ItemMeta{SortOrder: types.Float(float64(i + 1))}
		}
		v.HideSection = false
		data.FAQ = &v
	case SectionFooter:
		var v types.Footer
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		if empty(v.CallToAction) {
			return fmt.Errorf("missing callToAction")
		}
		v.HideCallToAction, v.HideDisclaimer = false, empty(v.Disclaimer)
		data.Footer = &v
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return nil
}

func empty(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
