package assembly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/agent-registration/internal/classify"
	"github.com/jonathan/agent-registration/internal/pdf"
	"github.com/jonathan/agent-registration/internal/types"
)

// ErrEmptySource is the only fatal generation error: a form whose raw bytes
// were never uploaded or have been lost cannot produce any output.
var ErrEmptySource = errors.New("source document has no bytes")

// Stage names one step of the generation pipeline.
type Stage string

const (
	StageValidating Stage = "validating"
	StageFilling    Stage = "filling"
	StageOverlaying Stage = "overlaying"
	StageMerging    Stage = "merging"
	StageSaving     Stage = "saving"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Slot skip reasons surfaced in the generation report.
const (
	SkipReasonMissing       = "missing"
	SkipReasonNeedsReupload = "needs re-upload"
	SkipReasonMergeFailed   = "merge failed"
)

// SkippedSlot records one addendum slot that could not be merged.
type SkippedSlot struct {
	Kind   types.AddendumKind `json:"kind"`
	Reason string             `json:"reason"`
}

// Result is the outcome of one generation. Every local failure is absorbed
// here instead of aborting the run; Output always holds the best-effort
// document when Stage is done.
type Result struct {
	Stage           Stage         `json:"stage"`
	FileName        string        `json:"file_name"`
	PageCount       int           `json:"page_count"`
	FieldsFilled    int           `json:"fields_filled"`
	FieldFailures   []string      `json:"field_failures,omitempty"`
	OverlaysDrawn   int           `json:"overlays_drawn"`
	OverlayFailures int           `json:"overlay_failures,omitempty"`
	SlotsMerged     int           `json:"slots_merged"`
	SkippedSlots    []SkippedSlot `json:"skipped_slots,omitempty"`

	Output []byte `json:"-"`
}

// Request is one (form, agent) generation pair. Source holds the form's raw
// bytes loaded from the blob store. Requests share no mutable state, so any
// number of them may run concurrently.
type Request struct {
	Form   *types.RegistrationForm
	Agent  *types.Agent
	Source []byte
}

// Assembler drives the generation pipeline: validate, fill, overlay, merge
// addendums, save. One assembler is safe for concurrent use.
type Assembler struct {
	backend pdf.Backend
	logger  *slog.Logger
	now     func() time.Time
}

// New returns an assembler over the given document backend.
func New(backend pdf.Backend, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{backend: backend, logger: logger, now: time.Now}
}

// Generate runs the pipeline for one request. Cancellation is honored
// between stages only; a stage in flight always runs to completion.
func (a *Assembler) Generate(ctx context.Context, req Request) (*Result, error) {
	log := a.logger.With("form", req.Form.FileName, "agent", req.Agent.DisplayName())
	res := &Result{Stage: StageValidating}

	if len(req.Source) == 0 {
		res.Stage = StageFailed
		return res, fmt.Errorf("failed to validate form %q: %w", req.Form.FileName, ErrEmptySource)
	}

	numbering := NumberSlots(req.Form.AddendumSlots)
	current := req.Source

	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Stage = StageFilling
	if req.Form.Fieldable && len(req.Form.Mappings) > 0 {
		current = a.fill(log, req, numbering, current, res)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Stage = StageOverlaying
	if len(req.Form.Placements) > 0 {
		current = a.overlay(log, req, numbering, current, res)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Stage = StageMerging
	current = a.merge(log, req, numbering, current, res)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Stage = StageSaving
	res.Output = current
	res.FileName = FileName(req.Form.StateName, req.Agent, a.now())
	pages, err := a.backend.PageCount(current)
	if err != nil {
		log.Warn("could not count output pages", "error", err)
	}
	res.PageCount = pages

	res.Stage = StageDone
	log.Info("generation finished",
		"file", res.FileName,
		"pages", res.PageCount,
		"filled", res.FieldsFilled,
		"merged", res.SlotsMerged,
		"skipped", len(res.SkippedSlots))
	return res, nil
}

// fill resolves every mapped field and writes the non-empty values in one
// backend call. Field-local failures land in the report, never in an error.
func (a *Assembler) fill(log *slog.Logger, req Request, numbering Numbering, current []byte, res *Result) []byte {
	values := make(map[string]string, len(req.Form.Mappings))
	for name, entry := range req.Form.Mappings {
		if entry.Target.IsSkip() {
			continue
		}
		shortForm := classify.TableRowContext(name)
		v := ResolveValue(req.Agent, entry.Target, numbering, shortForm)
		if v == "" {
			continue
		}
		values[name] = v
	}
	if len(values) == 0 {
		return current
	}

	filled, err := a.backend.Fill(current, values)
	if err != nil {
		log.Error("form fill failed, output keeps unfilled fields", "error", err)
		return current
	}
	res.FieldsFilled = filled.Filled
	res.FieldFailures = filled.Failed
	for _, name := range filled.Failed {
		log.Warn("field left unfilled", "field", name)
	}
	return filled.Doc
}

// overlay draws each placement separately so one bad placement cannot take
// down the rest.
func (a *Assembler) overlay(log *slog.Logger, req Request, numbering Numbering, current []byte, res *Result) []byte {
	for _, p := range req.Form.Placements {
		text := p.CustomText
		if text == "" {
			text = ResolveValue(req.Agent, p.Target, numbering, false)
		}
		if text == "" {
			continue
		}
		next, err := a.backend.Overlay(current, []pdf.PlacedText{{
			Page:     p.Page,
			X:        p.X,
			Y:        p.Y,
			FontSize: p.FontSize,
			Text:     text,
		}})
		if err != nil {
			res.OverlayFailures++
			log.Warn("overlay placement failed", "page", p.Page, "label", p.Label, "error", err)
			continue
		}
		res.OverlaysDrawn++
		current = next
	}
	return current
}

// merge appends each required addendum in ordinal order, stamping a header
// on its first page. Slots without a usable payload are recorded and skipped.
func (a *Assembler) merge(log *slog.Logger, req Request, numbering Numbering, current []byte, res *Result) []byte {
	for _, kind := range req.Form.AddendumSlots {
		add, ok := req.Agent.Addendums[kind]
		if !ok {
			res.SkippedSlots = append(res.SkippedSlots, SkippedSlot{Kind: kind, Reason: SkipReasonMissing})
			continue
		}
		if len(add.Bytes) == 0 {
			res.SkippedSlots = append(res.SkippedSlots, SkippedSlot{Kind: kind, Reason: SkipReasonNeedsReupload})
			continue
		}

		pages := add.Bytes
		header := fmt.Sprintf("Addendum %d — %s", numbering[kind], types.AddendumLabels[kind])
		stamped, err := a.backend.StampText(pages, 1, header)
		if err != nil {
			log.Warn("addendum stamp failed, merging unstamped", "kind", kind, "error", err)
		} else {
			pages = stamped
		}

		merged, err := a.backend.AppendPages(current, pages)
		if err != nil {
			res.SkippedSlots = append(res.SkippedSlots, SkippedSlot{Kind: kind, Reason: SkipReasonMergeFailed})
			log.Error("addendum merge failed", "kind", kind, "error", err)
			continue
		}
		current = merged
		res.SlotsMerged++
	}
	return current
}

// FileName builds the output filename `<state>_<first>_<last>_<date>.pdf`,
// with whitespace inside each part collapsed to underscores.
func FileName(stateName string, agent *types.Agent, at time.Time) string {
	parts := []string{
		sanitizePart(stateName, "form"),
		sanitizePart(agent.FirstName, "first"),
		sanitizePart(agent.LastName, "last"),
		at.Format("2006-01-02"),
	}
	return strings.Join(parts, "_") + ".pdf"
}

func sanitizePart(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return strings.Join(strings.Fields(s), "_")
}
