package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jonathan/agent-registration/internal/types"
)

// stampOffsetY places header stamps this many points below the top margin.
const stampOffsetY = -24

// Engine is the pdfcpu-backed Backend implementation. Validation is relaxed
// because state agencies publish forms with all kinds of structural quirks.
type Engine struct {
	conf *model.Configuration
}

// NewEngine returns an Engine with a relaxed-validation configuration.
func NewEngine() *Engine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Engine{conf: conf}
}

// PageCount returns the number of pages in the document.
func (e *Engine) PageCount(doc []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(doc), e.conf)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}

// ParseFields exports the document's form and flattens it into field
// descriptors. A document without a form yields an empty list and no error.
func (e *Engine) ParseFields(doc []byte) ([]types.FieldDescriptor, error) {
	exported, err := e.exportForm(doc)
	if err != nil {
		return nil, err
	}
	if exported == nil {
		return nil, nil
	}
	return exported.descriptors(), nil
}

// Fill writes values into the document's form fields via an export/fill
// round trip. Only fields present in both the form and the values map are
// touched; everything else in the document is preserved.
func (e *Engine) Fill(doc []byte, values map[string]string) (FillResult, error) {
	exported, err := e.exportForm(doc)
	if err != nil {
		return FillResult{}, err
	}
	if exported == nil {
		return FillResult{Doc: doc, Failed: sortedKeys(values)}, nil
	}

	fill, filled, failed := buildFill(exported, values)
	if filled == 0 {
		return FillResult{Doc: doc, Failed: failed}, nil
	}

	payload, err := json.Marshal(fill)
	if err != nil {
		return FillResult{}, fmt.Errorf("failed to marshal fill form: %w", err)
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(doc), bytes.NewReader(payload), &out, e.conf); err != nil {
		return FillResult{}, fmt.Errorf("failed to fill form: %w", err)
	}
	return FillResult{Doc: out.Bytes(), Filled: filled, Failed: failed}, nil
}

// Overlay draws each placed text onto its page as an on-top text watermark.
func (e *Engine) Overlay(doc []byte, texts []PlacedText) ([]byte, error) {
	current := doc
	for _, t := range texts {
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		desc := fmt.Sprintf(
			"fontname:Helvetica, points:%.1f, scalefactor:1 abs, rotation:0, position:bl, offset:%.2f %.2f, fillcolor:#000000, opacity:1",
			size, t.X, t.Y)
		next, err := e.watermark(current, t.Page, t.Text, desc)
		if err != nil {
			return nil, fmt.Errorf("failed to draw overlay text on page %d: %w", t.Page, err)
		}
		current = next
	}
	return current, nil
}

// StampText draws a header line near the top margin of the given page.
func (e *Engine) StampText(doc []byte, page int, text string) ([]byte, error) {
	desc := fmt.Sprintf(
		"fontname:Helvetica-Bold, points:14, scalefactor:1 abs, rotation:0, position:tc, offset:0 %d, fillcolor:#000000, opacity:1",
		stampOffsetY)
	out, err := e.watermark(doc, page, text, desc)
	if err != nil {
		return nil, fmt.Errorf("failed to stamp page %d: %w", page, err)
	}
	return out, nil
}

// AppendPages appends all pages of extra after the last page of doc.
func (e *Engine) AppendPages(doc []byte, extra []byte) ([]byte, error) {
	var out bytes.Buffer
	readers := []io.ReadSeeker{bytes.NewReader(doc), bytes.NewReader(extra)}
	if err := api.MergeRaw(readers, &out, false, e.conf); err != nil {
		return nil, fmt.Errorf("failed to append pages: %w", err)
	}
	return out.Bytes(), nil
}

func (e *Engine) exportForm(doc []byte) (*formFile, error) {
	var buf bytes.Buffer
	if err := api.ExportFormJSON(bytes.NewReader(doc), &buf, "", e.conf); err != nil {
		if strings.Contains(err.Error(), "no form") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to export form: %w", err)
	}
	var exported formFile
	if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
		return nil, fmt.Errorf("failed to decode exported form: %w", err)
	}
	return &exported, nil
}

func (e *Engine) watermark(doc []byte, page int, text, desc string) ([]byte, error) {
	wm, err := api.TextWatermark(text, desc, true, false, pdftypes.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build text watermark: %w", err)
	}
	var out bytes.Buffer
	pages := []string{strconv.Itoa(page)}
	if err := api.AddWatermarks(bytes.NewReader(doc), &out, pages, wm, e.conf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
