package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"spin/internal/diag"
	"spin/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Primary   source.Span
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Code   diag.Code
	Reason string
}

// ApplyResult aggregates the rewritten content with applied and skipped fixes.
type ApplyResult struct {
	Content []byte
	Applied []AppliedFix
	Skipped []SkippedFix
}

// Changed reports whether at least one fix was applied.
func (r *ApplyResult) Changed() bool { return len(r.Applied) > 0 }

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply applies the first fix of every diagnostic to content. Edits are
// interpreted in the coordinates of the original content; a fix whose edits
// overlap an already accepted fix, fall outside the buffer or fail the
// OldText guard is skipped as a whole. Content itself is not modified.
func Apply(content []byte, diagnostics []diag.Diagnostic) *ApplyResult {
	result := &ApplyResult{Content: append([]byte(nil), content...)}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	sortCandidates(candidates)

	var accepted []diag.FixEdit
	var apply []edit
	for _, cand := range candidates {
		if reason := checkEdits(content, accepted, cand.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Code: cand.diag.Code, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted = append(accepted, e)
			apply = append(apply, edit{FixEdit: e, primary: cand.diag.Primary.Start, order: cand.order})
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			Primary:   cand.diag.Primary,
			EditCount: len(cand.fix.Edits),
		})
	}

	result.Content = applyEdits(result.Content, apply)
	return result
}

// ApplyFile applies fixes to file and writes the result back to disk,
// keeping the file mode. Virtual files are never written.
func ApplyFile(file *source.File, diagnostics []diag.Diagnostic) (*ApplyResult, error) {
	result := Apply(file.Content, diagnostics)
	if !result.Changed() {
		return result, ErrNoFixes
	}
	if file.Flags&source.FileVirtual != 0 {
		return result, nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, result.Content, mode); err != nil {
		return result, fmt.Errorf("write %s: %w", file.Path, err)
	}
	return result, nil
}

// gatherCandidates takes the first fix of every diagnostic. Diagnostics may
// carry alternatives; only the first one is machine-applied.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0, len(diagnostics))
	var skips []SkippedFix
	for i, d := range diagnostics {
		if len(d.Fixes) == 0 {
			continue
		}
		f := d.Fixes[0]
		if len(f.Edits) == 0 {
			skips = append(skips, SkippedFix{Title: f.Title, Code: d.Code, Reason: "fix has no edits"})
			continue
		}
		cands = append(cands, candidate{diag: d, fix: f, order: i})
	}
	return cands, skips
}

// sortCandidates orders candidates by primary span, then by input order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func checkEdits(content []byte, accepted, edits []diag.FixEdit) string {
	for i, e := range edits {
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(content) {
			return "edit span out of range"
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
		for _, prev := range accepted {
			if overlaps(prev, e) {
				return "conflicts with previously applied edits"
			}
		}
		for _, other := range edits[:i] {
			if overlaps(other, e) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// overlaps reports whether two edits touch the same bytes. Insertions at the
// same offset do not overlap; an insertion strictly inside a replaced range does.
func overlaps(a, b diag.FixEdit) bool {
	aIns, bIns := a.Span.Empty(), b.Span.Empty()
	switch {
	case aIns && bIns:
		return false
	case aIns:
		return b.Span.Start < a.Span.Start && a.Span.Start < b.Span.End
	case bIns:
		return a.Span.Start < b.Span.Start && b.Span.Start < a.Span.End
	default:
		return a.Span.Start < b.Span.End && b.Span.Start < a.Span.End
	}
}

type edit struct {
	diag.FixEdit
	primary uint32
	order   int
}

// applyEdits применяет правки с конца буфера, чтобы смещения не съезжали.
// При равном смещении первой идёт правка внешней конструкции: вставка
// внутренней окажется левее, и "[" получит "]" раньше, чем "{" получит "}".
func applyEdits(buf []byte, edits []edit) []byte {
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start > b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End > b.Span.End
		}
		if a.primary != b.primary {
			return a.primary < b.primary
		}
		return a.order < b.order
	})
	for _, e := range edits {
		start, end := int(e.Span.Start), int(e.Span.End)
		suffix := append([]byte(nil), buf[end:]...)
		buf = append(append(buf[:start], e.NewText...), suffix...)
	}
	return buf
}
