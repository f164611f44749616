package driver

import (
	"context"
	"errors"

	"spin/internal/fix"
	"spin/internal/trace"
)

// FixOptions configures FixPaths.
type FixOptions struct {
	Options
	// DryRun computes the fixed content without writing it.
	DryRun bool
}

// FixResult is the outcome for one manifest.
type FixResult struct {
	Path    string
	Applied []fix.AppliedFix
	Skipped []fix.SkippedFix
	// Content is the fixed text; set only when something was applied.
	Content []byte
	Err     error
}

// FixPaths parses every manifest, applies the suggested fixes and writes
// the files back unless DryRun is set. Files without fixes are reported
// with no Applied entries.
func FixPaths(ctx context.Context, paths []string, opts FixOptions) ([]FixResult, error) {
	sp, ctx := trace.BeginCtx(ctx, trace.ScopePass, "fix")
	defer sp.End("")

	files, err := ExpandPaths(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("fix: no manifests found")
	}
	popts := opts.Options
	popts.KeepPartial = true

	results := make([]FixResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := FixResult{Path: path}
		res, err := Parse(path, popts)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		var applied *fix.ApplyResult
		if opts.DryRun {
			applied = fix.Apply(res.File.Content, res.Bag.Items())
		} else {
			applied, err = fix.ApplyFile(res.File, res.Bag.Items())
			if err != nil && !errors.Is(err, fix.ErrNoFixes) {
				result.Err = err
			}
		}
		result.Applied = applied.Applied
		result.Skipped = applied.Skipped
		if applied.Changed() {
			result.Content = applied.Content
		}
		results = append(results, result)
	}
	return results, nil
}
