package refactor

import (
	"os"

	cierrors "github.com/sourcelens/engine/internal/errors"
	"github.com/sourcelens/engine/internal/codeintel"
)

const backupSuffix = ".backup"

// Invalidator is notified once a file has been rewritten by Apply, so the
// caller's Symbol Index and full-text result cache can be reconciled
// (spec section 4.4: "invalidates the Full-Text result cache and updates
// the Symbol Index for modified files").
type Invalidator interface {
	InvalidateFile(file string)
}

// Applier applies a RefactorPlan transactionally: every target file gets
// a `.backup` sibling before modification, edits apply in
// byte-descending order, and any per-file failure rolls every already
// modified file back from its backup before returning the error -
// filesystem state is always either the fully-applied plan or the
// pre-plan state, never a mixture.
type Applier struct {
	Invalidator Invalidator
}

// NewApplier wires an Applier to the index/cache invalidation hook.
func NewApplier(invalidator Invalidator) *Applier {
	return &Applier{Invalidator: invalidator}
}

// Apply writes plan.Edits to disk. created records files that didn't
// exist before this call (so rollback deletes them rather than trying to
// restore a backup that was never made); backedUp records files a backup
// was actually written for.
func (a *Applier) Apply(plan codeintel.RefactorPlan) error {
	byFile := plan.FilesEdits()

	var backedUp []string
	var created []string

	rollback := func() {
		for _, file := range backedUp {
			if err := os.Rename(file+backupSuffix, file); err != nil {
				_ = err // best-effort: original file state may already be lost
			}
		}
		for _, file := range created {
			_ = os.Remove(file)
		}
	}

	for file, edits := range byFile {
		existed := fileExists(file)

		content, err := os.ReadFile(file)
		if err != nil {
			if !existed {
				content = nil
			} else {
				rollback()
				return cierrors.NewCodeIntelError(cierrors.ErrFileReadFailed, "reading "+file+" before apply", err)
			}
		}

		if existed {
			if err := os.WriteFile(file+backupSuffix, content, 0o644); err != nil {
				rollback()
				return cierrors.NewCodeIntelError(cierrors.ErrFileWriteFailed, "writing backup for "+file, err)
			}
			backedUp = append(backedUp, file)
		} else {
			created = append(created, file)
		}

		updated := applyEditsDescending(content, edits)
		if err := os.WriteFile(file, updated, 0o644); err != nil {
			rollback()
			return cierrors.NewCodeIntelError(cierrors.ErrFileWriteFailed, "writing "+file, err)
		}
	}

	for _, file := range backedUp {
		_ = os.Remove(file + backupSuffix)
	}

	if a.Invalidator != nil {
		for file := range byFile {
			a.Invalidator.InvalidateFile(file)
		}
	}
	return nil
}

// applyEditsDescending applies edits (already sorted byte-descending by
// FilesEdits) to content, each edit's byte range being independent of
// every edit that comes after it in the slice since later-applied edits
// touch lower offsets only.
func applyEditsDescending(content []byte, edits []codeintel.Edit) []byte {
	for _, e := range edits {
		out := make([]byte, 0, len(content)-e.Range.End+e.Range.Start+len(e.NewBytes))
		out = append(out, content[:e.Range.Start]...)
		out = append(out, e.NewBytes...)
		out = append(out, content[e.Range.End:]...)
		content = out
	}
	return content
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
