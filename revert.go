package instafader

import (
	"context"
	"path/filepath"

	"github.com/setanarut/instafader/logger"
	"go.uber.org/zap"
)

// RevertReport describes a finished Revert.
type RevertReport struct {
	Snapshot string
	Restored int
	// Configuration is skin.ini as it reads after the restore.
	Configuration Configuration
}

// Revert copies the most recent snapshot back over the skin folder. The
// snapshot itself is kept. It fails with ErrNothingToRevert when the folder
// holds no snapshot.
func (e *Engine) Revert(ctx context.Context, progress ProgressFunc) (RevertReport, error) {
	if err := ctx.Err(); err != nil {
		return RevertReport{}, err
	}
	log := logger.L(ctx).With(zap.String("dir", e.Dir))

	m := e.backups()
	snapshot, ok, err := m.Latest()
	if err != nil {
		return RevertReport{}, ioFailure("revert", "", err)
	}
	if !ok {
		return RevertReport{}, &Error{Kind: ErrNothingToRevert, Op: "revert"}
	}
	rep := RevertReport{Snapshot: snapshot}

	rep.Restored, err = m.Restore(snapshot, progress)
	if err != nil {
		log.Error("revert failed", zap.String("snapshot", snapshot), zap.Int("restored", rep.Restored), zap.Error(err))
		return rep, ioFailure("revert", filepath.Base(snapshot), err)
	}
	log.Info("reverted", zap.String("snapshot", filepath.Base(snapshot)), zap.Int("files", rep.Restored))

	rep.Configuration, err = e.Load(ctx)
	return rep, err
}
