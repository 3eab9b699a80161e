package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/recibo/receipts-server/internal/logger"
)

// newImageKey derives a fresh object key under prefix, keeping only the
// original file extension. Random names prevent collisions and key reuse.
func newImageKey(prefix, fileName string) string {
	return prefix + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}

// cleanupStep is one independently loggable storage cleanup action,
// executed only after the relational state it compensates for is durable.
type cleanupStep struct {
	name string
	run  func(ctx context.Context) error
}

// runCleanup executes every step, logging failures instead of surfacing
// them: the authoritative relational state is already committed and a
// dangling object is an acceptable leak.
func runCleanup(ctx context.Context, log *logger.Logger, steps []cleanupStep) {
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			log.Error("storage cleanup step failed", "step", step.name, "error", err.Error())
		}
	}
}
