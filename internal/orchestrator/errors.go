package orchestrator

import (
	"fmt"

	"github.com/sourcelens/engine/internal/codeintel"
	cierrors "github.com/sourcelens/engine/internal/errors"
)

func errUnknownAgent(name string) error {
	return cierrors.NewCodeIntelError(cierrors.ErrInvalidQuery, fmt.Sprintf("no worker registered for agent %q", name), nil)
}

func errUnknownPlanKind(kind codeintel.ExecutionPlanKind) error {
	return cierrors.NewCodeIntelError(cierrors.ErrInvalidQuery, fmt.Sprintf("unrecognized execution plan kind %d", kind), nil)
}
