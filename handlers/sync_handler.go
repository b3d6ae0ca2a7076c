package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/greenexweb/kapturasync/engine"
)

type SyncHandler struct {
	Orchestrator *engine.Orchestrator
	Timeout      time.Duration
}

// RunSync triggers one push-then-pull reconciliation. The engine only
// defines the synchronous operation; this endpoint is its trigger.
func (sh *SyncHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), sh.Timeout)
	defer cancel()

	result, err := sh.Orchestrator.Run(ctx)
	if err != nil {
		log.Printf("Sync failed: %v", err)
		if result != nil {
			// partial outcome: one phase may have succeeded
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"result": result,
				"error":  err.Error(),
			})
			return
		}
		WriteEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
