package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/locdesk/loc-file-service/http/controller/dto"
	"github.com/locdesk/loc-file-service/infra/produce"
	"github.com/locdesk/loc-file-service/utils"
)

// Reconcile runs a mapping repair pass inline and returns the full result.
// Always 200 on a completed run, even when nothing needed fixing.
func (ctrl *Controller) Reconcile(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := ctrl.Provider.Reconciler.Run(ctx, req.ProjectID, actor)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile] Run failed for user %s: %v", actor.ID, err)
		respondProviderError(c, err)
		return
	}

	utils.JSON200(c, result)
}

// ReconcileAsync queues the repair pass for the consumer and returns 202.
func (ctrl *Controller) ReconcileAsync(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	msg := produce.ReconcileRequestMessage{
		ProjectID:   req.ProjectID,
		RequestedBy: actor.ID.String(),
		Role:        actor.Role,
	}
	if err := ctrl.Infra.Produce.ReconcileService.PublishReconcileRequest(ctx, msg); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile] Failed to publish reconcile request: %v", err)
		utils.JSON500(c, "Failed to queue reconciliation")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Reconcile] Queued reconcile request from user %s", actor.ID)
	utils.JSON202(c, gin.H{
		"message":    "Reconciliation queued",
		"project_id": req.ProjectID,
	})
}
