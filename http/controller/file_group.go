package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/locdesk/loc-file-service/entity"
	"github.com/locdesk/loc-file-service/http/controller/dto"
	"github.com/locdesk/loc-file-service/utils"
)

// CreateFileGroup creates a group with its initial members in one shot.
// Any unresolvable file id rejects the whole request.
func (ctrl *Controller) CreateFileGroup(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	var req dto.CreateFileGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	category := entity.FileCategory(req.Category)
	if category == "" {
		category = entity.CategorySource
	}

	group, err := ctrl.Provider.Groups.CreateGroup(ctx, req.ProjectID, category, req.Notes, req.FileIDs, actor)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Group] Create failed for user %s: %v", actor.ID, err)
		respondProviderError(c, err)
		return
	}

	utils.JSON201(c, group)
}

// ListFileGroups returns every group of a project with resolved members.
func (ctrl *Controller) ListFileGroups(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := ctrl.principalFromContext(c); !ok {
		return
	}

	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil || projectID == 0 {
		utils.JSON400(c, "Invalid project id")
		return
	}

	groups, err := ctrl.Provider.Groups.ListGroups(ctx, projectID)
	if err != nil {
		respondProviderError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"project_id": projectID,
		"groups":     groups,
	})
}
