package controller

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/http/controller/dto"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/utils"
)

// UploadFile writes the blob first and registers metadata only after the
// write is durable, so a crash between the two leaves an unreferenced blob
// instead of a dangling catalog row.
func (ctrl *Controller) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to get file from form data")
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to open uploaded file")
		utils.JSON400(c, "Failed to read file")
		return
	}
	defer src.Close()

	storageKey := uuid.NewString() + "_" + fileHeader.Filename

	if err := ctrl.Infra.Minio.Put(ctx, storageKey, src, fileHeader.Size, contentType); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Blob write failed for %s", fileHeader.Filename)
		utils.JSON503(c, "Storage is unavailable")
		return
	}

	file, err := ctrl.Provider.Registry.Register(ctx, storageKey, fileHeader.Filename, contentType, fileHeader.Size, actor.ID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to register file %s", fileHeader.Filename)
		respondProviderError(c, err)
		return
	}

	utils.JSON201(c, file)
}

// DownloadFile streams one file to the client after a view/download check.
func (ctrl *Controller) DownloadFile(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	fileID, ok := parseFileID(c)
	if !ok {
		return
	}

	file, err := ctrl.Provider.Gateway.AuthorizeSingle(ctx, actor, fileID, provider.CapabilityDownload)
	if err != nil {
		respondProviderError(c, err)
		return
	}

	reader, err := ctrl.Provider.Gateway.Open(ctx, file)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to open blob for file %d", fileID)
		respondProviderError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", file.MediaType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.OriginalName))
	c.Header("Content-Length", fmt.Sprintf("%d", file.SizeBytes))

	c.Status(200)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out, nothing left to report to the client.
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to stream file %d: %v", fileID, err)
		return
	}
}

// BatchDownload zips every file of the batch the actor may download. Denied
// and missing ids are skipped, not errors; only an empty authorized set fails.
func (ctrl *Controller) BatchDownload(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	var req dto.BatchFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := ctrl.Provider.Gateway.AuthorizeBatch(ctx, actor, req.FileIDs, provider.CapabilityDownload)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	if len(result.Authorized) == 0 {
		utils.JSON404(c, "No accessible files in the requested batch")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[File] Batch download by %s: %d authorized, %d denied",
		actor.ID, len(result.Authorized), len(result.Denied))

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", "attachment; filename=\"files.zip\"")

	c.Status(200)
	if err := ctrl.Provider.Gateway.StreamZip(ctx, c.Writer, result.Authorized); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to stream zip: %v", err)
		return
	}
}

// DeleteFile soft-deletes one file after a delete check.
func (ctrl *Controller) DeleteFile(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	fileID, ok := parseFileID(c)
	if !ok {
		return
	}

	if _, err := ctrl.Provider.Gateway.AuthorizeSingle(ctx, actor, fileID, provider.CapabilityDelete); err != nil {
		respondProviderError(c, err)
		return
	}

	if err := ctrl.Provider.Registry.SoftDelete(ctx, fileID); err != nil {
		respondProviderError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"message": "File deleted successfully",
		"file_id": fileID,
	})
}

// BatchDelete soft-deletes every file of the batch the actor may delete and
// reports the rest as denied. Partial success is a 200.
func (ctrl *Controller) BatchDelete(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := ctrl.principalFromContext(c)
	if !ok {
		return
	}

	var req dto.BatchFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := ctrl.Provider.Gateway.AuthorizeBatch(ctx, actor, req.FileIDs, provider.CapabilityDelete)
	if err != nil {
		respondProviderError(c, err)
		return
	}

	deleted := make([]uint64, 0, len(result.Authorized))
	for _, file := range result.Authorized {
		if err := ctrl.Provider.Registry.SoftDelete(ctx, file.ID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to soft-delete file %d: %v", file.ID, err)
			respondProviderError(c, err)
			return
		}
		deleted = append(deleted, file.ID)
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[File] Batch delete by %s: %d deleted, %d denied",
		actor.ID, len(deleted), len(result.Denied))
	utils.JSON200(c, gin.H{
		"deleted": deleted,
		"denied":  result.Denied,
	})
}

func parseFileID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSON400(c, "Invalid file id")
		return 0, false
	}
	return id, true
}
