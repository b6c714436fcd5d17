package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/locdesk/loc-file-service/http/controller"
	middlewares "github.com/locdesk/loc-file-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/files")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.POST("/upload", ctrl.UploadFile)
		apiRoutes.GET("/:id/download", ctrl.DownloadFile)
		apiRoutes.POST("/download/batch", ctrl.BatchDownload)
		apiRoutes.DELETE("/:id", ctrl.DeleteFile)
		apiRoutes.POST("/delete/batch", ctrl.BatchDelete)

		groupRoutes := apiRoutes.Group("/groups")
		{
			groupRoutes.POST("/", ctrl.CreateFileGroup)
			groupRoutes.GET("/project/:project_id", ctrl.ListFileGroups)
		}

		reconcileRoutes := apiRoutes.Group("/reconcile")
		{
			reconcileRoutes.POST("/", ctrl.Reconcile)
			reconcileRoutes.POST("/async", ctrl.ReconcileAsync)
		}
	}
	return r
}
