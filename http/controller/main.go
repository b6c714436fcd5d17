package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/locdesk/loc-file-service/config"
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/repository"
	"github.com/locdesk/loc-file-service/utils"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Provider   *provider.Provider
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository, prov *provider.Provider) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	if prov == nil {
		panic("Failed to initialize Provider")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Provider:   prov,
	}
}

// principalFromContext rebuilds the actor from the claims the auth middleware
// injected. A false return means the response has already been written.
func (ctrl *Controller) principalFromContext(c *gin.Context) (provider.Principal, bool) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return provider.Principal{}, false
	}
	return provider.Principal{
		ID:   userID,
		Role: c.GetString("role"),
	}, true
}

// respondProviderError translates provider sentinels into response codes.
func respondProviderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		utils.JSON404(c, err.Error())
	case errors.Is(err, provider.ErrNoAccessibleFiles):
		utils.JSON404(c, err.Error())
	case errors.Is(err, provider.ErrForbidden):
		utils.JSON403(c, err.Error())
	case errors.Is(err, provider.ErrFilesNotFound):
		utils.JSON422(c, err.Error())
	case errors.Is(err, provider.ErrStorageUnavailable):
		utils.JSON503(c, err.Error())
	default:
		utils.JSON500(c, "Internal server error")
	}
}
