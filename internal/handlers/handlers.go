package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Datasets *DatasetHandler
	Models   *ModelHandler
	Audit    *AuditHandler
}

// New builds the handlers on top of the given services.
func New(
	authService *services.AuthService,
	userService *services.UserService,
	datasetService *services.DatasetService,
	modelService *services.ModelService,
	auditService *services.AuditService,
) Handlers {
	return Handlers{
		Auth:     NewAuthHandler(authService),
		Users:    NewUserHandler(userService),
		Datasets: NewDatasetHandler(datasetService),
		Models:   NewModelHandler(modelService),
		Audit:    NewAuditHandler(auditService),
	}
}

// Bindings maps each contract route name to the handler serving it.
func (h Handlers) Bindings() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		contract.AuthLogin.Name:      h.Auth.Login,
		contract.AuthLogout.Name:     h.Auth.Logout,
		contract.AuthMe.Name:         h.Auth.GetCurrentUser,
		contract.UsersList.Name:      h.Users.ListUsers,
		contract.UsersCreate.Name:    h.Users.CreateUser,
		contract.UsersUpdate.Name:    h.Users.UpdateUser,
		contract.UsersDelete.Name:    h.Users.DeleteUser,
		contract.DatasetsList.Name:   h.Datasets.ListDatasets,
		contract.DatasetsGet.Name:    h.Datasets.GetDataset,
		contract.DatasetsCreate.Name: h.Datasets.CreateDataset,
		contract.FilesList.Name:      h.Datasets.ListFiles,
		contract.FilesUpload.Name:    h.Datasets.UploadFile,
		contract.ModelsList.Name:     h.Models.ListModels,
		contract.ModelsRun.Name:      h.Models.RunModel,
		contract.AuditList.Name:      h.Audit.ListAuditLogs,
	}
}
