package client

import (
	"context"
	"net/url"

	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	"github.com/yukikurage/clinical-data-api/internal/models"
)

func idParam(id uint64) map[string]any {
	return map[string]any{"id": id}
}

// Login starts a session. Every cached response belonged to the previous
// session, so the cache is emptied.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.UserDTO, error) {
	var user dto.UserDTO
	req := contract.LoginRequest{Username: username, Password: password}
	if err := c.Do(ctx, contract.AuthLogin, nil, nil, req, &user); err != nil {
		return nil, err
	}
	c.InvalidateAll()
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.Do(ctx, contract.AuthLogout, nil, nil, nil, nil); err != nil {
		return err
	}
	c.InvalidateAll()
	return nil
}

func (c *Client) Me(ctx context.Context) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.Do(ctx, contract.AuthMe, nil, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	var users []dto.UserDTO
	if err := c.Do(ctx, contract.UsersList, nil, nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, req contract.CreateUserRequest) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.Do(ctx, contract.UsersCreate, nil, nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint64, req contract.UpdateUserRequest) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.Do(ctx, contract.UsersUpdate, idParam(id), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.Do(ctx, contract.UsersDelete, idParam(id), nil, nil, nil)
}

// ListDatasets lists datasets, filtered by modality when it is non-empty.
func (c *Client) ListDatasets(ctx context.Context, modality models.Modality) ([]models.Dataset, error) {
	var datasets []models.Dataset
	query := url.Values{"modality": {string(modality)}}
	if err := c.Do(ctx, contract.DatasetsList, nil, query, nil, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

func (c *Client) GetDataset(ctx context.Context, id uint64) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := c.Do(ctx, contract.DatasetsGet, idParam(id), nil, nil, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// CreateDataset creates a dataset. Dataset lists are cached under the
// datasets family, so they refresh on the next read.
func (c *Client) CreateDataset(ctx context.Context, req contract.CreateDatasetRequest) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := c.Do(ctx, contract.DatasetsCreate, nil, nil, req, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (c *Client) ListFiles(ctx context.Context, datasetID uint64) ([]models.FileRecord, error) {
	var files []models.FileRecord
	if err := c.Do(ctx, contract.FilesList, idParam(datasetID), nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) UploadFile(ctx context.Context, datasetID uint64, req contract.UploadFileRequest) (*models.FileRecord, error) {
	var file models.FileRecord
	if err := c.Do(ctx, contract.FilesUpload, idParam(datasetID), nil, req, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Client) ListModels(ctx context.Context) ([]models.Model, error) {
	var list []models.Model
	if err := c.Do(ctx, contract.ModelsList, nil, nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) RunModel(ctx context.Context, modelID, datasetID uint64) (*dto.ModelRunResponse, error) {
	var run dto.ModelRunResponse
	req := contract.RunModelRequest{DatasetID: datasetID}
	if err := c.Do(ctx, contract.ModelsRun, idParam(modelID), nil, req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *Client) ListAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := c.Do(ctx, contract.AuditList, nil, nil, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
