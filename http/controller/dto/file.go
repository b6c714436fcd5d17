package dto

type BatchFileRequest struct {
	FileIDs []uint64 `json:"file_ids" binding:"required,min=1"`
}

type CreateFileGroupRequest struct {
	ProjectID uint64   `json:"project_id" binding:"required"`
	Category  string   `json:"category" binding:"omitempty,oneof=source translation lqa other"`
	Notes     string   `json:"notes"`
	FileIDs   []uint64 `json:"file_ids" binding:"required,min=1"`
}

type ReconcileRequest struct {
	ProjectID *uint64 `json:"project_id"`
}
