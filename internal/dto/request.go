package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UploadImageRequest struct {
	Title    string `form:"title"`
	Category string `form:"category"`
}

type ListImagesRequest struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

// BlobCleanupTask asks the worker to remove a blob that has no catalog record.
type BlobCleanupTask struct {
	PublicID string `json:"public_id"`
	Reason   string `json:"reason"`
	Attempt  int    `json:"attempt,omitempty"`
}
