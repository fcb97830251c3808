// internal/domain/knowledgebase/dto.go
package knowledgebase

import "io"

// Upload is one file received from the client.
type Upload struct {
	Filename string
	Content  io.Reader
}

// UploadResult is returned once every file is stored and the query tool exists.
type UploadResult struct {
	Success bool     `json:"success"`
	FileIDs []string `json:"fileIds"`
	ToolID  string   `json:"toolId"`
}
