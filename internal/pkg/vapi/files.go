package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type File struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Tool struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

type queryToolRequest struct {
	Type           string          `json:"type"`
	Function       toolFunction    `json:"function"`
	KnowledgeBases []knowledgeBase `json:"knowledgeBases"`
}

type toolFunction struct {
	Name string `json:"name"`
}

type knowledgeBase struct {
	Provider string   `json:"provider"`
	Name     string   `json:"name"`
	FileIDs  []string `json:"fileIds"`
}

// UploadFile sends one file as multipart field "file".
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (*File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/file", &buf, mw.FormDataContentType(), -1)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode file response: %w", err)
	}
	if f.ID == "" {
		return nil, fmt.Errorf("upstream returned no file id for %s", filename)
	}
	return &f, nil
}

// CreateQueryTool builds a query tool backed by a knowledge base over fileIDs.
func (c *Client) CreateQueryTool(ctx context.Context, toolName, kbName string, fileIDs []string) (*Tool, error) {
	req := queryToolRequest{
		Type:     "query",
		Function: toolFunction{Name: toolName},
		KnowledgeBases: []knowledgeBase{{
			Provider: "google",
			Name:     kbName,
			FileIDs:  fileIDs,
		}},
	}
	var tool Tool
	if err := c.postJSON(ctx, "/tool", req, &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}
