package knowledgebase

import (
	"context"
	"fmt"
	"strings"

	"screenerbot-gateway/internal/domain/event"
	"screenerbot-gateway/internal/domain/knowledgebase"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/vapi"

	"go.uber.org/zap"
)

const (
	ToolName          = "knowledge-base-query"
	KnowledgeBaseName = "knowledge-base"
)

type KnowledgeBaseService struct {
	vapi     *vapi.Client
	activity event.Recorder
	logger   *zap.Logger
}

func NewKnowledgeBaseService(client *vapi.Client, activity event.Recorder, logger *zap.Logger) *KnowledgeBaseService {
	return &KnowledgeBaseService{
		vapi:     client,
		activity: activity,
		logger:   logger,
	}
}

// Upload stores every file upstream, in order, then creates one query tool
// over all of them. Files already stored are not removed when a later step fails.
func (s *KnowledgeBaseService) Upload(ctx context.Context, actor string, files []knowledgebase.Upload) (*knowledgebase.UploadResult, error) {
	if len(files) == 0 {
		return nil, xerrors.Invalid("No files uploaded")
	}

	fileIDs := make([]string, 0, len(files))
	for _, f := range files {
		name := strings.TrimSpace(f.Filename)
		if name == "" {
			name = "upload"
		}
		stored, err := s.vapi.UploadFile(ctx, name, f.Content)
		if err != nil {
			s.logger.Error("failed to upload knowledge base file",
				zap.String("actor", actor),
				zap.String("filename", name),
				zap.Int("stored", len(fileIDs)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to upload %s: %w", name, err)
		}
		fileIDs = append(fileIDs, stored.ID)
	}

	tool, err := s.vapi.CreateQueryTool(ctx, ToolName, KnowledgeBaseName, fileIDs)
	if err != nil {
		s.logger.Error("failed to create query tool",
			zap.String("actor", actor),
			zap.Strings("file_ids", fileIDs),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create query tool: %w", err)
	}

	if s.activity != nil {
		ev := event.New(event.TypeKnowledgeBaseLoaded)
		ev.Actor, ev.FileIDs, ev.Message = actor, fileIDs, tool.ID
		if err := s.activity.Record(ctx, ev); err != nil {
			s.logger.Warn("failed to record activity", zap.String("type", string(ev.Type)), zap.Error(err))
		}
	}

	return &knowledgebase.UploadResult{
		Success: true,
		FileIDs: fileIDs,
		ToolID:  tool.ID,
	}, nil
}
