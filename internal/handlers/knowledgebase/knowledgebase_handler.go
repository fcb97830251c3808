// internal/handlers/knowledgebase/knowledgebase_handler.go
package knowledgebase

import (
	"fmt"
	"net/http"

	"screenerbot-gateway/internal/domain/knowledgebase"
	"screenerbot-gateway/internal/middleware"
	"screenerbot-gateway/internal/pkg/response"
	service "screenerbot-gateway/internal/service/knowledgebase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FormField is the multipart field carrying knowledge base documents.
const FormField = "knowledgeBase"

type KnowledgeBaseHandler struct {
	kbService *service.KnowledgeBaseService
	logger    *zap.Logger
}

func NewKnowledgeBaseHandler(kbService *service.KnowledgeBaseService, logger *zap.Logger) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{
		kbService: kbService,
		logger:    logger,
	}
}

// UploadFiles stores every uploaded document and builds one query tool over them.
func (h *KnowledgeBaseHandler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.ValidationError(c, "No files uploaded")
		return
	}
	headers := form.File[FormField]

	uploads := make([]knowledgebase.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.ValidationError(c, fmt.Sprintf("unreadable file %s", fh.Filename))
			return
		}
		defer f.Close()
		uploads = append(uploads, knowledgebase.Upload{Filename: fh.Filename, Content: f})
	}

	result, err := h.kbService.Upload(c.Request.Context(), middleware.GetEmail(c), uploads)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.logger.Info("knowledge base uploaded",
		zap.Int("files", len(result.FileIDs)),
		zap.String("tool_id", result.ToolID),
	)
	response.Success(c, http.StatusOK, result)
}
