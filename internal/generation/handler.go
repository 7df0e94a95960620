package generation

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// maxUploadBytes bounds multipart request bodies before any parsing.
const maxUploadBytes = 20 << 20

// Handler wires generation HTTP handlers to the pipeline.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-article", h.generateArticle)
	rg.POST("/generate-blog-title", h.generateBlogTitle)
	rg.POST("/generate-image", h.generateImage)
	rg.POST("/remove-image-background", h.removeBackground)
	rg.POST("/remove-image-object", h.removeObject)
	rg.POST("/resume-review", h.resumeReview)
	rg.POST("/code/fix", h.fixCode)
}

type articleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

func (h *Handler) generateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, "Prompt is required.")
		return
	}
	h.generate(c, Request{
		Operation: OpArticle,
		Payload:   Payload{Prompt: req.Prompt, MaxTokens: req.Length},
	})
}

type blogTitleRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) generateBlogTitle(c *gin.Context) {
	var req blogTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, "Prompt is required.")
		return
	}
	h.generate(c, Request{
		Operation: OpBlogTitle,
		Payload:   Payload{Prompt: req.Prompt},
	})
}

type imageRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

func (h *Handler) generateImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, "Prompt is required.")
		return
	}
	h.generate(c, Request{
		Operation: OpImage,
		Payload:   Payload{Prompt: req.Prompt, Publish: req.Publish},
	})
}

func (h *Handler) removeBackground(c *gin.Context) {
	image, ok := h.readUpload(c, "image")
	if !ok {
		return
	}
	h.generate(c, Request{
		Operation: OpRemoveBackground,
		Payload:   Payload{Image: image},
	})
}

func (h *Handler) removeObject(c *gin.Context) {
	image, ok := h.readUpload(c, "image")
	if !ok {
		return
	}
	h.generate(c, Request{
		Operation: OpRemoveObject,
		Payload:   Payload{Image: image, ObjectName: c.PostForm("object")},
	})
}

func (h *Handler) resumeReview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		respond.Fail(c, "Resume file is required.")
		return
	}

	data, ok := readFileHeader(c, fileHeader)
	if !ok {
		return
	}

	h.generate(c, Request{
		Operation: OpResumeReview,
		Payload: Payload{
			File:     data,
			FileName: fileHeader.Filename,
			FileMime: fileHeader.Header.Get("Content-Type"),
		},
	})
}

type codeFixRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (h *Handler) fixCode(c *gin.Context) {
	var req codeFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, "Code is required.")
		return
	}
	h.generate(c, Request{
		Operation: OpCodeFix,
		Payload:   Payload{Code: req.Code, Language: req.Language},
	})
}

// generate runs the pipeline and writes the envelope. Pipeline failures
// answer HTTP 200 with success=false; the envelope is the contract.
func (h *Handler) generate(c *gin.Context, req Request) {
	req.UserID = middleware.UserIDFromContext(c)
	req.PlanClaim = middleware.PlanFromContext(c)

	result, err := h.Svc.Generate(c.Request.Context(), req)
	if err != nil {
		respond.Fail(c, failureMessage(req.Operation, err))
		return
	}

	if result.Review != nil {
		respond.Data(c, result.Review)
		return
	}
	respond.Content(c, result.Content)
}

func (h *Handler) readUpload(c *gin.Context, field string) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile(field)
	if err != nil {
		respond.Fail(c, "Image is required.")
		return nil, false
	}
	return readFileHeader(c, fileHeader)
}

func readFileHeader(c *gin.Context, fileHeader *multipart.FileHeader) ([]byte, bool) {
	file, err := fileHeader.Open()
	if err != nil {
		respond.Fail(c, "Unable to read uploaded file.")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Fail(c, "Unable to read uploaded file.")
		return nil, false
	}
	return data, true
}

func failureMessage(op Operation, err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	case errors.Is(err, ErrAuthenticationRequired):
		return "Authentication required. Please login."
	case errors.Is(err, ErrPremiumRequired):
		return "This feature is only available for premium subscriptions"
	case errors.Is(err, ErrQuotaExceeded):
		if op == OpImage {
			return "Free users can only generate 5 images. Upgrade to premium for unlimited access."
		}
		return "Limit reached. Upgrade to continue."
	case errors.Is(err, ErrPayloadTooLarge):
		return "Resume file size exceeds allowed size(5MB)."
	case errors.Is(err, ErrBackendUnavailable):
		return "Generation service is unavailable. Please try again."
	default:
		if op == OpCodeFix {
			return "An error occurred while fixing the code. Please try again."
		}
		return "Something went wrong. Please try again."
	}
}
