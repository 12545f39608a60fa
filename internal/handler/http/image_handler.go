package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/dto"
	"github.com/yokitheyo/mediacatalog/internal/handler/middleware"
)

type ImageHandler struct {
	images        domain.ImageService
	catalog       domain.CatalogService
	maxUploadSize int64
}

func NewImageHandler(images domain.ImageService, catalog domain.CatalogService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{
		images:        images,
		catalog:       catalog,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImageHandler) RegisterRoutes(public, private gin.IRoutes) {
	public.GET("/images", h.ListImages)
	private.POST("/images/upload", h.UploadImage)
	private.DELETE("/images/:id", h.DeleteImage)
}

// UploadImage POST /api/images/upload
func (h *ImageHandler) UploadImage(c *ginext.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	var in domain.UploadInput

	header, err := c.FormFile("image")
	switch {
	case err == nil:
		file, openErr := header.Open()
		if openErr != nil {
			respondError(c, openErr)
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		in.File = &domain.UploadFile{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Reader:      file,
		}
	case isTooLarge(err):
		zlog.Logger.Warn().Int64("limit_bytes", h.maxUploadSize).Msg("upload rejected: body too large")
		respondError(c, domain.ErrFileTooLarge)
		return
	default:
		zlog.Logger.Debug().Err(err).Msg("upload without image file")
	}

	var req dto.UploadImageRequest
	if err := c.ShouldBind(&req); err != nil && !isTooLarge(err) {
		zlog.Logger.Debug().Err(err).Msg("failed to bind upload fields")
	}
	in.Title = req.Title
	in.Category = req.Category

	image, err := h.images.UploadImage(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	zlog.Logger.Info().
		Str("image_id", image.ID).
		Str("category", image.Category).
		Msg("image uploaded")

	c.JSON(http.StatusCreated, dto.UploadResponse{Msg: "Image uploaded successfully", Image: image})
}

// ListImages GET /api/images
func (h *ImageHandler) ListImages(c *ginext.Context) {
	var req dto.ListImagesRequest
	_ = c.ShouldBindQuery(&req)

	images, err := h.catalog.ListImages(c.Request.Context(), domain.ImageQuery{
		Page:     atoiOrZero(req.Page),
		Limit:    atoiOrZero(req.Limit),
		Category: req.Category,
		Search:   req.Search,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapImagesToResponse(images))
}

// DeleteImage DELETE /api/images/:id
func (h *ImageHandler) DeleteImage(c *ginext.Context) {
	id := c.Param("id")

	if err := h.images.DeleteImage(c.Request.Context(), middleware.IdentityFrom(c), id); err != nil {
		respondError(c, err)
		return
	}

	zlog.Logger.Info().Str("image_id", id).Msg("image deleted")
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Image deleted successfully"})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// Unparseable numbers fall back to the usecase defaults.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
