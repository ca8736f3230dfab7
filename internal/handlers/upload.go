// internal/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

// POST /upload
func (h *UploadHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	// Leave room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.storageService.MaxSize()+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyUploadTooLarge), nil)
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissing), nil)
		return
	}
	if header.Size > h.storageService.MaxSize() {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyUploadTooLarge), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.ServerError(c, err)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(c.Request.Context(), file)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrFileTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyUploadTooLarge), nil)
		return
	case errors.Is(err, services.ErrUnsupportedFileType):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_FILE_TYPE", i18n.T(lang, i18n.KeyUploadInvalidType), nil)
		return
	default:
		utils.ServerError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// DELETE /upload/:key
func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.storageService.DeleteFile(c.Request.Context(), c.Param("key")); err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}
