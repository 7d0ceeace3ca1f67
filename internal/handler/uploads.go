package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/apierror"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImageSize = 5 << 20 // 5 MiB

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadsHandler stores product images on disk and records the public path.
type UploadsHandler struct {
	svc       service.ProductService
	uploadDir string
}

func NewUploadsHandler(svc service.ProductService, uploadDir string) *UploadsHandler {
	return &UploadsHandler{svc: svc, uploadDir: uploadDir}
}

func (h *UploadsHandler) UploadProductImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arquivo 'image' obrigatorio"))
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("imagem excede 5MB"))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		c.JSON(http.StatusBadRequest, apierror.New("formato de imagem nao suportado"))
		return
	}

	// Filename is server-generated; the original name never touches disk.
	name := uuid.NewString() + ext
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao salvar imagem"))
		return
	}

	publicPath := "/uploads/" + name
	if err := h.svc.AttachImage(c.Request.Context(), id, publicPath); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Produto nao encontrado"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": publicPath})
}
