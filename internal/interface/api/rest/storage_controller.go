package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"design-market-api/internal/application/ports"
	"design-market-api/internal/infrastructure/jwt"
	"design-market-api/internal/interface/api/rest/middleware"
	"design-market-api/internal/interface/api/rest/validator"
)

// StorageController is the credential-isolating proxy surface: everything
// that touches the object store goes through here, signed server-side.
type StorageController struct {
	storageService  ports.StorageService
	downloadService ports.DownloadService
	logger          *zap.Logger
}

func NewStorageController(
	r *gin.Engine,
	storageService ports.StorageService,
	downloadService ports.DownloadService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *StorageController {
	sc := &StorageController{
		storageService:  storageService,
		downloadService: downloadService,
		logger:          logger,
	}

	r.GET(RouteHealth, sc.HealthHandler)
	r.GET(RouteDownload, middleware.OptionalAuthMiddleware(jwtService), sc.DownloadHandler)

	admin := []gin.HandlerFunc{middleware.AuthMiddleware(jwtService), middleware.RequireAdmin()}
	r.POST(RouteUpload, append(admin, sc.UploadHandler)...)
	r.POST(RouteUploadMultiple, append(admin, sc.UploadMultipleHandler)...)
	r.GET(RouteDownloadURL, append(admin, sc.DownloadURLHandler)...)
	r.GET(RouteFiles, append(admin, sc.ListFilesHandler)...)
	r.DELETE(RouteFiles, append(admin, sc.DeleteFileHandler)...)

	return sc
}

func (sc *StorageController) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (sc *StorageController) UploadHandler(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	obj, err := sc.storageService.Upload(c.Request.Context(), fh, c.PostForm("path"))
	if err != nil {
		sc.logger.Error("Upload() error", zap.Error(err))
		respondError(c, err, "upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"fileName":    obj.Key,
		"url":         obj.URL,
		"size":        obj.Size,
		"contentType": obj.ContentType,
	})
}

func (sc *StorageController) UploadMultipleHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	objs, err := sc.storageService.UploadBatch(c.Request.Context(), fhs, c.PostForm("folder"))
	if err != nil {
		sc.logger.Error("UploadBatch() error", zap.Error(err))
		respondError(c, err, "upload failed")
		return
	}

	files := make([]gin.H, 0, len(objs))
	for _, obj := range objs {
		files = append(files, gin.H{
			"fileName":    obj.Key,
			"url":         obj.URL,
			"size":        obj.Size,
			"contentType": obj.ContentType,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

func (sc *StorageController) DownloadURLHandler(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file key is required"})
		return
	}

	url, expiresIn, err := sc.downloadService.SignedURL(c.Request.Context(), callerUUID(c), key)
	if err != nil {
		sc.logger.Error("SignedURL() error", zap.Error(err))
		respondError(c, err, "failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"url":       url,
		"expiresIn": expiresIn,
	})
}

// DownloadHandler streams an object by key through the proxy after the
// entitlement gate approves the caller.
func (sc *StorageController) DownloadHandler(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file key is required"})
		return
	}

	res, err := sc.downloadService.DownloadByKey(c.Request.Context(), callerUUID(c), key)
	if err != nil {
		respondError(c, err, "download failed")
		return
	}

	streamResult(c, res)
}

func (sc *StorageController) ListFilesHandler(c *gin.Context) {
	maxKeys, err := validator.ValidateMaxKeys(c.Query("maxKeys"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := sc.storageService.List(c.Request.Context(), c.Query("prefix"), maxKeys, c.Query("continuationToken"))
	if err != nil {
		sc.logger.Error("List() error", zap.Error(err))
		respondError(c, err, "failed to list files")
		return
	}

	files := make([]gin.H, 0, len(listing.Objects))
	for _, obj := range listing.Objects {
		files = append(files, gin.H{
			"key":          obj.Key,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
			"url":          obj.URL,
		})
	}

	resp := gin.H{
		"success":     true,
		"files":       files,
		"totalFiles":  listing.KeyCount,
		"isTruncated": listing.IsTruncated,
	}
	if listing.NextToken != "" {
		resp["nextToken"] = listing.NextToken
	}

	c.JSON(http.StatusOK, resp)
}

func (sc *StorageController) DeleteFileHandler(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file key is required"})
		return
	}

	if err := sc.storageService.Delete(c.Request.Context(), key); err != nil {
		sc.logger.Error("Delete() error", zap.Error(err))
		respondError(c, err, "delete failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File " + key + " deleted",
	})
}
