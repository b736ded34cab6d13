package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"design-market-api/internal/application/ports"
	domain "design-market-api/internal/domain/product"
	"design-market-api/internal/domain/user"
	"design-market-api/internal/infrastructure/jwt"
	productDTO "design-market-api/internal/interface/api/rest/dto/product"
	"design-market-api/internal/interface/api/rest/middleware"
	"design-market-api/internal/interface/api/rest/validator"
)

const defaultPageSize = 50

type ProductController struct {
	productService  ports.ProductService
	downloadService ports.DownloadService
	logger          *zap.Logger
}

func NewProductController(
	r *gin.Engine,
	productService ports.ProductService,
	downloadService ports.DownloadService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *ProductController {
	pc := &ProductController{
		productService:  productService,
		downloadService: downloadService,
		logger:          logger,
	}

	r.GET(RouteProducts, pc.ListHandler)
	r.GET(RouteProductsSearch, pc.SearchHandler)
	r.GET(RouteProductsPopular, pc.PopularHandler)
	r.GET(RouteProduct, pc.GetHandler)
	r.GET(RouteProductDownload, middleware.OptionalAuthMiddleware(jwtService), pc.DownloadHandler)

	admin := []gin.HandlerFunc{middleware.AuthMiddleware(jwtService), middleware.RequireAdmin()}
	r.POST(RouteProducts, append(admin, pc.CreateHandler)...)
	r.PUT(RouteProduct, append(admin, pc.UpdateHandler)...)
	r.DELETE(RouteProduct, append(admin, pc.DeleteHandler)...)

	return pc
}

// CreateHandler accepts multipart form data: category, name, description,
// tags (comma-separated) plus an `image` preview and the design `file`.
func (pc *ProductController) CreateHandler(c *gin.Context) {
	category := c.PostForm("category")
	if !domain.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be one of: laser, printing3d, sublimation"})
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	var tags []string
	for _, t := range strings.Split(c.PostForm("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	p, err := pc.productService.Create(c.Request.Context(), ports.CreateProductInput{
		Category:    category,
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Tags:        tags,
		Image:       image,
		File:        file,
	})
	if err != nil {
		pc.logger.Error("Create() error", zap.Error(err))
		respondError(c, err, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, productDTO.ToResponseProduct(*p))
}

func (pc *ProductController) ListHandler(c *gin.Context) {
	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := c.Query("category")
	if err = validator.ValidateCategory(category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var products domain.Products
	if category != "" {
		products, err = pc.productService.ListByCategory(c.Request.Context(), category, defaultPageSize, page)
	} else {
		products, err = pc.productService.ListAll(c.Request.Context(), defaultPageSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		pc.logger.Error("List() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, productDTO.ResponseData{
		Data: productDTO.ToResponseProducts(products),
	})
}

func (pc *ProductController) SearchHandler(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	category := c.Query("category")
	if err := validator.ValidateCategory(category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := pc.productService.Search(c.Request.Context(), term, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		pc.logger.Error("Search() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, productDTO.ResponseData{
		Data: productDTO.ToResponseProducts(products),
	})
}

func (pc *ProductController) PopularHandler(c *gin.Context) {
	products, err := pc.productService.Popular(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		pc.logger.Error("Popular() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, productDTO.ResponseData{
		Data: productDTO.ToResponseProducts(products),
	})
}

func (pc *ProductController) GetHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("product_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be a valid UUID"})
		return
	}

	p, err := pc.productService.FindByID(c.Request.Context(), uuid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		pc.logger.Error("FindByID() error", zap.Error(err))
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, productDTO.ToResponseProduct(*p))
}

// DownloadHandler runs the full entitlement-gated flow for one product:
// catalog lookup, gate, storage fetch, then counter mutation.
func (pc *ProductController) DownloadHandler(c *gin.Context) {
	ok, productUUID := validator.IsUUID(c.Param("product_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be a valid UUID"})
		return
	}

	res, err := pc.downloadService.DownloadProduct(c.Request.Context(), callerUUID(c), productUUID)
	if err != nil {
		respondError(c, err, "download failed")
		return
	}

	streamResult(c, res)
}

func (pc *ProductController) UpdateHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("product_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be a valid UUID"})
		return
	}

	var req struct {
		Category    string   `json:"category"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		FileKey     string   `json:"file_key"`
		ImageKey    string   `json:"image_key"`
		FileName    string   `json:"file_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := pc.productService.Update(c.Request.Context(), &domain.Product{
		UUID:        uuid,
		Category:    req.Category,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		FileKey:     req.FileKey,
		ImageKey:    req.ImageKey,
		FileName:    req.FileName,
	})
	if err != nil {
		pc.logger.Error("Update() error", zap.Error(err))
		respondError(c, err, "failed to update product")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, productDTO.ToResponseProduct(*p))
}

func (pc *ProductController) DeleteHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("product_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be a valid UUID"})
		return
	}

	if err := pc.productService.Delete(c.Request.Context(), uuid); err != nil {
		pc.logger.Error("Delete() error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}

// callerUUID extracts the authenticated user id, nil when the request is
// anonymous or the token subject is malformed.
func callerUUID(c *gin.Context) *user.UUID {
	id := c.GetString(middleware.CtxUserID)
	if id == "" {
		return nil
	}
	ok, uuid := validator.IsUUID(id)
	if !ok {
		return nil
	}
	return &uuid
}
