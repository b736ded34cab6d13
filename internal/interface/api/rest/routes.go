package rest

const (
	RouteAPI = "/api"

	// auth
	RouteRegister = RouteAPI + "/auth/register"
	RouteLogin    = RouteAPI + "/auth/login"

	// profile
	RouteMe               = RouteAPI + "/me"
	RouteUserSubscription = RouteAPI + "/users/:user_id/subscription"

	// catalog
	RouteProducts        = RouteAPI + "/products"
	RouteProduct         = RouteProducts + "/:product_id"
	RouteProductDownload = RouteProduct + "/download"
	RouteProductsSearch  = RouteProducts + "/search"
	RouteProductsPopular = RouteProducts + "/popular"

	// storage proxy
	RouteUpload         = RouteAPI + "/upload"
	RouteUploadMultiple = RouteAPI + "/upload-multiple"
	RouteDownloadURL    = RouteAPI + "/download-url"
	RouteDownload       = RouteAPI + "/download"
	RouteFiles          = RouteAPI + "/files"

	// ops
	RouteHealth  = RouteAPI + "/health"
	RouteMetrics = RouteAPI + "/metrics"
)
