package product

const (
	productColumns = `id, uuid, category, name, description, tags, file_key, image_key, file_name, downloads, created_at, updated_at`

	InsertProduct = `
		INSERT INTO products (category, name, description, tags, file_key, image_key, file_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns + `
	`
	SelectProductByID = `
		SELECT ` + productColumns + `
		FROM products
		WHERE uuid = $1
	`
	SelectByCategory = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET ( ($3 - 1) * $2 )
	`
	SelectAll = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1
	`
	SelectRecent = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	SelectPopular = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY downloads DESC
		LIMIT $1
	`
	UpdateProductByUUID = `
		UPDATE products
		SET category = $2,
		    name = $3,
		    description = $4,
		    tags = $5,
		    file_key = $6,
		    image_key = $7,
		    file_name = $8,
		    updated_at = now()
		WHERE uuid = $1
		RETURNING ` + productColumns + `
	`
	DeleteProductByUUID = `DELETE FROM products WHERE uuid = $1`

	IncrementDownloadsByUUID = `
		UPDATE products
		SET downloads = downloads + 1,
		    updated_at = now()
		WHERE uuid = $1
		RETURNING downloads
	`
)
