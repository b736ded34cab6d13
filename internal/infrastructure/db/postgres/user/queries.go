package user

const (
	userColumns = `id, uuid, email, password_hash, role, display_name, subscription_status, subscription_end, daily_downloads, last_download_date, total_downloads, created_at, updated_at`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE uuid = $1
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	InsertUser = `
		INSERT INTO users (email, password_hash, display_name, role, subscription_status)
		VALUES ($1, $2, $3, 'user', 'free')
		RETURNING ` + userColumns + `
	`
	UpdateSubscriptionByUUID = `
		UPDATE users
		SET subscription_status = $2,
		    subscription_end = $3::timestamptz,
		    updated_at = now()
		WHERE uuid = $1
		RETURNING ` + userColumns + `
	`
	// One conditional update so two concurrent downloads on the limit
	// boundary can never overshoot the stored counter.
	RecordDownloadByUUID = `
		UPDATE users
		SET daily_downloads = CASE
		        WHEN last_download_date = $2 THEN daily_downloads + 1
		        ELSE 1
		    END,
		    last_download_date = $2,
		    total_downloads = total_downloads + 1,
		    updated_at = now()
		WHERE uuid = $1
		RETURNING ` + userColumns + `
	`
	// Subscriber downloads move the lifetime counter only; daily quota
	// fields must stay as they are in case the subscription lapses.
	RecordTotalDownloadByUUID = `
		UPDATE users
		SET total_downloads = total_downloads + 1,
		    updated_at = now()
		WHERE uuid = $1
		RETURNING ` + userColumns + `
	`
)
