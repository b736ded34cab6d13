package rest

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"design-market-api/internal/application/ports"
)

// streamResult proxies fetched object bytes to the client with an
// attachment disposition. A client abort mid-copy is not an error worth
// reporting; counters were already settled when the server-side fetch
// succeeded.
func streamResult(c *gin.Context, res *ports.DownloadResult) {
	defer res.Body.Close()

	c.Header("Content-Type", res.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	if res.ContentLength > 0 {
		c.Header("Content-Length", strconv.FormatInt(res.ContentLength, 10))
	}
	c.Status(200)

	_, _ = io.Copy(c.Writer, res.Body)
}
