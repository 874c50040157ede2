package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, badRequest(name + " must be a non-negative integer")
	}
	return v, nil
}
