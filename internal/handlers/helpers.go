package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// bindValues flattens a JSON or form-encoded body into strings, keeping
// only the requested keys that are actually present. Absence and explicit
// values stay distinguishable, which the partial-update endpoints rely on.
func bindValues(ctx *gin.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string)

	if strings.Contains(ctx.ContentType(), "json") {
		var raw map[string]interface{}

		if err := ctx.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}

		for _, key := range keys {
			v, ok := raw[key]

			if !ok {
				continue
			}

			switch t := v.(type) {
			case string:
				values[key] = t
			case bool:
				values[key] = strconv.FormatBool(t)
			case float64:
				values[key] = strconv.FormatFloat(t, 'f', -1, 64)
			}
		}

		return values, nil
	}

	for _, key := range keys {
		if v, ok := ctx.GetPostForm(key); ok {
			values[key] = v
		}
	}

	return values, nil
}

func formOrJSONValue(ctx *gin.Context, key string) string {
	values, err := bindValues(ctx, key)

	if err != nil {
		return ""
	}

	return values[key]
}
