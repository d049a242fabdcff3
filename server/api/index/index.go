// Package index 提供根路徑的 API 導覽頁。
package index

import (
	"encoding/json"
	"net/http"
)

// IndexHandlerFn 回傳服務簡介與可用 endpoints。
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"service": "bunpu",
		"desc":    "mixed distribution engine: convolution, sampling, ruin simulation",
		"endpoints": []string{
			"GET  /v1/scenarios",
			"GET|POST /v1/sim",
			"POST /v1/simbycfg",
			"POST /v1/mc",
			"POST /v1/convolve",
			"POST /v1/mix",
			"POST /v1/scale",
			"POST /v1/stat",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
