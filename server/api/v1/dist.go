package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/bunpu"
	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/server/httperr"
)

// 本檔是 flat-array 邊界的 HTTP 映射：payload 直接攜帶 dist 的
// flat float64 編碼（見 dist/codec.go），無需 catalog 情境。
// 這組 endpoints 是無狀態的，所以都是 package-level handler。

const maxFlatLen = 1 << 20 // 防止超大 payload 打爆記憶體

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 32<<20) // 32MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperr.Errs(w, errs.Wrap(err, "json decode failed"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// MonteCarlo 對 flat 編碼分佈執行破產模擬
func MonteCarlo(w http.ResponseWriter, r *http.Request) {
	type mcRequest struct {
		Data       []float64 `json:"data"`
		InitWealth float64   `json:"init_wealth"`
		Steps      int       `json:"steps"`
		Trials     int       `json:"trials"`
		Seed       int64     `json:"seed"`
	}
	type mcResponse struct {
		Ruined   int     `json:"ruined"`
		Trials   int     `json:"trials"`
		RuinProb float64 `json:"ruin_prob"`
	}
	req := new(mcRequest)
	if !decodeBody(w, r, req) {
		return
	}
	if len(req.Data) > maxFlatLen {
		httperr.Errs(w, errs.NewWarn("data too large"))
		return
	}
	if req.Steps < 1 || req.Steps > 100000 {
		httperr.Errs(w, errs.NewWarn("steps must be between 1 to 100,000"))
		return
	}
	if req.Trials < 1 || req.Trials > 10000000 {
		httperr.Errs(w, errs.NewWarn("trials must be between 1 to 10,000,000"))
		return
	}
	ruined := bunpu.RunMonteCarlo(req.Data, req.InitWealth, req.Steps, req.Trials, req.Seed)
	writeJSON(w, mcResponse{
		Ruined:   ruined,
		Trials:   req.Trials,
		RuinProb: float64(ruined) / float64(req.Trials),
	})
}

// Convolve 回傳兩個 flat 編碼分佈的和分佈
func Convolve(w http.ResponseWriter, r *http.Request) {
	type convRequest struct {
		D1 []float64 `json:"d1"`
		D2 []float64 `json:"d2"`
	}
	type distResponse struct {
		Data []float64 `json:"data"`
	}
	req := new(convRequest)
	if !decodeBody(w, r, req) {
		return
	}
	if len(req.D1) > maxFlatLen || len(req.D2) > maxFlatLen {
		httperr.Errs(w, errs.NewWarn("data too large"))
		return
	}
	writeJSON(w, distResponse{Data: bunpu.Convolve(req.D1, req.D2)})
}

// MixDist 以權重 p 混合兩個 flat 編碼分佈
func MixDist(w http.ResponseWriter, r *http.Request) {
	type mixRequest struct {
		D1 []float64 `json:"d1"`
		D2 []float64 `json:"d2"`
		P  float64   `json:"p"`
	}
	type distResponse struct {
		Data []float64 `json:"data"`
	}
	req := new(mixRequest)
	if !decodeBody(w, r, req) {
		return
	}
	if len(req.D1) > maxFlatLen || len(req.D2) > maxFlatLen {
		httperr.Errs(w, errs.NewWarn("data too large"))
		return
	}
	if req.P < 0 || req.P > 1 {
		httperr.Errs(w, errs.NewWarn("p must be in [0,1]"))
		return
	}
	writeJSON(w, distResponse{Data: bunpu.Mix(req.D1, req.D2, req.P)})
}

// ScaleDist 對 flat 編碼分佈做線性變換 X -> k*X
func ScaleDist(w http.ResponseWriter, r *http.Request) {
	type scaleRequest struct {
		Data []float64 `json:"data"`
		K    float64   `json:"k"`
	}
	type distResponse struct {
		Data []float64 `json:"data"`
	}
	req := new(scaleRequest)
	if !decodeBody(w, r, req) {
		return
	}
	if len(req.Data) > maxFlatLen {
		httperr.Errs(w, errs.NewWarn("data too large"))
		return
	}
	out, err := bunpu.Scale(req.Data, req.K)
	if err != nil {
		// k=0 疊上尾形狀 → errs.Warn → 400
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, distResponse{Data: out})
}

// Stat 回傳 flat 編碼分佈的閉式統計
func Stat(w http.ResponseWriter, r *http.Request) {
	type statRequest struct {
		Data []float64 `json:"data"`
		X    *float64  `json:"x,omitempty"` // 有帶 x 才算 P(X > x)
	}
	type statResponse struct {
		Mean     float64  `json:"mean"`
		Variance float64  `json:"variance"`
		Std      float64  `json:"std"`
		ProbGT   *float64 `json:"prob_gt,omitempty"`
	}
	req := new(statRequest)
	if !decodeBody(w, r, req) {
		return
	}
	if len(req.Data) > maxFlatLen {
		httperr.Errs(w, errs.NewWarn("data too large"))
		return
	}
	resp := statResponse{
		Mean:     bunpu.Mean(req.Data),
		Variance: bunpu.Variance(req.Data),
		Std:      bunpu.Std(req.Data),
	}
	if req.X != nil {
		p := bunpu.ProbGT(req.Data, *req.X)
		resp.ProbGT = &p
	}
	writeJSON(w, resp)
}
