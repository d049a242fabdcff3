package v1

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strconv"

	"github.com/zintix-labs/bunpu"
	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/server/httperr"
	"github.com/zintix-labs/bunpu/spec"
	"github.com/zintix-labs/bunpu/stats"
)

type SimHandler struct {
	Lab     *bunpu.Lab
	Workers int
}

func NewSimHandler(lab *bunpu.Lab, workers int) *SimHandler {
	if workers < 1 {
		workers = 1
	}
	return &SimHandler{Lab: lab, Workers: workers}
}

// Scenarios 回傳 catalog 內所有情境的摘要（供前端/腳本列舉）
func (sh *SimHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	sum, err := sh.Lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sum)
}

// Sim 依情境 ID 執行破產模擬並回傳報告
func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SimRequestBody struct {
		SID    spec.SID `json:"sid"`
		Trials int      `json:"trials"`
		Seed   *int64   `json:"seed,omitempty"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type SimResponse struct {
		Report   *stats.RuinReport `json:"report"`
		UsedTime int64             `json:"used_ms"`
	}
	// ---
	req := new(SimRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// sid
		if s := q.URL.Query().Get("sid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("sid must be non-negative integer"))
				return
			}
			req.SID = spec.SID(u)
		} else {
			// 直接空值
			httperr.Errs(w, errs.NewWarn("sid is required"))
			return
		}

		// trials（可省略：用情境設定檔內的預設值）
		if t := q.URL.Query().Get("trials"); t != "" {
			u, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("trials must be integer"))
				return
			}
			req.Trials = int(u)
		}

		// seed
		if s := q.URL.Query().Get("seed"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			v := u
			req.Seed = &v
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗
	_, ok := sh.Lab.EntryById(req.SID)
	if !ok {
		httperr.Errs(w, errs.NewWarn("sid not found"))
		return
	}
	if req.Trials == 0 {
		ss, err := sh.Lab.ScenarioSettingById(req.SID)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		req.Trials = ss.Trials
	}
	if req.Trials < 1 || req.Trials > 10000000 {
		httperr.Errs(w, errs.NewWarn("trials must be between 1 to 10,000,000"))
		return
	}
	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}
	sim, err := sh.Lab.NewSimulatorWithSeed(req.SID, *req.Seed)
	if err != nil {
		// 這裡的錯誤是來自 lab 尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %d", req.SID)))
		return
	}
	report, used, err := sim.SimMP(req.Trials, sh.Workers, false)
	if err != nil {
		// 這裡的錯誤來自 simulator 尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	resp := SimResponse{
		Report:   report,
		UsedTime: used.Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
