package v1

import (
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"net/http"

	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/server/httperr"
)

// SetByJson 傳入 JSON 情境設定 以及希望模擬的試驗次數
//
// 設定檔必須對應 catalog 內已註冊的情境（id/name 需一致），
// 但步數/初始財富/分佈形狀允許臨時覆寫，方便做 what-if 分析。
func (sh *SimHandler) SetByJson(w http.ResponseWriter, r *http.Request) {
	type SimRequestByJson struct {
		Trials          int             `json:"trials"`
		ScenarioSetting json.RawMessage `json:"cfg"`
		Seed            *int64          `json:"seed,omitempty"`
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(SimRequestByJson)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.Wrap(err, "json decode failed"))
		return
	}

	// 2. vaild trials
	if req.Trials < 1 {
		httperr.Errs(w, errs.NewWarn("trials must be at least 1"))
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

	// 3. NewSimulator
	sim, err := sh.Lab.NewSimulatorByJSON(req.ScenarioSetting, *req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	result, _, err := sim.SimMP(req.Trials, sh.Workers, false)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 4. 回傳Json
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
