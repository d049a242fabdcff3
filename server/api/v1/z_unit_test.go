// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/bunpu"
	"github.com/zintix-labs/bunpu/demo/demo_configs"
	"github.com/zintix-labs/bunpu/sdk/core"
)

func newTestHandler(t *testing.T) *SimHandler {
	t.Helper()
	lab, err := bunpu.NewAuto(
		core.Default(),
		bunpu.Configs(demo_configs.FS),
	)
	if err != nil {
		t.Fatalf("build lab: %v", err)
	}
	return NewSimHandler(lab, 2)
}

func postJSON(t *testing.T, fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}

func TestScenarios(t *testing.T) {
	sh := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil)
	w := httptest.NewRecorder()
	sh.Scenarios(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var sum []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if len(sum) != 2 {
		t.Fatalf("scenarios = %d, want 2", len(sum))
	}
}

func TestSim_GET(t *testing.T) {
	sh := newTestHandler(t)

	// 固定 seed + 明確 trials → 結果可重現
	req := httptest.NewRequest(http.MethodGet, "/v1/sim?sid=1002&trials=2000&seed=7", nil)
	w := httptest.NewRecorder()
	sh.Sim(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Report struct {
			Summary struct {
				Trials int   `json:"Trials"`
				Ruined int   `json:"Ruined"`
				Seed   int64 `json:"Seed"`
			} `json:"Summary"`
		} `json:"report"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Report.Summary.Trials != 2000 {
		t.Errorf("trials = %d, want 2000", resp.Report.Summary.Trials)
	}
	if resp.Report.Summary.Seed != 7 {
		t.Errorf("seed = %d, want 7", resp.Report.Summary.Seed)
	}
}

func TestSim_BadRequests(t *testing.T) {
	sh := newTestHandler(t)
	cases := []string{
		"/v1/sim",                           // 缺 sid
		"/v1/sim?sid=abc",                   // sid 非整數
		"/v1/sim?sid=9999",                  // sid 不存在
		"/v1/sim?sid=1002&trials=-5",        // trials 非法
		"/v1/sim?sid=1002&trials=999999999", // trials 超界
	}
	for _, url := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		sh.Sim(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, w.Code)
		}
	}
}

func TestSetByJson(t *testing.T) {
	sh := newTestHandler(t)

	// 沿用 catalog 內 1002，但臨時覆寫初始財富
	cfg := `{
		"scenario_name": "coinflip",
		"scenario_id": 1002,
		"init_wealth": 1,
		"steps": 500,
		"trials": 50000,
		"components": [
			{"kind": "atom", "x": 1, "p": 0.5},
			{"kind": "atom", "x": -1, "p": 0.5}
		]
	}`
	body := `{"trials": 1000, "seed": 42, "cfg": ` + cfg + `}`
	w := postJSON(t, sh.SetByJson, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// 未註冊的 id → 400
	bad := strings.Replace(body, `"scenario_id": 1002`, `"scenario_id": 42`, 1)
	w = postJSON(t, sh.SetByJson, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown sid: status = %d, want 400", w.Code)
	}
}

func TestMonteCarlo(t *testing.T) {
	// Atom(-1, 1.0)：每步必輸 → 必破產
	body := `{"data": [0, -1, 1], "init_wealth": 5, "steps": 10, "trials": 100, "seed": 1}`
	w := postJSON(t, MonteCarlo, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Ruined   int     `json:"ruined"`
		Trials   int     `json:"trials"`
		RuinProb float64 `json:"ruin_prob"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Ruined != 100 || resp.RuinProb != 1.0 {
		t.Errorf("ruined = %d, prob = %v, want 100 / 1.0", resp.Ruined, resp.RuinProb)
	}

	// steps=0 → 400
	w = postJSON(t, MonteCarlo, `{"data": [0, -1, 1], "init_wealth": 5, "steps": 0, "trials": 100}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("steps=0: status = %d, want 400", w.Code)
	}
}

func TestConvolveAndMix(t *testing.T) {
	// Atom(2, 0.5) ⊕ Atom(3, 0.4) → Atom(5, 0.2)
	w := postJSON(t, Convolve, `{"d1": [0, 2, 0.5], "d2": [0, 3, 0.4]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("convolve status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []float64 `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 5, 0.2}
	if len(resp.Data) != len(want) {
		t.Fatalf("data = %v, want %v", resp.Data, want)
	}
	for i := range want {
		if resp.Data[i] != want[i] {
			t.Fatalf("data = %v, want %v", resp.Data, want)
		}
	}

	// p 超界 → 400
	w = postJSON(t, MixDist, `{"d1": [0, 1, 1], "d2": [0, 2, 1], "p": 1.5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("mix p=1.5: status = %d, want 400", w.Code)
	}
}

func TestScaleDist(t *testing.T) {
	// k=-2：Atom(2, 0.5) → Atom(-4, 0.5)
	w := postJSON(t, ScaleDist, `{"data": [0, 2, 0.5], "k": -2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []float64 `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 3 || resp.Data[1] != -4 {
		t.Errorf("data = %v, want atom at -4", resp.Data)
	}

	// k=0 疊上尾形狀 → 400
	tail := `{"data": [2, 1, 0.3, 0.5, 1], "k": 0}`
	w = postJSON(t, ScaleDist, tail)
	if w.Code != http.StatusBadRequest {
		t.Errorf("tail k=0: status = %d, want 400", w.Code)
	}
}

func TestStat(t *testing.T) {
	// Atom(1, 0.5) + Atom(-1, 0.5)：mean 0、var 1
	w := postJSON(t, Stat, `{"data": [0, 1, 0.5, 0, -1, 0.5], "x": 0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Mean     float64  `json:"mean"`
		Variance float64  `json:"variance"`
		Std      float64  `json:"std"`
		ProbGT   *float64 `json:"prob_gt"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Mean != 0 || resp.Variance != 1 {
		t.Errorf("mean = %v, var = %v, want 0 / 1", resp.Mean, resp.Variance)
	}
	if resp.ProbGT == nil || *resp.ProbGT != 0.5 {
		t.Errorf("prob_gt = %v, want 0.5", resp.ProbGT)
	}

	// 沒帶 x → 不回 prob_gt
	var raw map[string]any
	w = postJSON(t, Stat, `{"data": [0, 1, 0.5]}`)
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["prob_gt"]; ok {
		t.Error("prob_gt present without x")
	}
}

func TestDecodeBody_MethodGuard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	MonteCarlo(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST-only: status = %d, want 405", w.Code)
	}
}
