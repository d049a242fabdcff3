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

package spec

import (
	"testing"

	"github.com/zintix-labs/bunpu/dist"
)

const goodYAML = `
scenario_name: drift-down
scenario_id: 1001
init_wealth: 100
steps: 200
trials: 50000
components:
  - kind: atom
    x: 1.0
    p: 0.6
  - kind: bin
    a: -3
    b: 1
    p: 0.3
  - kind: tail
    x0: -5
    mass: 0.1
    lambda: 0.5
`

// TestScenario_YAML 驗證 YAML 解析與 Distribution 轉換
func TestScenario_YAML(t *testing.T) {
	ss, err := GetScenarioSettingByYAML([]byte(goodYAML))
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if ss.ScenarioName != "drift-down" || ss.ScenarioID != 1001 {
		t.Errorf("header mismatch: %+v", ss)
	}
	if ss.InitWealth != 100 || ss.Steps != 200 || ss.Trials != 50000 {
		t.Errorf("sim params mismatch: %+v", ss)
	}

	d := ss.Distribution()
	if len(d) != 3 {
		t.Fatalf("distribution has %d components, want 3", len(d))
	}
	if d[0].Kind != dist.KindAtom || d[0].X != 1 || d[0].P != 0.6 {
		t.Errorf("atom mismatch: %+v", d[0])
	}
	if d[1].Kind != dist.KindBin || d[1].A != -3 || d[1].B != 1 {
		t.Errorf("bin mismatch: %+v", d[1])
	}
	if d[2].Kind != dist.KindTail || d[2].Lambda != 0.5 || d[2].IsRight {
		t.Errorf("tail mismatch: %+v", d[2])
	}
}

// TestScenario_JSON 驗證 JSON 入口
func TestScenario_JSON(t *testing.T) {
	raw := []byte(`{
		"scenario_name": "coin",
		"scenario_id": 7,
		"init_wealth": 10,
		"steps": 50,
		"trials": 1000,
		"components": [
			{"kind": "atom", "x": 1, "p": 0.5},
			{"kind": "atom", "x": -1, "p": 0.5}
		]
	}`)
	ss, err := GetScenarioSettingByJSON(raw)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(ss.Components) != 2 || ss.ScenarioName != "coin" {
		t.Errorf("json scenario mismatch: %+v", ss)
	}
}

// TestScenario_Invalid 驗證設定檔邊界的 fail-fast 檢查
func TestScenario_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
scenario_name: bad
scenario_id: 1
init_wealth: 1
steps: 1
trials: 1
components:
  - kind: spike
    x: 0
    p: 1
`,
		"zero lambda": `
scenario_name: bad
scenario_id: 1
init_wealth: 1
steps: 1
trials: 1
components:
  - kind: tail
    x0: 0
    mass: 1
    lambda: 0
`,
		"empty components": `
scenario_name: bad
scenario_id: 1
init_wealth: 1
steps: 1
trials: 1
components: []
`,
		"zero trials": `
scenario_name: bad
scenario_id: 1
init_wealth: 1
steps: 1
trials: 0
components:
  - kind: atom
    x: 0
    p: 1
`,
		"bin a>b": `
scenario_name: bad
scenario_id: 1
init_wealth: 1
steps: 1
trials: 1
components:
  - kind: bin
    a: 3
    b: 1
    p: 1
`,
		"unknown field": `
scenario_name: bad
scenario_id: 1
init_wealth: 1
steps: 1
trials: 1
spins: 42
components:
  - kind: atom
    x: 0
    p: 1
`,
	}
	for name, raw := range cases {
		if _, err := GetScenarioSettingByYAML([]byte(raw)); err == nil {
			t.Errorf("[%s] expected error, got none", name)
		}
	}
}
