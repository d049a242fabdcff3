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

// Package spec 定義風險情境（scenario）的設定檔結構與解析。
//
// 一個 scenario 描述一次破產模擬的完整輸入：
// 初始財富、步數上限、試驗次數，以及每步增量的混合分佈。
// 設定檔以 YAML 或 JSON 提供，來源一律是 fs.FS（go:embed / os.DirFS）。
package spec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zintix-labs/bunpu/errs"
	"gopkg.in/yaml.v3"
)

// SID 是 scenario 的唯一識別碼（只保證在同一個 catalog 內唯一）。
type SID uint

// ScenarioSetting 包含執行一個破產模擬所需的所有高階設定。
type ScenarioSetting struct {
	ScenarioName string             `yaml:"scenario_name" json:"scenario_name"`
	ScenarioID   SID                `yaml:"scenario_id"   json:"scenario_id"`
	InitWealth   float64            `yaml:"init_wealth"   json:"init_wealth"`
	Steps        int                `yaml:"steps"         json:"steps"`
	Trials       int                `yaml:"trials"        json:"trials"`
	Components   []ComponentSetting `yaml:"components"    json:"components"`
}

// GetScenarioSettingByYAML 解析 YAML 設定並執行基本檢查。
func GetScenarioSettingByYAML(raw []byte) (*ScenarioSetting, error) {
	ss := new(ScenarioSetting)
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(ss); err != nil {
		return nil, errs.Wrap(err, "spec: yaml decode failed")
	}
	if err := ss.valid(); err != nil {
		return nil, err
	}
	return ss, nil
}

// GetScenarioSettingByJSON 解析 JSON 設定並執行基本檢查。
func GetScenarioSettingByJSON(raw []byte) (*ScenarioSetting, error) {
	ss := new(ScenarioSetting)
	if err := json.Unmarshal(raw, ss); err != nil {
		return nil, errs.Wrap(err, "spec: json decode failed")
	}
	if err := ss.valid(); err != nil {
		return nil, err
	}
	return ss, nil
}

// valid 執行最基本的設定檔檢查。
//
// 注意這是「設定檔邊界」的驗證：核心運算依合約不驗證權重/lambda，
// 但一份署名的 scenario 設定檔壞掉應該在載入時就失敗，而不是跑出垃圾結果。
func (ss *ScenarioSetting) valid() error {
	if ss.ScenarioName == "" {
		return errs.NewFatal("scenario_name required")
	}
	if ss.Steps < 1 {
		return errs.Fatalf("scenario %s: steps must be >= 1", ss.ScenarioName)
	}
	if ss.Trials < 1 {
		return errs.Fatalf("scenario %s: trials must be >= 1", ss.ScenarioName)
	}
	if len(ss.Components) == 0 {
		return errs.Fatalf("scenario %s: empty components", ss.ScenarioName)
	}
	for i := range ss.Components {
		if err := ss.Components[i].valid(); err != nil {
			return errs.Wrap(err, fmt.Sprintf("scenario %s: component %d", ss.ScenarioName, i))
		}
	}
	return nil
}
