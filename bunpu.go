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

// Package bunpu 提供混合分佈引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 你可以把 Lab 視為一個「可被後端/模擬器使用的 runtime」，它負責把兩個必需的地基組裝在一起，並提供建立 Simulator 的入口：
//  1. Catalog：情境目錄（Single Source of Truth / SSOT），定義有哪些風險情境、各自對應的設定檔名稱（ConfigName）。
//  2. PRNGFactory：亂數核心工廠，保證可重現（reproducible）與可審計（auditable）。
//
// 設計重點：
//   - Lab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 的形式注入。
//   - 分佈本體（dist）與抽樣（sdk/sampler）是純函式層，不依賴 Lab；
//     Lab 只負責把情境設定變成可執行的 Simulator。
//   - 另有一組 flat-array 介面（api.go）直接對 []float64 編碼操作，
//     供不需要情境目錄的呼叫端（HTTP handler、跨語言邊界）使用。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Lab 建立 Simulator 執行破產模擬並回傳報告。
//   - 模擬器（cmd/run）：由 Lab 建立 Simulator 進行大量平行模擬。
package bunpu

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/bunpu/catalog"
	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/sdk/core"
	"github.com/zintix-labs/bunpu/spec"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 你可以用 go:embed 把 configs 直接編進 binary（部署最穩定，不依賴工作目錄）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
//
// Lab 不解析「路徑」：它只依賴 fs.FS + ConfigName（檔名）來取得設定內容。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 是「組裝器（assembler）」與「運行入口（runtime entry）」：
//
// 它把兩個必需的地基組合起來：
//  1. Catalog：情境目錄（SSOT），定義有哪些情境、各自對應的設定檔名稱。
//  2. PRNGFactory：亂數核心工廠，保證可重現與可審計。
//
// 使用流程通常分成兩階段：
//   - 註冊/組裝階段（registration/build）：建立 catalog、檢查重複與缺漏。
//   - 執行階段（runtime）：依據情境 ID 產生 Simulator 並執行模擬。
//
// 重要設計原則：
//   - Catalog 的 ID 唯一性只保證在「同一個 Lab instance」內。
//   - runtime 一旦開始（例如已對外服務），不建議再變更 Catalog。
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	sum []catalog.Summary
}

// New 建立一個 Lab instance。
//
// 這是「組裝階段（registration/build）」的入口：
//   - 會建立 Catalog（同時做檔名存在性/重複性檢查，避免 runtime 才爆）。
//   - 會保存 PRNGFactory，確保由這個 Lab 建出來的 Simulator 在 RNG 行為上具有一致性。
//
// 參數要求（是合約的一部分）：
//   - cf 不能為 nil：沒有 RNG 工廠就無法建立可重現/可審計的核心。
//   - cfgs 至少一個：沒有設定檔來源，Catalog 無法解析 ScenarioSetting。
func New(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("core factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{
		cat: cata,
		cf:  cf,
	}, nil
}

// NewAuto 建立一個直接進入執行階段的 Lab instance。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	lab, err := New(cf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll
//
// 會掃描 catalog 持有的設定檔來源（fs.FS），把所有可辨識的設定檔（.yaml/.yml/.json）嘗試解析成
// *spec.ScenarioSetting，並用設定檔內宣告的 ScenarioID/ScenarioName 產生對應的 catalog.Entry 來批次註冊。
//
// 行為特性（重要）：
//  1. Fail-fast：任何一個檔案讀取/解析/基本檢查失敗，都會立刻回傳 error（不會忽略、也不會繼續掃完）。
//  2. 原子性：只有當「全部檔案」都成功解析並通過基本檢查時，才會呼叫 Register(...) 一次性寫入。
//     因此不會出現只註冊了一半、導致 catalog 處於半完成狀態的情況。
func (l *Lab) RegisterAll() error {
	cfgs := l.cat.Cfg()
	sources := cfgs.Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 64)
	seenID := map[spec.SID]string{}
	seenName := map[string]string{}

	for _, src := range sources {
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}

			base := filepath.Base(path)
			if strings.Contains(path, "/") && path != base {
				return errs.NewFatal(fmt.Sprintf("configs must be flat (nested path): %q", path))
			}
			if strings.HasPrefix(base, ".") {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}

			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.NewFatal(fmt.Sprintf("read config failed: %s", base))
			}

			var (
				ss   *spec.ScenarioSetting
				serr error
			)
			switch ext {
			case ".yaml", ".yml":
				ss, serr = spec.GetScenarioSettingByYAML(raw)
			case ".json":
				ss, serr = spec.GetScenarioSettingByJSON(raw)
			default:
				return errs.NewFatal(fmt.Sprintf("unsupported config format: %q", base))
			}
			if serr != nil {
				return errs.NewFatal(fmt.Sprintf("parse scenario setting failed: %s", base))
			}

			name := strings.TrimSpace(ss.ScenarioName)
			if name == "" {
				return errs.NewFatal(fmt.Sprintf("scenario name required: %s", base))
			}

			id := ss.ScenarioID
			if prev, ok := seenID[id]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate scenario id: %d (config=%s and %s)", id, prev, base))
			}
			if _, ok := l.cat.GetByID(id); ok {
				return errs.NewFatal(fmt.Sprintf("scenario id already registered: %d (config=%s)", id, base))
			}
			seenID[id] = base

			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate scenario name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := l.cat.GetByName(name); ok {
				return errs.NewFatal(fmt.Sprintf("scenario name already registered: %s (config=%s)", name, base))
			}
			seenName[nameKey] = base

			entries = append(entries, catalog.Entry{
				SID:        id,
				Name:       name,
				ConfigName: base,
			})
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}

	return l.cat.Register(entries...)
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) EntryById(id spec.SID) (catalog.Entry, bool) {
	return l.cat.GetByID(id)
}

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

func (l *Lab) IDs() []spec.SID {
	return l.cat.IDs()
}

func (l *Lab) All() []catalog.Entry {
	return l.cat.All()
}

func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	ids := l.cat.IDs()
	cs := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		ss, err := l.cat.ScenarioSettingById(id)
		if err != nil {
			return nil, errs.NewFatal("parse scenario setting failed")
		}
		s := catalog.Summary{
			SID:        id,
			Name:       ss.ScenarioName,
			InitWealth: ss.InitWealth,
			Steps:      ss.Steps,
			Trials:     ss.Trials,
			Shapes:     len(ss.Components),
		}
		cs = append(cs, s)
	}
	l.sum = cs
	return l.sum, nil
}

// ScenarioSettingById 取出情境設定（runtime 查詢入口，需先 Freeze）。
func (l *Lab) ScenarioSettingById(id spec.SID) (*spec.ScenarioSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.ScenarioSettingById(id)
}

func (l *Lab) validCfg(cfg *spec.ScenarioSetting) error {
	ent, ok := l.cat.GetByID(cfg.ScenarioID)
	if !ok {
		return errs.NewWarn("sid not exist")
	}
	ent2, ok := l.cat.GetByName(cfg.ScenarioName)
	if !ok {
		return errs.NewWarn("scenario name not exist")
	}
	if ent.SID != ent2.SID {
		return errs.NewWarn("scenario id is not matched scenario name")
	}
	return nil
}

// NewSimulator 依據 Catalog 內的情境 ID 建立模擬器（seed 由 crypto/rand 產生）。
func (l *Lab) NewSimulator(id spec.SID) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ss, err := l.cat.ScenarioSettingById(id)
	if err != nil {
		return nil, err
	}
	return newSimulator(ss, l.cf)
}

// NewSimulatorWithSeed 與 NewSimulator 相同，但由呼叫端指定初始 seed。
//
// 使用情境：
//   - 可重現的測試：同一份設定 + 同一個 seed，應產生一致的模擬結果（取決於 Core 實作）。
//
// 注意：seed 只是「出生入口」。若要在任意時間點完整重現，請使用 Core 的 Snapshot/Restore。
func (l *Lab) NewSimulatorWithSeed(id spec.SID, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ss, err := l.cat.ScenarioSettingById(id)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ss, l.cf, seed)
}

// NewSimulatorByName 依據情境名稱建立模擬器（名稱大小寫不敏感）。
func (l *Lab) NewSimulatorByName(name string, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ss, err := l.cat.ScenarioSettingByName(name)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ss, l.cf, seed)
}

func (l *Lab) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := spec.GetScenarioSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := l.validCfg(cfg); err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(cfg, l.cf, seed)
}

func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := spec.GetScenarioSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if err := l.validCfg(cfg); err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(cfg, l.cf, seed)
}
