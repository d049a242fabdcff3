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

package bunpu

import (
	"crypto/rand"
	"math"
	"math/big"

	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/recorder"
	"github.com/zintix-labs/bunpu/sdk/core"
	"github.com/zintix-labs/bunpu/sdk/sampler"
	"github.com/zintix-labs/bunpu/spec"
)

// Machine 封裝一條「可連續抽樣的財富路徑產生器」。
//
// 對內持有 RNG（Core）與情境分佈的 alias 抽樣表；對外提供單步抽樣
// 與完整試驗（RunTrial）兩個入口。
//
// 並發語意：
//   - 同一台 Machine 不應被多 goroutine 同時使用（抽樣會推進 RNG 狀態）。
//   - 併發模擬由 Simulator 建立多台 Machine 分散到不同 worker。
//
// initseed 用於記錄出生時的 seed（追溯/重現的基礎資訊）；
// 完整審計仍以 Core 的 Snapshot/Restore 為準。
type Machine struct {
	scenarioName string
	scenarioId   spec.SID
	core         *core.Core
	table        *sampler.AliasTable
	initseed     int64
}

// newMachine 以「隨機 seed」建立 Machine。
//
// 使用 crypto/rand 產生 seed 是為了在對外服務情境避免可預測 RNG，
// 同時保留可追溯性（seed 會被記錄在 Machine.initseed）。
func newMachine(ss *spec.ScenarioSetting, cf core.PRNGFactory) (*Machine, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return newMachineWithSeed(ss, cf, seed.Int64())
}

// newMachineWithSeed 以指定 seed 建立 Machine。
//
// 這是最常用的「可重現」入口：同一份 ScenarioSetting + 同一個 seed，
// 應產生一致的財富路徑（取決於 Core 實作）。
func newMachineWithSeed(ss *spec.ScenarioSetting, cf core.PRNGFactory, seed int64) (*Machine, error) {
	if ss == nil {
		return nil, errs.NewFatal("scenario setting required")
	}
	if cf == nil {
		return nil, errs.NewFatal("core factory required")
	}
	return &Machine{
		scenarioName: ss.ScenarioName,
		scenarioId:   ss.ScenarioID,
		core:         core.New(cf.New(seed)),
		table:        sampler.Build(ss.Distribution()),
		initseed:     seed,
	}, nil
}

// Step 抽一次單步財富增量
func (m *Machine) Step() float64 {
	return m.table.Sample(m.core)
}

// RunTrial 跑一條財富路徑：從 initWealth 出發，每步加上一次抽樣增量，
// 財富一旦 <= 0 即判定破產並提前結束。回傳是否破產。
func (m *Machine) RunTrial(initWealth float64, steps int) bool {
	w := initWealth
	for i := 0; i < steps; i++ {
		w += m.table.Sample(m.core)
		if w <= 0 {
			return true
		}
	}
	return false
}

// RunTrialDetail 跑一條財富路徑並回傳完整觀察：破產與否、破產步數、
// 路徑極值與最終財富。比 RunTrial 慢，細部分析時才用。
func (m *Machine) RunTrialDetail(initWealth float64, steps int) recorder.TrialRecord {
	tr := recorder.TrialRecord{
		MinWealth: initWealth,
		MaxWealth: initWealth,
	}
	w := initWealth
	for i := 0; i < steps; i++ {
		w += m.table.Sample(m.core)
		if w < tr.MinWealth {
			tr.MinWealth = w
		}
		if w > tr.MaxWealth {
			tr.MaxWealth = w
		}
		if w <= 0 {
			tr.Ruined = true
			tr.StepsUsed = i + 1
			tr.EndWealth = w
			return tr
		}
	}
	tr.StepsUsed = steps
	tr.EndWealth = w
	return tr
}

// SnapshotCore 取得Core狀態暫存 當前僅提供取得Core狀態
func (m *Machine) SnapshotCore() ([]byte, error) {
	return m.core.Snapshot()
}

// RestoreCore 恢復Core狀態暫存 當前僅提供恢復Core狀態
func (m *Machine) RestoreCore(src []byte) error {
	return m.core.Restore(src)
}
