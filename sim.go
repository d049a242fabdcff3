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
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/bunpu/corefmt"
	"github.com/zintix-labs/bunpu/dist"
	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/recorder"
	"github.com/zintix-labs/bunpu/sdk/core"
	"github.com/zintix-labs/bunpu/spec"
	"github.com/zintix-labs/bunpu/stats"
)

const capPrepare int = 100

// Simulator 用於執行破產模擬，可建立多台機台並平行累計破產計數。
type Simulator struct {
	ScenarioName string                // 情境名稱
	ScenarioId   spec.SID              // 情境ID
	ss           *spec.ScenarioSetting // 方便重用建立報告
	d            dist.Distribution     // 步進分佈（閉式統計用）
	cf           core.PRNGFactory      // 亂數生成器
	initSeed     int64                 // 初始下的種子
	seedmaker    *seedMaker            // 種子生成器
	mBuf         []*Machine            // 併發執行機台實例
}

func newSimulator(ss *spec.ScenarioSetting, cf core.PRNGFactory) (*Simulator, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ss, cf, seed.Int64())
}

func newSimulatorWithSeed(ss *spec.ScenarioSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	s := &Simulator{
		ScenarioName: ss.ScenarioName,
		ScenarioId:   ss.ScenarioID,
		ss:           ss,
		d:            ss.Distribution(),
		cf:           cf,
		initSeed:     seed,
		seedmaker:    newSeedMaker(seed),
		mBuf:         make([]*Machine, 1, capPrepare),
	}
	m, err := newMachineWithSeed(ss, cf, s.initSeed)
	if err != nil {
		return nil, err
	}
	s.mBuf[0] = m
	return s, nil
}

// Sim 單線模擬器：以一台機台連續跑指定 trials 並回傳統計結果與用時
func (s *Simulator) Sim(trials int, showpb bool) (*stats.RuinReport, time.Duration, error) {
	if trials < 1 {
		return nil, 0, errs.NewWarn("trials must > 0")
	}
	m := s.mBuf[0]

	bar := pb.StartNew(trials)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	ruined := 0
	for i := 0; i < trials; i++ {
		if m.RunTrial(s.ss.InitWealth, s.ss.Steps) {
			ruined++
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	report := stats.NewRuinReport(s.ss, s.d, s.initSeed)
	report.Summary.Trials = trials
	report.Summary.Ruined = ruined
	report.Done()
	return report, used, nil
}

// SimMP 平行執行多個機台，總計 trials 次試驗（平均分攤到 mp 個 worker），
// 合併破產計數後回傳統計結果與用時
func (s *Simulator) SimMP(trials int, mp int, showpb bool) (*stats.RuinReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if trials < 1 {
		return nil, 0, errs.NewWarn("trials must > 0")
	}
	if mp > trials {
		mp = trials
	}
	for len(s.mBuf) < mp {
		m, err := newMachineWithSeed(s.ss, s.cf, s.seedmaker.next())
		if err != nil {
			return nil, 0, err
		}
		s.mBuf = append(s.mBuf, m)
	}

	// 平均分攤：前 extra 個 worker 多跑一次
	base := trials / mp
	extra := trials % mp

	var ruined atomic.Int64
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(trials)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			m := s.mBuf[i]
			n := base
			if i < extra {
				n++
			}
			cnt := 0
			for t := 0; t < n; t++ {
				if m.RunTrial(s.ss.InitWealth, s.ss.Steps) {
					cnt++
				}
				bar.Increment()
			}
			ruined.Add(int64(cnt))
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	report := stats.NewRuinReport(s.ss, s.d, s.initSeed)
	report.Summary.Trials = trials
	report.Summary.Ruined = int(ruined.Load())
	report.Done()
	return report, used, nil
}

// SimTrace 平行執行並保留路徑細部觀察（極值、平均破產時間）。
//
// 比 SimMP 慢（每步都要更新極值），做情境健檢或 what-if 分析時才用。
func (s *Simulator) SimTrace(trials int, mp int) (*recorder.TrialRecorder, error) {
	if mp <= 0 {
		return nil, errs.NewWarn("workers must > 0")
	}
	if trials < 1 {
		return nil, errs.NewWarn("trials must > 0")
	}
	if mp > trials {
		mp = trials
	}
	for len(s.mBuf) < mp {
		m, err := newMachineWithSeed(s.ss, s.cf, s.seedmaker.next())
		if err != nil {
			return nil, err
		}
		s.mBuf = append(s.mBuf, m)
	}

	base := trials / mp
	extra := trials % mp

	recs := make([]*recorder.TrialRecorder, mp)
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			m := s.mBuf[i]
			rec := recorder.NewTrialRecorder(s.ScenarioName, s.ScenarioId)
			n := base
			if i < extra {
				n++
			}
			for t := 0; t < n; t++ {
				rec.Record(m.RunTrialDetail(s.ss.InitWealth, s.ss.Steps))
			}
			recs[i] = rec
		}(i)
	}
	wg.Wait()

	return recorder.MergeTrialRecorder(recs)
}

// Snapshot 回傳首台機台的 Core 原始快照（[]byte）。
func (s *Simulator) Snapshot() ([]byte, error) {
	return s.mBuf[0].SnapshotCore()
}

// SnapshotBase64 回傳首台機台的 Core 狀態（base64），用於追溯/重現。
func (s *Simulator) SnapshotBase64() (string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return "", err
	}
	return corefmt.EncodeBase64(snap), nil
}

// RestoreBase64 以 base64 編碼的 Core 狀態恢復首台機台。
func (s *Simulator) RestoreBase64(snap64 string) error {
	snap, err := corefmt.DecodeBase64(snap64)
	if err != nil {
		return err
	}
	return s.mBuf[0].RestoreCore(snap)
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
