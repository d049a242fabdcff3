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

package recorder

import (
	"math"

	"github.com/zintix-labs/bunpu/errs"
	"github.com/zintix-labs/bunpu/spec"
)

// TrialRecord 單條財富路徑的結果
//
// StepsUsed：破產發生在第幾步；未破產時等於步數上限。
type TrialRecord struct {
	Ruined    bool
	StepsUsed int
	MinWealth float64
	MaxWealth float64
	EndWealth float64
}

// TrialRecorder 路徑紀錄員
//
// TrialRecorder 聚合多條財富路徑的極值與破產時間統計，
// 是「只數破產次數」之外的細部觀察工具（平均破產時間、路徑極值）。
type TrialRecorder struct {
	ScenarioName string
	ScenarioId   spec.SID
	Trials       int
	Ruined       int
	RuinStepSum  int     // 破產步數總和（算平均破產時間用）
	MinWealth    float64 // 所有路徑的歷史最低資產
	MaxWealth    float64 // 所有路徑的歷史最高資產
}

func NewTrialRecorder(name string, id spec.SID) *TrialRecorder {
	return &TrialRecorder{
		ScenarioName: name,
		ScenarioId:   id,
		MinWealth:    math.Inf(1),
		MaxWealth:    math.Inf(-1),
	}
}

// MergeTrialRecorder 合併多個 worker 各自的紀錄（同一情境才允許合併）
func MergeTrialRecorder(r []*TrialRecorder) (*TrialRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge trial record err : empty input")
	}
	r0 := r[0]
	s := NewTrialRecorder(r0.ScenarioName, r0.ScenarioId)
	for _, v := range r {
		if v.ScenarioName != r0.ScenarioName {
			return s, errs.NewFatal("merge trial record err : different scenario name")
		}
		if v.ScenarioId != r0.ScenarioId {
			return s, errs.NewFatal("merge trial record err : different scenario id")
		}
		s.Trials += v.Trials
		s.Ruined += v.Ruined
		s.RuinStepSum += v.RuinStepSum
		if v.MinWealth < s.MinWealth {
			s.MinWealth = v.MinWealth
		}
		if v.MaxWealth > s.MaxWealth {
			s.MaxWealth = v.MaxWealth
		}
	}
	return s, nil
}

// Record 以單條路徑結果更新聚合統計
func (s *TrialRecorder) Record(tr TrialRecord) {
	s.Trials++
	if tr.Ruined {
		s.Ruined++
		s.RuinStepSum += tr.StepsUsed
	}
	if tr.MinWealth < s.MinWealth {
		s.MinWealth = tr.MinWealth
	}
	if tr.MaxWealth > s.MaxWealth {
		s.MaxWealth = tr.MaxWealth
	}
}

// Prob 回傳破產比例
func (s *TrialRecorder) Prob() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Ruined) / float64(s.Trials)
}

// MeanRuinStep 回傳破產路徑的平均破產時間（步）；沒有破產路徑時回 0
func (s *TrialRecorder) MeanRuinStep() float64 {
	if s.Ruined == 0 {
		return 0
	}
	return float64(s.RuinStepSum) / float64(s.Ruined)
}
