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
	"github.com/zintix-labs/bunpu/dist"
	"github.com/zintix-labs/bunpu/errs"
)

// ComponentSetting 是設定檔層的形狀描述。
//
// 這是給人手寫 YAML 用的結構：欄位依 kind 取用，
// 載入時轉成 dist.Component（runtime 表示）。
type ComponentSetting struct {
	Kind string `yaml:"kind" json:"kind"` // atom | bin | tail

	// atom
	X float64 `yaml:"x,omitempty" json:"x,omitempty"`

	// bin
	A float64 `yaml:"a,omitempty" json:"a,omitempty"`
	B float64 `yaml:"b,omitempty" json:"b,omitempty"`

	// atom / bin 權重
	P float64 `yaml:"p,omitempty" json:"p,omitempty"`

	// tail
	X0     float64 `yaml:"x0,omitempty"     json:"x0,omitempty"`
	Mass   float64 `yaml:"mass,omitempty"   json:"mass,omitempty"`
	Lambda float64 `yaml:"lambda,omitempty" json:"lambda,omitempty"`
	Right  bool    `yaml:"right,omitempty"  json:"right,omitempty"`
}

func (cs *ComponentSetting) valid() error {
	switch cs.Kind {
	case "atom", "bin":
		if cs.P < 0 {
			return errs.NewFatal("negative weight")
		}
	case "tail":
		if cs.Mass < 0 {
			return errs.NewFatal("negative mass")
		}
		if cs.Lambda <= 0 {
			return errs.NewFatal("lambda must be > 0")
		}
	default:
		return errs.Fatalf("unknown component kind: %q", cs.Kind)
	}
	if cs.Kind == "bin" && cs.A > cs.B {
		return errs.NewFatal("bin interval requires a <= b")
	}
	return nil
}

// component 轉成 runtime 表示。呼叫前需先通過 valid。
func (cs *ComponentSetting) component() dist.Component {
	switch cs.Kind {
	case "atom":
		return dist.Atom(cs.X, cs.P)
	case "bin":
		return dist.Bin(cs.A, cs.B, cs.P)
	default: // tail
		return dist.Tail(cs.X0, cs.Mass, cs.Lambda, cs.Right)
	}
}

// Distribution 將設定檔的形狀列表轉為 runtime Distribution，保序。
func (ss *ScenarioSetting) Distribution() dist.Distribution {
	d := make(dist.Distribution, 0, len(ss.Components))
	for i := range ss.Components {
		d = append(d, ss.Components[i].component())
	}
	return d
}
