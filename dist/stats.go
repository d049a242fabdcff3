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

package dist

import "math"

// 閉式統計：全部是對形狀的加權彙總，除以總權重。
// 總權重為 0 時每個統計量回傳 0（退化分佈政策，不是錯誤）。

// Mean 回傳加權期望值。
func (d Distribution) Mean() float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range d {
		sum += c.Mean() * c.P
	}
	return sum / total
}

// Variance 以全變異數定律回傳變異數：
// Σ [(形狀均值 - 整體均值)^2 + 形狀內部變異數] * w / total。
func (d Distribution) Variance() float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	mean := d.Mean()
	sumSq := 0.0
	for _, c := range d {
		diff := c.Mean() - mean
		sumSq += (diff*diff + c.internVar()) * c.P
	}
	return sumSq / total
}

// Std 回傳標準差。
func (d Distribution) Std() float64 {
	return math.Sqrt(d.Variance())
}

// ProbGT 回傳超越機率 P(X > x)。
//
// 各形狀貢獻：
//   - Atom: 位置 > x 時貢獻全額權重。
//   - Bin:  a > x 全額；a <= x < b 線性部分 w*(b-x)/(b-a)；x >= b 無。
//   - 右 Tail: x < x0 全額；否則 mass * exp(-lambda*(x-x0))。
//   - 左 Tail: x < x0 時 mass*(1 - exp(-lambda*(x0-x)))；否則 0。
func (d Distribution) ProbGT(x float64) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	prob := 0.0
	for _, c := range d {
		switch c.Kind {
		case KindAtom:
			if c.X > x {
				prob += c.P
			}
		case KindBin:
			if c.A > x {
				prob += c.P
			} else if c.B > x {
				prob += c.P * (c.B - x) / (c.B - c.A)
			}
		case KindTail:
			if c.IsRight {
				if x < c.X {
					prob += c.P
				} else {
					prob += c.P * math.Exp(-c.Lambda*(x-c.X))
				}
			} else {
				if x < c.X {
					prob += c.P * (1 - math.Exp(-c.Lambda*(c.X-x)))
				}
			}
		}
	}
	return prob / total
}
