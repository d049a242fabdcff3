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

// Convolve 計算兩個獨立隨機變數之和的分佈近似。
//
// 對每一對 (c1 ∈ d1, c2 ∈ d2) 走完整笛卡兒積（|d1|×|d2| 對），
// 產出權重 = w1*w2（獨立性）的合成形狀：
//
//   - Atom+Atom → Atom(x1+x2)
//   - Atom+Bin（不分順序）→ 平移後的 Bin [a+x, b+x]
//   - Bin+Bin → 動差匹配（moment matching）出的單一 Bin：
//     以 v=(寬)^2/12 相加得新變異數，反推新寬度 sqrt(12v)，
//     中心為兩區間中心之和。以矩形近似梯形的真實和。
//   - 任何含 Tail 的組合 → 丟棄（無輸出對）。這是刻意的質量流失：
//     兩條無界尾沒有閉式的有界近似，呼叫端需自行追蹤/再正規化。
//
// 輸出為所有存活對的展平列表：不合併同類形狀、不做正規化。
func Convolve(d1, d2 Distribution) Distribution {
	out := make(Distribution, 0, len(d1)*len(d2))
	for _, c1 := range d1 {
		for _, c2 := range d2 {
			if c, ok := convolvePair(c1, c2); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// convolvePair 以閉式規則合成一對元件；含 Tail 的組合回傳 ok=false。
func convolvePair(c1, c2 Component) (Component, bool) {
	// Atom 在左，Bin 在右時平移可交換，先正規化順序
	if c1.Kind == KindBin && c2.Kind == KindAtom {
		c1, c2 = c2, c1
	}

	switch {
	case c1.Kind == KindAtom && c2.Kind == KindAtom:
		return Atom(c1.X+c2.X, c1.P*c2.P), true

	case c1.Kind == KindAtom && c2.Kind == KindBin:
		return Bin(c2.A+c1.X, c2.B+c1.X, c1.P*c2.P), true

	case c1.Kind == KindBin && c2.Kind == KindBin:
		v1 := c1.internVar()
		v2 := c2.internVar()
		newWidth := math.Sqrt(12 * (v1 + v2))
		newCenter := c1.Mean() + c2.Mean()
		return Bin(newCenter-newWidth/2, newCenter+newWidth/2, c1.P*c2.P), true
	}

	// Tail 組合：丟棄
	return Component{}, false
}
