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

import (
	"math"

	"github.com/zintix-labs/bunpu/errs"
)

// ErrScaleZeroTail : Scale(k=0) 對 Tail 形狀意味著 lambda/0 的無限速率。
// 這裡明確回報 Warn 級錯誤而不是讓 Inf/NaN 靜默傳播。
var ErrScaleZeroTail = errs.NewWarn("scale by zero undefined for tail components")

// Mix 線性混合：d1 的每個形狀權重乘上 (1-p)，d2 的乘上 p，結果串接。
//
// p 是否落在 [0,1] 由呼叫端負責，這裡不驗證。
// 總輸出權重恆等於 (1-p)*total(d1) + p*total(d2)。
func Mix(d1, d2 Distribution, p float64) Distribution {
	out := make(Distribution, 0, len(d1)+len(d2))
	for _, c := range d1 {
		c.P *= 1 - p
		out = append(out, c)
	}
	for _, c := range d2 {
		c.P *= p
		out = append(out, c)
	}
	return out
}

// Scale 仿射縮放所有位置參數，權重一律不變。
//
//   - Atom: x *= k
//   - Bin:  k >= 0 時 [a*k, b*k]；k < 0 時端點交換為 [b*k, a*k]（維持 lower <= upper）
//   - Tail: x0 *= k；lambda /= |k|（指數變數乘 k，均值乘 k，速率除 |k|）；
//     k < 0 時方向翻轉（遞增的無界尾取負號變成遞減尾）
//
// k == 0 且分佈含 Tail 時回傳 ErrScaleZeroTail（速率會變成無限，行為未定義）；
// 不含 Tail 的分佈照常縮放（端點塌縮成點是合法結果）。
func Scale(d Distribution, k float64) (Distribution, error) {
	if k == 0 {
		for _, c := range d {
			if c.Kind == KindTail {
				return nil, ErrScaleZeroTail
			}
		}
	}

	out := make(Distribution, 0, len(d))
	for _, c := range d {
		switch c.Kind {
		case KindAtom:
			c.X *= k
		case KindBin:
			if k >= 0 {
				c.A, c.B = c.A*k, c.B*k
			} else {
				c.A, c.B = c.B*k, c.A*k
			}
		case KindTail:
			c.X *= k
			c.Lambda /= math.Abs(k)
			if k < 0 {
				c.IsRight = !c.IsRight
			}
		}
		out = append(out, c)
	}
	return out, nil
}
