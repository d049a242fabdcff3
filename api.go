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
	"github.com/zintix-labs/bunpu/dist"
	"github.com/zintix-labs/bunpu/sdk/core"
	"github.com/zintix-labs/bunpu/sdk/sampler"
)

// 本檔是 flat-array 邊界：所有函式都吃/吐 dist 的 flat float64 編碼，
// 不依賴 Lab 與 Catalog。適合 HTTP handler 或跨語言呼叫端直接使用。
//
// 編碼格式見 dist/codec.go。所有函式對壞資料都走 dist.Decode 的
// 容錯語意（截斷丟棄、未知 tag 跳過），不會 panic。

// RunMonteCarlo 對 flat 編碼的分佈執行破產模擬，回傳破產試驗數。
//
// 每條試驗從 initWealth 出發走 steps 步，財富 <= 0 即破產並提前結束。
// 同一組 (data, initWealth, steps, trials, seed) 的結果是確定性的。
func RunMonteCarlo(data []float64, initWealth float64, steps int, trials int, seed int64) int {
	if steps < 1 || trials < 1 {
		return 0
	}
	at := sampler.Build(dist.Decode(data))
	c := core.New(core.Default().New(seed))

	ruined := 0
	for t := 0; t < trials; t++ {
		w := initWealth
		for i := 0; i < steps; i++ {
			w += at.Sample(c)
			if w <= 0 {
				ruined++
				break
			}
		}
	}
	return ruined
}

// Convolve 回傳兩個 flat 編碼分佈的和分佈（獨立相加）。
func Convolve(d1, d2 []float64) []float64 {
	return dist.Encode(dist.Convolve(dist.Decode(d1), dist.Decode(d2)))
}

// Mix 以權重 p 混合兩個 flat 編碼分佈：結果 = (1-p)*d1 + p*d2。
func Mix(d1, d2 []float64, p float64) []float64 {
	return dist.Encode(dist.Mix(dist.Decode(d1), dist.Decode(d2), p))
}

// Scale 回傳 flat 編碼分佈經線性變換 X -> k*X 後的分佈。
//
// k = 0 且分佈含尾形狀時回傳 dist.ErrScaleZeroTail。
func Scale(data []float64, k float64) ([]float64, error) {
	d, err := dist.Scale(dist.Decode(data), k)
	if err != nil {
		return nil, err
	}
	return dist.Encode(d), nil
}

// Mean 回傳 flat 編碼分佈的期望值。
func Mean(data []float64) float64 {
	return dist.Decode(data).Mean()
}

// Variance 回傳 flat 編碼分佈的變異數（全變異數公式）。
func Variance(data []float64) float64 {
	return dist.Decode(data).Variance()
}

// Std 回傳 flat 編碼分佈的標準差。
func Std(data []float64) float64 {
	return dist.Decode(data).Std()
}

// ProbGT 回傳 flat 編碼分佈 P(X > x)。
func ProbGT(data []float64, x float64) float64 {
	return dist.Decode(data).ProbGT(x)
}
