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

// Package dist 實作 bunpu 的混合分佈核心：
// 三種基本形狀（Atom / Bin / Tail）、扁平數值編碼、分佈代數與閉式統計。
//
// 設計重點：
//   - Component 是封閉的 tagged union：只有三種 Kind，dispatch 一律走 switch。
//   - 權重是「未正規化的相對質量」：總權重不必為 1，
//     需要機率的消費端在使用時除以總權重。
//   - Distribution 是短命值：每次呼叫由解碼產生、被單一操作消費，
//     不被就地修改、不跨呼叫共享。
package dist

// Kind 標記 Component 的形狀種類。
type Kind uint8

const (
	// KindAtom 點質量：位置 X、權重 P。
	KindAtom Kind = iota
	// KindBin 均勻區間：半開區間 [A,B)、權重 P。呼叫端需保證 A <= B。
	KindBin
	// KindTail 單邊指數尾：錨點 X、質量 P、速率 Lambda（需 > 0）、方向 IsRight。
	// IsRight=true 支撐為 [X,∞)；false 為 (-∞,X]。
	KindTail
)

// Component 是三種形狀共用的載體。
// 欄位依 Kind 取用：Atom 用 X/P；Bin 用 A/B/P；Tail 用 X/P/Lambda/IsRight。
//
// 不變量（約定，不驗證）：
//   - P 非負。
//   - Lambda 嚴格為正（除法與 log 不設防）。
type Component struct {
	Kind    Kind
	X       float64 // Atom 位置 / Tail 錨點 x0
	A, B    float64 // Bin 區間端點
	P       float64 // 權重（Tail 的 mass 也放這裡）
	Lambda  float64 // Tail 速率
	IsRight bool    // Tail 方向
}

// Atom 建立點質量元件。
func Atom(x, p float64) Component {
	return Component{Kind: KindAtom, X: x, P: p}
}

// Bin 建立均勻區間元件。
func Bin(a, b, p float64) Component {
	return Component{Kind: KindBin, A: a, B: b, P: p}
}

// Tail 建立單邊指數尾元件。
func Tail(x0, mass, lambda float64, isRight bool) Component {
	return Component{Kind: KindTail, X: x0, P: mass, Lambda: lambda, IsRight: isRight}
}

// Weight 回傳元件權重（未正規化質量）。
func (c Component) Weight() float64 {
	return c.P
}

// Mean 回傳元件自身的期望值。
//   - Atom: x
//   - Bin:  (a+b)/2
//   - Tail: x0 ± 1/lambda（依方向）
func (c Component) Mean() float64 {
	switch c.Kind {
	case KindAtom:
		return c.X
	case KindBin:
		return (c.A + c.B) / 2
	case KindTail:
		if c.IsRight {
			return c.X + 1/c.Lambda
		}
		return c.X - 1/c.Lambda
	}
	return 0
}

// internVar 回傳元件自身的變異數（不含與整體均值的偏移項）。
//   - Atom: 0
//   - Bin:  (b-a)^2/12
//   - Tail: 1/lambda^2
func (c Component) internVar() float64 {
	switch c.Kind {
	case KindBin:
		w := c.B - c.A
		return w * w / 12
	case KindTail:
		return 1 / (c.Lambda * c.Lambda)
	}
	return 0
}

// Distribution 是依序排列的 Component 序列。
// 順序對任何數學結果無關，但編解碼會保序以確保穩定 round-trip。
type Distribution []Component

// Total 回傳總權重（所有元件權重之和）。
func (d Distribution) Total() float64 {
	total := 0.0
	for _, c := range d {
		total += c.P
	}
	return total
}
