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

// Package core 提供 bunpu 所有抽樣操作的亂數核心。
//
// 亂數是一個「注入的能力」而不是全域狀態：
//   - 模擬器可以為每個 worker 建立獨立的 Core（各自獨立的串流），安全併發。
//   - 測試可以用固定 seed 建立 Core，取得可重現的序列。
package core

import "math"

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 為什麼要求同時提供 Uint64 / Float64 / UintN / IntN，而不是只要求 Uint64？
//   - 不同 PRNG 對 bounded 生成可能有更快/更正確的實作（32-bit / 64-bit fast path）。
//     把 IntN/UintN 交由 PRNG 自己實作，能讓每個 PRNG 用最合適的 bounded 策略。
//   - Float64 的精度（32-bit vs 53-bit mantissa）與生成方式應由 PRNG 決定。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以指定 seed 建立新的 PRNG。
//
// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是「決定性」的——
// 相同的 seed 必須產生相同的初始內部狀態與輸出序列。
//
// bunpu 的模擬器以 baseSeed 派生所有 worker 的子 seed，
// 因此內部永遠不需要「不帶 seed 的 New()」，避免行為不可重現。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供常用取樣與工具方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Float64NZ 回傳 (0,1] 的浮點亂數。
//
// 指數反變換需要 ln(U)，U 不可為 0；Float64 產出 [0,1)，
// 以 1-U 鏡射後恰好落在 (0,1]。
func (c *Core) Float64NZ() float64 {
	return 1 - c.Float64()
}

// ExpFloat64 以反變換法回傳標準指數分佈（rate=1）的亂數。
func (c *Core) ExpFloat64() float64 {
	return -math.Log(c.Float64NZ())
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
// 熱路徑中只使用哨兵值回傳
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	idx := c.IntN(len(src))
	return src[idx]
}
