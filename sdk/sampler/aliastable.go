// Package sampler 提供 bunpu 分佈抽樣所需的加權抽樣結構。
//
// 本檔案 (aliastable.go) 實作了 Vose's Alias Method（浮點權重版）。
//
// 演算法原理：
//   - 將任意離散分佈轉換為均勻分佈的組合。
//   - 每個槽位 (Bucket) 只存放「自己」和「別名 (Alias)」兩個選項。
//   - 抽樣時先選槽位，再根據機率決定是自己還是別名。
//
// 特性：
//   - 建表時間：O(N)，線性時間。
//   - 抽樣時間：O(1)，穩定且高效。
//   - 空間複雜度：O(N)，與形狀數量成正比，**與權重總和無關**。
//
// 為什麼是浮點版本：
//   - 分佈元件的權重是未正規化的 float64 質量（可能 << 1），
//     整數 scaling 在這裡沒有自然的量化單位。
//   - 浮點誤差以「殘留索引強制 prob=1」收尾，保證每個 prob ∈ [0,1]
//     且 alias 是合法索引（見 Build 流程第 5 步）。
package sampler

import (
	"github.com/zintix-labs/bunpu/dist"
	"github.com/zintix-labs/bunpu/sdk/core"
)

// AliasTable 是對一個 Distribution 的 O(1) 抽樣結構。
//
// 結構欄位說明：
// - Prob: 每個槽位的「調整後機率」，建表完成後保證落在 [0,1]。
// - Aliases: 別名索引，用於處理機率不足的槽位，指向補足機率的槽位。
// - comps: 對應的形狀，抽中槽位後由形狀產生具體數值。
type AliasTable struct {
	Prob    []float64
	Aliases []int
	comps   dist.Distribution
}

// Build 根據分佈的形狀權重建立 AliasTable。
//
// 邊界行為（依合約，不是錯誤）：
//   - n == 0：空表；Sample 回傳中性預設值 0。
//   - 總權重 == 0：退化回均勻選擇——每個槽位 prob=1、alias 指向自己。
//
// 演算法流程條列：
// 1) 將每個權重 w 縮放為 w/total*n（平均值為 1）。
// 2) 依 prob[i] < 1 分類索引到 small 或 large。
// 3) 從 small 和 large 各取一個 s, l，將 l 指派為 s 的 alias，
//    並把盈餘機率 prob[l] += prob[s] - 1 搬給 l。
// 4) 依 l 更新後的值重新分桶，重複直到其中一桶空。
// 5) 任一桶的殘留索引（浮點飄移造成）強制 prob = 1。
func Build(d dist.Distribution) *AliasTable {
	n := len(d)
	if n == 0 {
		return &AliasTable{
			Prob:    []float64{},
			Aliases: []int{},
			comps:   dist.Distribution{},
		}
	}

	total := d.Total()
	if total == 0 {
		// 退化：均勻選擇 n 個形狀
		prob := make([]float64, n)
		aliases := make([]int, n)
		for i := range prob {
			prob[i] = 1
			aliases[i] = i
		}
		return &AliasTable{Prob: prob, Aliases: aliases, comps: d}
	}

	prob := make([]float64, n)
	aliases := make([]int, n)

	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, c := range d {
		prob[i] = c.Weight() / total * float64(n)
		if prob[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l               // 把 s 的剩餘機率補到 l，建立別名關係
		prob[l] = prob[l] + prob[s] - 1 // 維持 sum(prob) = n 的不變性

		if prob[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	// 殘留索引：浮點飄移的收尾，強制確定選中
	for _, l := range large {
		prob[l] = 1
	}
	for _, s := range small {
		prob[s] = 1
	}

	return &AliasTable{Prob: prob, Aliases: aliases, comps: d}
}

// Size 回傳槽位數量。
func (at *AliasTable) Size() int {
	return len(at.comps)
}

// Pick 從 AliasTable 中抽取一個形狀索引，若表為空則回傳 -1。
//
// 抽樣步驟：
// 1) u 均勻落在 [0,n)；i = floor(u) 選槽位。
// 2) y = u - i 是小數殘差，重用為第二個均勻變量。
// 3) y < Prob[i] 選 i，否則選 Aliases[i]。
//
// 一次 Pick 只消耗一個均勻亂數；殘差重用在這個用途上足夠獨立。
func (at *AliasTable) Pick(c *core.Core) int {
	n := len(at.comps)
	if n == 0 {
		return -1
	}
	u := c.Float64() * float64(n)
	i := int(u)
	if i > n-1 { // Float64 理論上 < 1，防禦邊界
		i = n - 1
	}
	if u-float64(i) < at.Prob[i] {
		return i
	}
	return at.Aliases[i]
}

// Sample 抽取一個具體數值：先 Pick 形狀，再由形狀產生值。
//
// 值的產生：
//   - Atom → 固定位置，不再消耗亂數。
//   - Bin  → a + U*(b-a)，U ∈ [0,1)。
//   - Tail → 指數反變換 e = -ln(U)/lambda，U ∈ (0,1]；
//     右尾回傳 x0 + e，左尾回傳 x0 - e。
//
// 最壞情況一次 Sample 消耗兩個獨立均勻亂數。
// 空表回傳中性預設值 0。
func (at *AliasTable) Sample(c *core.Core) float64 {
	idx := at.Pick(c)
	if idx < 0 {
		return 0
	}
	comp := at.comps[idx]
	switch comp.Kind {
	case dist.KindAtom:
		return comp.X
	case dist.KindBin:
		return comp.A + c.Float64()*(comp.B-comp.A)
	case dist.KindTail:
		e := c.ExpFloat64() / comp.Lambda
		if comp.IsRight {
			return comp.X + e
		}
		return comp.X - e
	}
	return 0
}
