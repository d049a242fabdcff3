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

// 扁平數值編碼：與呼叫端唯一的交換格式。
//
// 每筆記錄以整數值 tag 開頭，後接該形狀的欄位：
//
//	tag=0 Atom : x, p                      （寬度 3）
//	tag=1 Bin  : a, b, p                   （寬度 4）
//	tag=2 Tail : x0, mass, lambda, isRight （寬度 5；isRight = 值 > 0.5）
//
// 解碼規則（與錯誤處理設計一致，永不回報錯誤）：
//   - 尾端殘缺記錄：靜默丟棄（截斷不是錯）。
//   - 未知 tag：游標前進一格（保證前進、不會死迴圈），其餘不丟棄。
//
// 定律：Decode(Encode(d)) == d；
// Encode(Decode(raw)) 在 raw 含垃圾尾端/未知 tag 時可能是 raw 的嚴格前綴。
const (
	TagAtom float64 = 0
	TagBin  float64 = 1
	TagTail float64 = 2
)

// Decode 由扁平數列掃出 Distribution。由左而右，單趟掃描。
func Decode(data []float64) Distribution {
	d := make(Distribution, 0, len(data)/3)
	i := 0
	for i < len(data) {
		switch int(data[i]) {
		case 0:
			if i+2 < len(data) {
				d = append(d, Atom(data[i+1], data[i+2]))
			}
			i += 3
		case 1:
			if i+3 < len(data) {
				d = append(d, Bin(data[i+1], data[i+2], data[i+3]))
			}
			i += 4
		case 2:
			if i+4 < len(data) {
				d = append(d, Tail(data[i+1], data[i+2], data[i+3], data[i+4] > 0.5))
			}
			i += 5
		default:
			// 未知 tag：只吃掉這一格
			i++
		}
	}
	return d
}

// Encode 將 Distribution 依遭遇順序寫回扁平數列。Decode 的嚴格反函數。
func Encode(d Distribution) []float64 {
	out := make([]float64, 0, len(d)*5)
	for _, c := range d {
		switch c.Kind {
		case KindAtom:
			out = append(out, TagAtom, c.X, c.P)
		case KindBin:
			out = append(out, TagBin, c.A, c.B, c.P)
		case KindTail:
			right := 0.0
			if c.IsRight {
				right = 1.0
			}
			out = append(out, TagTail, c.X, c.P, c.Lambda, right)
		}
	}
	return out
}
