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
	"testing"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// almostEq 浮點近似比較
func almostEq(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("[%s] got %v, want %v (tol %v)", name, got, want, tol)
	}
}

// sameFlat 比較兩個扁平數列是否逐元素相等
func sameFlat(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("flat length mismatch: got %d want %d\n got=%v\nwant=%v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("flat[%d] mismatch: got %v want %v", i, got[i], want[i])
		}
	}
}

// -----------------------------------------------------------------------------
// Tests for Codec
// -----------------------------------------------------------------------------

// TestCodec_RoundTrip 驗證 Encode(Decode(b)) == b（良構輸入）
func TestCodec_RoundTrip(t *testing.T) {
	raw := []float64{
		0, 10, 0.5, // Atom(10, 0.5)
		1, -2, 3, 0.25, // Bin(-2, 3, 0.25)
		2, 0, 0.25, 1.5, 1, // right Tail(0, 0.25, 1.5)
		2, -1, 0.1, 2, 0, // left Tail(-1, 0.1, 2)
	}
	d := Decode(raw)
	if len(d) != 4 {
		t.Fatalf("decoded %d components, want 4", len(d))
	}
	sameFlat(t, Encode(d), raw)
}

// TestCodec_DecodeKinds 驗證三種記錄被解成正確的形狀
func TestCodec_DecodeKinds(t *testing.T) {
	d := Decode([]float64{0, 1, 2, 1, 3, 4, 5, 2, 6, 7, 8, 1})
	if len(d) != 3 {
		t.Fatalf("decoded %d components, want 3", len(d))
	}
	if d[0].Kind != KindAtom || d[0].X != 1 || d[0].P != 2 {
		t.Errorf("atom mismatch: %+v", d[0])
	}
	if d[1].Kind != KindBin || d[1].A != 3 || d[1].B != 4 || d[1].P != 5 {
		t.Errorf("bin mismatch: %+v", d[1])
	}
	if d[2].Kind != KindTail || d[2].X != 6 || d[2].P != 7 || d[2].Lambda != 8 || !d[2].IsRight {
		t.Errorf("tail mismatch: %+v", d[2])
	}
}

// TestCodec_TruncatedTrailing 驗證尾端殘缺記錄被靜默丟棄
func TestCodec_TruncatedTrailing(t *testing.T) {
	// 完整 atom + 殘缺 bin（缺 p）
	d := Decode([]float64{0, 1, 0.5, 1, 2, 3})
	if len(d) != 1 {
		t.Fatalf("decoded %d components, want 1 (partial record dropped)", len(d))
	}
	if d[0].Kind != KindAtom {
		t.Errorf("surviving component should be atom, got %+v", d[0])
	}
}

// TestCodec_UnknownTag 驗證未知 tag 只前進一格並繼續解碼
func TestCodec_UnknownTag(t *testing.T) {
	d := Decode([]float64{9, 0, 1, 0.5})
	if len(d) != 1 || d[0].Kind != KindAtom || d[0].X != 1 {
		t.Fatalf("decoder did not recover after unknown tag: %+v", d)
	}
	// encode(decode(b)) 可以是 b 的嚴格前綴（垃圾被丟）
	out := Encode(d)
	sameFlat(t, out, []float64{0, 1, 0.5})
}

// TestCodec_Empty 驗證空輸入
func TestCodec_Empty(t *testing.T) {
	if d := Decode(nil); len(d) != 0 {
		t.Errorf("decode(nil) = %v, want empty", d)
	}
	if out := Encode(nil); len(out) != 0 {
		t.Errorf("encode(nil) = %v, want empty", out)
	}
}

// -----------------------------------------------------------------------------
// Tests for Statistics
// -----------------------------------------------------------------------------

// TestStats_SingleBin 驗證單一 Bin 的 mean/variance 閉式值
func TestStats_SingleBin(t *testing.T) {
	d := Distribution{Bin(2, 6, 1)}
	almostEq(t, "mean", d.Mean(), 4, 1e-12)
	almostEq(t, "variance", d.Variance(), 16.0/12.0, 1e-12)
	almostEq(t, "std", d.Std(), math.Sqrt(16.0/12.0), 1e-12)
}

// TestStats_TailExceedance 驗證右尾的超越機率
func TestStats_TailExceedance(t *testing.T) {
	d := Distribution{Tail(0, 1, 1, true)}
	almostEq(t, "P(X>0)", d.ProbGT(0), 1, 1e-12)
	almostEq(t, "P(X>ln2)", d.ProbGT(math.Ln2), 0.5, 1e-12)
	almostEq(t, "P(X>-1)", d.ProbGT(-1), 1, 1e-12)
}

// TestStats_LeftTail 驗證左尾的超越機率與均值
func TestStats_LeftTail(t *testing.T) {
	d := Distribution{Tail(0, 1, 2, false)}
	almostEq(t, "mean", d.Mean(), -0.5, 1e-12)
	almostEq(t, "P(X>0)", d.ProbGT(0), 0, 1e-12)
	// P(X > -ln2/2) = 1 - exp(-2 * ln2/2) = 0.5
	almostEq(t, "P(X>-ln2/2)", d.ProbGT(-math.Ln2/2), 0.5, 1e-12)
}

// TestStats_BinPartial 驗證 Bin 的線性部分貢獻
func TestStats_BinPartial(t *testing.T) {
	d := Distribution{Bin(0, 4, 1)}
	almostEq(t, "P(X>1)", d.ProbGT(1), 0.75, 1e-12)
	almostEq(t, "P(X>-1)", d.ProbGT(-1), 1, 1e-12)
	almostEq(t, "P(X>4)", d.ProbGT(4), 0, 1e-12)
}

// TestStats_MixedWeighted 驗證未正規化權重的加權彙總
func TestStats_MixedWeighted(t *testing.T) {
	// 總權重 4：Atom(0) 佔 3/4，Atom(8) 佔 1/4 → mean = 2
	d := Distribution{Atom(0, 3), Atom(8, 1)}
	almostEq(t, "mean", d.Mean(), 2, 1e-12)
	// variance = 3/4*(0-2)^2 + 1/4*(8-2)^2 = 3 + 9 = 12
	almostEq(t, "variance", d.Variance(), 12, 1e-12)
	almostEq(t, "P(X>0)", d.ProbGT(0), 0.25, 1e-12)
}

// TestStats_ZeroTotal 驗證零總權重時所有統計量退化為 0
func TestStats_ZeroTotal(t *testing.T) {
	d := Distribution{Atom(5, 0), Bin(1, 2, 0)}
	almostEq(t, "mean", d.Mean(), 0, 0)
	almostEq(t, "variance", d.Variance(), 0, 0)
	almostEq(t, "std", d.Std(), 0, 0)
	almostEq(t, "probgt", d.ProbGT(0), 0, 0)
}

// -----------------------------------------------------------------------------
// Tests for Convolve
// -----------------------------------------------------------------------------

// TestConvolve_Atoms 驗證兩點質量卷積
func TestConvolve_Atoms(t *testing.T) {
	out := Convolve(Distribution{Atom(2, 0.5)}, Distribution{Atom(3, 0.4)})
	if len(out) != 1 {
		t.Fatalf("got %d components, want 1", len(out))
	}
	c := out[0]
	if c.Kind != KindAtom {
		t.Fatalf("want atom, got %+v", c)
	}
	almostEq(t, "x", c.X, 5, 1e-12)
	almostEq(t, "p", c.P, 0.2, 1e-12)
}

// TestConvolve_AtomBinShift 驗證 Atom+Bin 的平移（兩種順序）
func TestConvolve_AtomBinShift(t *testing.T) {
	a := Distribution{Atom(10, 0.5)}
	b := Distribution{Bin(1, 3, 0.4)}

	for name, out := range map[string]Distribution{
		"atom+bin": Convolve(a, b),
		"bin+atom": Convolve(b, a),
	} {
		if len(out) != 1 || out[0].Kind != KindBin {
			t.Fatalf("[%s] want single bin, got %+v", name, out)
		}
		almostEq(t, name+" a", out[0].A, 11, 1e-12)
		almostEq(t, name+" b", out[0].B, 13, 1e-12)
		almostEq(t, name+" p", out[0].P, 0.2, 1e-12)
	}
}

// TestConvolve_BinBinMomentMatch 驗證 Bin+Bin 的動差匹配近似
func TestConvolve_BinBinMomentMatch(t *testing.T) {
	out := Convolve(Distribution{Bin(0, 2, 1)}, Distribution{Bin(0, 2, 1)})
	if len(out) != 1 || out[0].Kind != KindBin {
		t.Fatalf("want single bin, got %+v", out)
	}
	c := out[0]
	// v = 4/12 + 4/12 → width = sqrt(12*8/12) = sqrt(8), center = 2
	width := math.Sqrt(8)
	almostEq(t, "a", c.A, 2-width/2, 1e-12)
	almostEq(t, "b", c.B, 2+width/2, 1e-12)
	almostEq(t, "p", c.P, 1, 1e-12)

	// 動差應被保存
	d := Distribution{c}
	almostEq(t, "mean", d.Mean(), 2, 1e-12)
	almostEq(t, "variance", d.Variance(), 8.0/12.0, 1e-12)
}

// TestConvolve_TailDropped 驗證含 Tail 的配對被丟棄（刻意質量流失）
func TestConvolve_TailDropped(t *testing.T) {
	d1 := Distribution{Atom(1, 0.5), Tail(0, 0.5, 1, true)}
	d2 := Distribution{Atom(2, 1)}
	out := Convolve(d1, d2)
	if len(out) != 1 {
		t.Fatalf("got %d components, want 1 (tail pair dropped)", len(out))
	}
	if out[0].Kind != KindAtom || out[0].X != 3 {
		t.Errorf("surviving pair mismatch: %+v", out[0])
	}
	// 質量流失：總權重 0.5，小於 d1.Total()*d2.Total() = 1
	almostEq(t, "total", out.Total(), 0.5, 1e-12)
}

// TestConvolve_CrossProductCount 驗證完整笛卡兒積的輸出數量
func TestConvolve_CrossProductCount(t *testing.T) {
	d1 := Distribution{Atom(0, 1), Bin(0, 1, 1)}
	d2 := Distribution{Atom(1, 1), Bin(1, 2, 1), Atom(2, 1)}
	out := Convolve(d1, d2)
	if len(out) != 6 {
		t.Errorf("got %d components, want 6 (2x3, no tails)", len(out))
	}
}

// -----------------------------------------------------------------------------
// Tests for Mix / Scale
// -----------------------------------------------------------------------------

// TestMix_WeightConservation 驗證總輸出權重 = (1-p)*total1 + p*total2
func TestMix_WeightConservation(t *testing.T) {
	d1 := Distribution{Atom(0, 2), Bin(0, 1, 1)}
	d2 := Distribution{Tail(0, 4, 1, true)}
	p := 0.3
	out := Mix(d1, d2, p)
	if len(out) != 3 {
		t.Fatalf("got %d components, want 3 (concatenated)", len(out))
	}
	almostEq(t, "total", out.Total(), (1-p)*d1.Total()+p*d2.Total(), 1e-12)
}

// TestMix_OrderPreserved 驗證 d1 形狀在前、d2 在後
func TestMix_OrderPreserved(t *testing.T) {
	out := Mix(Distribution{Atom(1, 1)}, Distribution{Atom(2, 1)}, 0.5)
	if out[0].X != 1 || out[1].X != 2 {
		t.Errorf("mix order broken: %+v", out)
	}
}

// TestScale_Positive 驗證 k>0 的位置縮放
func TestScale_Positive(t *testing.T) {
	d := Distribution{Atom(2, 0.5), Bin(1, 3, 0.5), Tail(1, 1, 2, true)}
	out, err := Scale(d, 2)
	if err != nil {
		t.Fatalf("scale err: %v", err)
	}
	almostEq(t, "atom x", out[0].X, 4, 1e-12)
	almostEq(t, "bin a", out[1].A, 2, 1e-12)
	almostEq(t, "bin b", out[1].B, 6, 1e-12)
	almostEq(t, "tail x0", out[2].X, 2, 1e-12)
	almostEq(t, "tail lambda", out[2].Lambda, 1, 1e-12)
	if !out[2].IsRight {
		t.Error("tail direction should be unchanged for k>0")
	}
	almostEq(t, "total", out.Total(), d.Total(), 1e-12)
}

// TestScale_SignFlip 驗證 k=-1 的端點交換與尾方向翻轉
func TestScale_SignFlip(t *testing.T) {
	out, err := Scale(Distribution{Bin(1, 3, 0.7)}, -1)
	if err != nil {
		t.Fatalf("scale err: %v", err)
	}
	almostEq(t, "bin a", out[0].A, -3, 1e-12)
	almostEq(t, "bin b", out[0].B, -1, 1e-12)
	almostEq(t, "bin p", out[0].P, 0.7, 1e-12)

	out, err = Scale(Distribution{Tail(2, 1, 1.5, true)}, -1)
	if err != nil {
		t.Fatalf("scale err: %v", err)
	}
	c := out[0]
	if c.IsRight {
		t.Error("right tail scaled by -1 should become left tail")
	}
	almostEq(t, "tail x0", c.X, -2, 1e-12)
	almostEq(t, "tail lambda", c.Lambda, 1.5, 1e-12)
}

// TestScale_ZeroWithTail 驗證 k=0 含 Tail 時回報 Warn 錯誤
func TestScale_ZeroWithTail(t *testing.T) {
	_, err := Scale(Distribution{Tail(0, 1, 1, true)}, 0)
	if err == nil {
		t.Fatal("expected error for scale(tail, 0)")
	}
}

// TestScale_ZeroWithoutTail 驗證 k=0 不含 Tail 時照常塌縮
func TestScale_ZeroWithoutTail(t *testing.T) {
	out, err := Scale(Distribution{Atom(5, 1), Bin(1, 3, 1)}, 0)
	if err != nil {
		t.Fatalf("scale err: %v", err)
	}
	almostEq(t, "atom x", out[0].X, 0, 0)
	almostEq(t, "bin a", out[1].A, 0, 0)
	almostEq(t, "bin b", out[1].B, 0, 0)
}

// TestScale_MeanLinear 驗證 E[kX] == k*E[X]（Tail 縮放一致性）
func TestScale_MeanLinear(t *testing.T) {
	d := Distribution{Atom(1, 0.2), Bin(0, 2, 0.3), Tail(0, 0.5, 2, true)}
	for _, k := range []float64{2, -3, 0.5} {
		out, err := Scale(d, k)
		if err != nil {
			t.Fatalf("scale err: %v", err)
		}
		almostEq(t, "mean", out.Mean(), k*d.Mean(), 1e-12)
	}
}
