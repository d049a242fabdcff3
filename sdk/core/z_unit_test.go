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

package core

import (
	"math"
	"testing"
)

// TestPCG64_Determinism 驗證相同 seed 產生相同序列
func TestPCG64_Determinism(t *testing.T) {
	a := NewPCG64WithSeed(42)
	b := NewPCG64WithSeed(42)
	for i := 0; i < 1000; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("sequence diverged at %d", i)
		}
	}
}

// TestPCG64_SeedSensitivity 驗證相鄰 seed 產生不同序列
func TestPCG64_SeedSensitivity(t *testing.T) {
	a := NewPCG64WithSeed(1)
	b := NewPCG64WithSeed(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("adjacent seeds produced %d identical outputs in 100 draws", same)
	}
}

// TestPCG64_Float64Range 驗證 Float64 落在 [0,1)
func TestPCG64_Float64Range(t *testing.T) {
	r := NewPCG64WithSeed(7)
	for i := 0; i < 100000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

// TestPCG64_IntNBounds 驗證 IntN 邊界行為（max<=0 回傳 -1）
func TestPCG64_IntNBounds(t *testing.T) {
	r := NewPCG64WithSeed(9)
	if got := r.IntN(0); got != -1 {
		t.Errorf("IntN(0) = %d, want -1", got)
	}
	if got := r.IntN(-5); got != -1 {
		t.Errorf("IntN(-5) = %d, want -1", got)
	}
	for i := 0; i < 10000; i++ {
		if v := r.IntN(10); v < 0 || v >= 10 {
			t.Fatalf("IntN(10) out of range: %d", v)
		}
	}
}

// TestPCG64_SnapshotRestore 驗證狀態快照與還原後序列一致
func TestPCG64_SnapshotRestore(t *testing.T) {
	r := NewPCG64WithSeed(123)
	for i := 0; i < 17; i++ {
		r.Uint64()
	}
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot err: %v", err)
	}
	want := make([]uint64, 32)
	for i := range want {
		want[i] = r.Uint64()
	}

	r2 := NewPCG64WithSeed(0)
	if err := r2.Restore(snap); err != nil {
		t.Fatalf("restore err: %v", err)
	}
	for i, w := range want {
		if got := r2.Uint64(); got != w {
			t.Fatalf("restored sequence diverged at %d: got %d want %d", i, got, w)
		}
	}
}

// TestCore_Float64NZ 驗證 (0,1] 範圍（ln 安全）
func TestCore_Float64NZ(t *testing.T) {
	c := New(NewPCG64WithSeed(5))
	for i := 0; i < 100000; i++ {
		u := c.Float64NZ()
		if u <= 0 || u > 1 {
			t.Fatalf("Float64NZ out of range: %v", u)
		}
		if math.IsInf(math.Log(u), 0) && u != 1 {
			t.Fatalf("log blew up for u=%v", u)
		}
	}
}

// TestCore_ExpFloat64Mean 驗證標準指數分佈樣本均值趨近 1
func TestCore_ExpFloat64Mean(t *testing.T) {
	c := New(NewPCG64WithSeed(11))
	n := 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += c.ExpFloat64()
	}
	mean := sum / float64(n)
	if math.Abs(mean-1) > 0.02 {
		t.Errorf("exp sample mean = %.4f, want ~1.0", mean)
	}
}
