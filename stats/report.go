package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/bunpu/dist"
	"github.com/zintix-labs/bunpu/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// RuinReport 破產模擬統計報告
type RuinReport struct {
	Summary *SummaryReport `json:"Summary"`
	Step    *StepReport    `json:"Step"`
	isDone  bool
}

type SummaryReport struct {
	ScenarioName string   `json:"ScenarioName"`
	ScenarioId   spec.SID `json:"ScenarioId"`
	InitWealth   float64  `json:"InitWealth"`
	Steps        int      `json:"Steps"`
	Trials       int      `json:"Trials"`
	Ruined       int      `json:"Ruined"`
	Seed         int64    `json:"Seed"`
	RuinProb     float64  `json:"RuinProb"`
	RuinCI       CI       `json:"RuinCI"`
}

// StepReport 單步增量分佈的閉式統計
//
// 模擬前就能算出來，放在報告裡方便跟經驗結果對照：
// Drift = Steps * Mean，是 Steps 步之後財富的期望位移。
type StepReport struct {
	Mean  float64 `json:"Mean"`
	Std   float64 `json:"Std"`
	Drift float64 `json:"Drift"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// NewRuinReport 以情境設定與其步進分佈建立一份未完成的報告。
//
// Ruined 由模擬器在試驗過程中累加，結束後呼叫 Done 結算。
func NewRuinReport(ss *spec.ScenarioSetting, d dist.Distribution, seed int64) *RuinReport {
	return &RuinReport{
		Summary: &SummaryReport{
			ScenarioName: ss.ScenarioName,
			ScenarioId:   ss.ScenarioID,
			InitWealth:   ss.InitWealth,
			Steps:        ss.Steps,
			Trials:       ss.Trials,
			Seed:         seed,
		},
		Step: &StepReport{
			Mean: d.Mean(),
			Std:  d.Std(),
		},
	}
}

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 模擬過程因性能原因只累加 Ruined 計數，比例與信賴區間
// 都在這裡一次性計算。
func (s *RuinReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RuinProb = s.Prob()
	s.Summary.RuinCI = s.Ci()
	s.Step.Drift = float64(s.Summary.Steps) * s.Step.Mean
	s.isDone = true
}

// Prob 回傳破產比例（破產試驗數 / 總試驗數）
func (s *RuinReport) Prob() float64 {
	if s.Summary.Trials == 0 {
		return 0
	}
	return float64(s.Summary.Ruined) / float64(s.Summary.Trials)
}

// Ci 回傳破產比例的 (95%) Clopper–Pearson 信賴區間
func (s *RuinReport) Ci() CI {
	_, ci := proportionCICP(s.Summary.Ruined, s.Summary.Trials, 0.95)
	return ci
}

func (s *RuinReport) WriteWith(w io.Writer, rep RuinReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

func (s *RuinReport) StdOut(ut time.Duration) {
	formatDuration(ut, s.Summary.Trials)
	sk, sm := s.fmtBasic()
	str := fmtTable(s.Summary.ScenarioName, sk, sm)
	fmt.Println(str)
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, trials int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	tps := int(float64(trials) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ntps : %d trials/sec\n", sec, tps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		s = s % 60
		p.Printf("used: %dm %ds\ntps : %d trials/sec\n", m, s, tps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ntps : %d trials/sec\n", h, m, s, tps)
}

// StdOut

func (s *RuinReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Scenario":    p.Sprintf("%s", s.Summary.ScenarioName),
		"Scenario ID": fmt.Sprintf("%d", s.Summary.ScenarioId),
		"Init Wealth": p.Sprintf("%.2f", s.Summary.InitWealth),
		"Steps/Trial": p.Sprintf("%d", s.Summary.Steps),
		"Trials":      p.Sprintf("%d", s.Summary.Trials),
		"Ruined":      p.Sprintf("%d", s.Summary.Ruined),
		"Ruin Prob":   p.Sprintf("%.3f %%", 100.0*s.Summary.RuinProb),
		"Ruin 95% CI": p.Sprintf("[%.3f%%,%.3f%%]", 100.0*s.Summary.RuinCI.Lo, 100.0*s.Summary.RuinCI.Hi),
		"Step Mean":   p.Sprintf("%.4f", s.Step.Mean),
		"Step STD":    p.Sprintf("%.4f", s.Step.Std),
		"E[Drift]":    p.Sprintf("%.2f", s.Step.Drift),
		"Seed":        fmt.Sprintf("%d", s.Summary.Seed),
	}
	keys := []string{"Scenario", "Scenario ID", "Init Wealth", "Steps/Trial", "Trials", "Ruined", "Ruin Prob", "Ruin 95% CI", "Step Mean", "Step STD", "E[Drift]", "Seed"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
