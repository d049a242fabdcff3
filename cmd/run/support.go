package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"

	"github.com/zintix-labs/bunpu"
	"github.com/zintix-labs/bunpu/corefmt"
	"github.com/zintix-labs/bunpu/demo/demo_configs"
	"github.com/zintix-labs/bunpu/sdk/core"
	"github.com/zintix-labs/bunpu/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.SID
	worker    int
	trials    int
	seed      int64
	snap      string
	pprofmode string
}

type sidFlag struct{ p *spec.SID }

func (f sidFlag) String() string { return fmt.Sprint(uint(*f.p)) }
func (f sidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.SID(uint(u))
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.Var(sidFlag{&cfg.id}, "scenario", "target scenario id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.trials, "trials", 0, "trials to run (0 = use scenario config)")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.snap, "snap", "", "write final core snapshot to this file")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	lab, err := bunpu.NewAuto(
		core.Default(),
		bunpu.Configs(demo_configs.FS),
	)
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.id, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	ent, _ := lab.EntryById(cfg.id)
	cfg.name = ent.Name
	if cfg.trials == 0 {
		ss, err := lab.ScenarioSettingById(cfg.id)
		if err != nil {
			log.Fatal(err)
		}
		cfg.trials = ss.Trials
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.worker == 1 { // 單線程
		p.Printf("%s[SCENARIO:%s] [TRIALS:%d]%s\n", green, cfg.name, cfg.trials, reset)
		st, used, _ := s.Sim(cfg.trials, true)
		st.StdOut(used)
	} else {
		p.Printf("%s[WORKERS:%d] [SCENARIO:%s] [TRIALS:%d]%s\n", green, cfg.worker, cfg.name, cfg.trials, reset)
		st, used, _ := s.SimMP(cfg.trials, cfg.worker, true) // 併發
		st.StdOut(used)
	}

	// 寫出最終 Core 快照（可用於重現後續序列）
	if cfg.snap != "" {
		writeSnapshot(s, cfg.snap)
	}
}

func writeSnapshot(s *bunpu.Simulator, path string) {
	snap, err := s.Snapshot()
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := corefmt.WriteBlobFrame(f, snap); err != nil {
		log.Fatal(err)
	}
	fmt.Println("snapshot written:", path)
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 試驗數檢查（0 表示沿用設定檔）
	if cfg.trials < 0 {
		log.Fatal("value err : trials must >= 0")
	}

	// 試驗數太多 resize
	if cfg.trials > 100000000 {
		p.Printf("too much trials: %d resized to 100M trials\n", cfg.trials)
		cfg.trials = 100000000
	}
}
