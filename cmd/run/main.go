package main

import "github.com/zintix-labs/bunpu/sdk/perf"

// 破產模擬 CLI：flags 見 support.go
func main() {
	bindVar()
	perf.RunPProf(executeSimulator, cfg.pprofmode)
}
