// Package app 定義管理長期運行元件的最小生命週期抽象。
package app

import "context"

// Component 抽象任何「可啟動 / 可關閉」的長生命週期元件。
//   - Run() 是阻塞呼叫，直到元件停止為止（正常或錯誤）。
//   - Shutdown(ctx) 要求優雅關閉；實作方應尊重 ctx deadline/cancel。
//
// 這個 repo 裡的實例是 netsvr 的 HTTP server；抽象保留給之後的
// background worker（例如排程批次模擬）。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
