package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// RuinReportRender 定義輸出行為
type RuinReportRender interface {
	Write(w io.Writer, r *RuinReport) error
}

// Json渲染
type JsonRuinReportRender struct{}

func (jr *JsonRuinReportRender) Write(w io.Writer, r *RuinReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLRuinReportRender struct{}

func (yr *YAMLRuinReportRender) Write(w io.Writer, r *RuinReport) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}
