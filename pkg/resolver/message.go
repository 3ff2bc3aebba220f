package resolver

import (
	"errors"

	"github.com/chen-qa/dynamic-choice/pkg/choices"
	"github.com/chen-qa/dynamic-choice/pkg/extract"
	"github.com/chen-qa/dynamic-choice/pkg/fetch"
)

const (
	networkPrefix = "Error: "
	parsePrefix   = "错误: "

	MsgNotAList           = "错误：JSON 路径未指向列表"
	MsgInvalidArraySyntax = "错误：无效的数组字段提取语法，请使用 data.versions[].version 格式"
	MsgInvalidXMLPath     = "错误: XML 路径无效"
	MsgUnsupportedFormat  = "错误：不支持的内容类型"
	MsgInvalidFilter      = "错误: 无效的过滤表达式: "
)

// Message maps a pipeline error to the single string shown in place of the
// choices.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		ne *fetch.NetworkError
		fe *choices.FilterError
		pe *extract.ParseError
	)
	switch {
	case errors.As(err, &ne):
		return networkPrefix + ne.Error()
	case errors.Is(err, extract.ErrNotAList), errors.Is(err, extract.ErrNotAnArray):
		return MsgNotAList
	case errors.Is(err, extract.ErrInvalidArraySyntax):
		return MsgInvalidArraySyntax
	case errors.Is(err, extract.ErrInvalidXMLPath):
		return MsgInvalidXMLPath
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return MsgUnsupportedFormat
	case errors.As(err, &fe):
		return MsgInvalidFilter + fe.Err.Error()
	case errors.As(err, &pe):
		return parsePrefix + pe.Err.Error()
	default:
		return parsePrefix + err.Error()
	}
}
