// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は公開フォームから受け取ったテキストからHTMLを取り除く。
// bluemondayのStrictPolicyで全タグを除去し、エンティティを復元した
// プレーンテキストとして保存する。表示時のエスケープはフロントエンドが行う。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキスト化のインターフェース。
type TextSanitizer interface {
	// Sanitize はHTMLタグを除去し、前後の空白を取り除いたテキストを返す。
	// script, styleタグは中身ごと除去する。
	// 同一入力に対して常に同一出力を返す。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}
