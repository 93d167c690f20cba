package app

import "strings"

// Command はportfolioバイナリのサブコマンド。
type Command string

const (
	CommandServe       Command = "serve"       // APIサーバー（既定）
	CommandMigrate     Command = "migrate"     // 未適用マイグレーションの適用
	CommandHealthcheck Command = "healthcheck" // distrolessイメージ用の/health確認
)

var knownCommands = map[Command]bool{
	CommandServe:       true,
	CommandMigrate:     true,
	CommandHealthcheck: true,
}

// ParseCommand は先頭の引数をサブコマンドとして解釈する。
// 引数なし、または未知のサブコマンドはserveとして扱う。
func ParseCommand(args []string) Command {
	if cmd, ok := lookupCommand(args); ok {
		return cmd
	}
	return CommandServe
}

// lookupCommand は先頭の引数が既知のサブコマンドかを返す。大文字小文字は区別しない。
func lookupCommand(args []string) (Command, bool) {
	if len(args) == 0 {
		return "", false
	}
	cmd := Command(strings.ToLower(strings.TrimSpace(args[0])))
	return cmd, knownCommands[cmd]
}
