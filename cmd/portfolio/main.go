// Command portfolio はポートフォリオCMSのAPIサーバーを起動する。
//
// 使い方:
//
//	portfolio [serve|migrate|healthcheck]
package main

import (
	"fmt"
	"os"

	"github.com/jcarizon/portfolio-cms-backend/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
