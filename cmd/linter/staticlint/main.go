// Command staticlint запускает анализатор storeio.
//
//	go run ./cmd/linter/staticlint ./...
package main

import (
	"github.com/RoGogDBD/writer-test/cmd/linter"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(linter.Analyzer)
}
