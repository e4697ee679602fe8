// Package linter содержит анализатор storeio.
//
// Анализатор следит, чтобы состояние на диске менялось только через пакет
// repository, а процесс завершался только из main.main.
package linter

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// storePackage — единственный пакет, которому разрешено менять файлы напрямую.
const storePackage = "repository"

// mutatingCalls — функции пакета os, изменяющие файловую систему.
var mutatingCalls = map[string]bool{
	"WriteFile": true,
	"Create":    true,
	"OpenFile":  true,
	"Remove":    true,
	"RemoveAll": true,
	"Rename":    true,
	"Truncate":  true,
}

var Analyzer = &analysis.Analyzer{
	Name: "storeio",
	Doc:  "reports filesystem writes outside the repository package and os.Exit/log.Fatal outside main.main",
	Run:  run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	pkgName := pass.Pkg.Name()
	for _, file := range pass.Files {
		// Тестам можно готовить файлы как угодно.
		if strings.HasSuffix(pass.Fset.Position(file.Pos()).Filename, "_test.go") {
			continue
		}
		for _, decl := range file.Decls {
			funcName := ""
			if fDecl, ok := decl.(*ast.FuncDecl); ok {
				funcName = fDecl.Name.Name
				if fDecl.Recv != nil {
					funcName = ""
				}
			}
			ast.Inspect(decl, func(node ast.Node) bool {
				if call, ok := node.(*ast.CallExpr); ok {
					checkCall(pass, call, pkgName, funcName)
				}
				return true
			})
		}
	}
	return nil, nil
}

// checkCall проверяет вызов pkg.Func, где pkg — импортированный пакет.
func checkCall(pass *analysis.Pass, call *ast.CallExpr, pkgName, funcName string) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return
	}
	pkgNameObj, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return
	}

	name := sel.Sel.Name
	switch pkgNameObj.Imported().Path() {
	case "os":
		if mutatingCalls[name] && pkgName != storePackage {
			pass.Reportf(sel.Sel.Pos(), "os.%s outside the repository package; go through the store", name)
		}
		if name == "Exit" && !(pkgName == "main" && funcName == "main") {
			pass.Reportf(sel.Sel.Pos(), "call to log.Fatal or os.Exit outside main.main")
		}
	case "log":
		if strings.HasPrefix(name, "Fatal") && !(pkgName == "main" && funcName == "main") {
			pass.Reportf(sel.Sel.Pos(), "call to log.Fatal or os.Exit outside main.main")
		}
	}
}
