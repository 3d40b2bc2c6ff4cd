package script

import (
	"github.com/dop251/goja"

	"github.com/calumari/jsconsole"
)

// Stdlib returns the console helpers a script expects from the host, all
// backed by c:
//
//	print(text)          // c.Log
//	console.log(message) // c.Log
//	console.error(e)     // c.ErrorReport(getErrorReport(e))
//	getErrorReport(e)    // "[fileName | LINE lineNumber] message", "" when falsy
//	getDump(value)       // cycle-safe dump, "" when falsy
//	dump(value)          // print(getDump(value))
func Stdlib(c *jsconsole.Console) Registration {
	return Group(
		NewBinding("print", func(text goja.Value) {
			c.Log(valueString(text))
		}),
		NewBinding("console.log", func(message goja.Value) {
			c.Log(valueString(message))
		}),
		NewBinding("console.error", func(e goja.Value) {
			c.ErrorReport(errorReport(e))
		}),
		NewBinding("getErrorReport", func(e goja.Value) string {
			return errorReport(e)
		}),
		NewBinding("getDump", func(v goja.Value) string {
			return dumpValue(c.Dumper(), v)
		}),
		NewBinding("dump", func(v goja.Value) {
			c.Log(dumpValue(c.Dumper(), v))
		}),
	)
}
